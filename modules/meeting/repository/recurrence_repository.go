package repository

import (
	"context"
	"database/sql"

	"workspace-api/core/database"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// RecurrenceRepositoryInterface stores recurrence rules, one row per series
// head keyed by meeting id.
type RecurrenceRepositoryInterface interface {
	WithTx(db database.IDatabase) RecurrenceRepositoryInterface
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entity.RecurrenceRule, error)
	Upsert(ctx context.Context, rule *entity.RecurrenceRule) error
	Update(ctx context.Context, rule *entity.RecurrenceRule) error
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}

type RecurrenceRepository struct {
	db database.IDatabase
}

func NewRecurrenceRepository(db database.IDatabase) *RecurrenceRepository {
	return &RecurrenceRepository{db: db}
}

func (r *RecurrenceRepository) WithTx(db database.IDatabase) RecurrenceRepositoryInterface {
	return &RecurrenceRepository{db: db}
}

func (r *RecurrenceRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entity.RecurrenceRule, error) {
	query := `
		SELECT id, meeting_id, frequency, interval, weekdays,
		       monthly_option, monthly_day, monthly_weekday, monthly_position,
		       end_type, end_date, occurrence_count, starts_at, timezone,
		       created_at, updated_at
		FROM recurrence_rules
		WHERE meeting_id = $1
	`

	var rule entity.RecurrenceRule
	err := r.db.GetContext(ctx, &rule, query, meetingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RecurrenceRepository:GetByMeetingID", err)
		return nil, err
	}
	return &rule, nil
}

func (r *RecurrenceRepository) Upsert(ctx context.Context, rule *entity.RecurrenceRule) error {
	query := `
		INSERT INTO recurrence_rules
			(id, meeting_id, frequency, interval, weekdays,
			 monthly_option, monthly_day, monthly_weekday, monthly_position,
			 end_type, end_date, occurrence_count, starts_at, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (meeting_id) DO UPDATE SET
			frequency = $3, interval = $4, weekdays = $5,
			monthly_option = $6, monthly_day = $7, monthly_weekday = $8, monthly_position = $9,
			end_type = $10, end_date = $11, occurrence_count = $12,
			starts_at = $13, timezone = $14, updated_at = NOW()
		RETURNING id
	`

	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	row := r.db.QueryRowContext(ctx, query,
		rule.ID, rule.MeetingID, rule.Frequency, rule.Interval, rule.Weekdays,
		rule.MonthlyOption, rule.MonthlyDay, rule.MonthlyWeekday, rule.MonthlyPosition,
		rule.EndType, rule.EndDate, rule.OccurrenceCount, rule.StartsAt, rule.Timezone)
	if err := row.Scan(&rule.ID); err != nil {
		logger.Error("RecurrenceRepository:Upsert", err)
		return err
	}
	return nil
}

func (r *RecurrenceRepository) Update(ctx context.Context, rule *entity.RecurrenceRule) error {
	query := `
		UPDATE recurrence_rules
		SET frequency = $2, interval = $3, weekdays = $4,
		    monthly_option = $5, monthly_day = $6, monthly_weekday = $7, monthly_position = $8,
		    end_type = $9, end_date = $10, occurrence_count = $11,
		    starts_at = $12, timezone = $13, updated_at = NOW()
		WHERE meeting_id = $1
	`

	err := r.db.ExecContext(ctx, query,
		rule.MeetingID, rule.Frequency, rule.Interval, rule.Weekdays,
		rule.MonthlyOption, rule.MonthlyDay, rule.MonthlyWeekday, rule.MonthlyPosition,
		rule.EndType, rule.EndDate, rule.OccurrenceCount, rule.StartsAt, rule.Timezone)
	if err != nil {
		logger.Error("RecurrenceRepository:Update", err)
		return err
	}
	return nil
}

func (r *RecurrenceRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	query := `DELETE FROM recurrence_rules WHERE meeting_id = $1`
	err := r.db.ExecContext(ctx, query, meetingID)
	if err != nil {
		logger.Error("RecurrenceRepository:DeleteByMeetingID", err)
		return err
	}
	return nil
}
