package repository

import (
	"context"
	"database/sql"
	"encoding/binary"

	"workspace-api/core/database"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MeetingRepositoryInterface defines the meeting store contract. WithTx
// returns a copy bound to an open transaction so multi-step series edits run
// atomically.
type MeetingRepositoryInterface interface {
	WithTx(db database.IDatabase) MeetingRepositoryInterface
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Meeting, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Meeting, error)
	GetChildren(ctx context.Context, parentID uuid.UUID) ([]entity.Meeting, error)
	Insert(ctx context.Context, meeting *entity.Meeting) error
	Update(ctx context.Context, meeting *entity.Meeting) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	LockSeries(ctx context.Context, headID uuid.UUID) error
}

type MeetingRepository struct {
	db database.IDatabase
}

func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) WithTx(db database.IDatabase) MeetingRepositoryInterface {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Meeting, error) {
	query := `
		SELECT id, user_id, title, location, duration_minutes, starts_at,
		       recurrence_parent_id, instance_index, created_at, updated_at
		FROM meetings
		WHERE id = $1 AND user_id = $2
	`

	var meeting entity.Meeting
	err := r.db.GetContext(ctx, &meeting, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByID", err)
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Meeting, error) {
	query := `
		SELECT id, user_id, title, location, duration_minutes, starts_at,
		       recurrence_parent_id, instance_index, created_at, updated_at
		FROM meetings
		WHERE user_id = $1
		ORDER BY starts_at ASC NULLS LAST, created_at ASC
	`

	var meetings []entity.Meeting
	err := r.db.SelectContext(ctx, &meetings, query, userID)
	if err != nil {
		logger.Error("MeetingRepository:ListByUser", err)
		return nil, err
	}
	return meetings, nil
}

// GetChildren returns the non-head members of a series ordered by date, rows
// without a date last. The reconciler depends on this ordering.
func (r *MeetingRepository) GetChildren(ctx context.Context, parentID uuid.UUID) ([]entity.Meeting, error) {
	query := `
		SELECT id, user_id, title, location, duration_minutes, starts_at,
		       recurrence_parent_id, instance_index, created_at, updated_at
		FROM meetings
		WHERE recurrence_parent_id = $1
		ORDER BY starts_at ASC NULLS LAST, instance_index ASC
	`

	var meetings []entity.Meeting
	err := r.db.SelectContext(ctx, &meetings, query, parentID)
	if err != nil {
		logger.Error("MeetingRepository:GetChildren", err)
		return nil, err
	}
	return meetings, nil
}

func (r *MeetingRepository) Insert(ctx context.Context, meeting *entity.Meeting) error {
	query := `
		INSERT INTO meetings (id, user_id, title, location, duration_minutes, starts_at,
		                      recurrence_parent_id, instance_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}

	row := r.db.QueryRowContext(ctx, query,
		meeting.ID, meeting.UserID, meeting.Title, meeting.Location,
		meeting.DurationMinutes, meeting.StartsAt,
		meeting.RecurrenceParentID, meeting.InstanceIndex)
	if err := row.Scan(&meeting.CreatedAt, &meeting.UpdatedAt); err != nil {
		logger.Error("MeetingRepository:Insert", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *entity.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $2, location = $3, duration_minutes = $4, starts_at = $5,
		    recurrence_parent_id = $6, instance_index = $7, updated_at = NOW()
		WHERE id = $1
	`

	err := r.db.ExecContext(ctx, query,
		meeting.ID, meeting.Title, meeting.Location, meeting.DurationMinutes,
		meeting.StartsAt, meeting.RecurrenceParentID, meeting.InstanceIndex)
	if err != nil {
		logger.Error("MeetingRepository:Update", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM meetings WHERE id = ANY($1)`
	err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("MeetingRepository:DeleteByIDs", err)
		return err
	}
	return nil
}

// LockSeries takes a transaction-scoped advisory lock on the series head so
// concurrent edits to one series serialize. Released automatically at commit
// or rollback.
func (r *MeetingRepository) LockSeries(ctx context.Context, headID uuid.UUID) error {
	key := int64(binary.BigEndian.Uint64(headID[:8]))
	err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, key)
	if err != nil {
		logger.Error("MeetingRepository:LockSeries", err)
		return err
	}
	return nil
}
