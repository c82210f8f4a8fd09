package repository

import (
	"context"

	"workspace-api/core/database"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AttendeeRepositoryInterface stores meeting/contact associations.
type AttendeeRepositoryInterface interface {
	WithTx(db database.IDatabase) AttendeeRepositoryInterface
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.MeetingAttendee, error)
	BulkInsert(ctx context.Context, attendees []entity.MeetingAttendee) error
	DeleteByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) error
}

type AttendeeRepository struct {
	db database.IDatabase
}

func NewAttendeeRepository(db database.IDatabase) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

func (r *AttendeeRepository) WithTx(db database.IDatabase) AttendeeRepositoryInterface {
	return &AttendeeRepository{db: db}
}

func (r *AttendeeRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.MeetingAttendee, error) {
	query := `
		SELECT id, meeting_id, contact_id, role, status, created_at
		FROM meeting_attendees
		WHERE meeting_id = $1
		ORDER BY created_at ASC
	`

	var attendees []entity.MeetingAttendee
	err := r.db.SelectContext(ctx, &attendees, query, meetingID)
	if err != nil {
		logger.Error("AttendeeRepository:ListByMeetingID", err)
		return nil, err
	}
	return attendees, nil
}

func (r *AttendeeRepository) BulkInsert(ctx context.Context, attendees []entity.MeetingAttendee) error {
	if len(attendees) == 0 {
		return nil
	}

	query := `
		INSERT INTO meeting_attendees (id, meeting_id, contact_id, role, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (meeting_id, contact_id) DO NOTHING
	`

	for i := range attendees {
		if attendees[i].ID == uuid.Nil {
			attendees[i].ID = uuid.New()
		}
		err := r.db.ExecContext(ctx, query,
			attendees[i].ID, attendees[i].MeetingID, attendees[i].ContactID,
			attendees[i].Role, attendees[i].Status)
		if err != nil {
			logger.Error("AttendeeRepository:BulkInsert", err)
			return err
		}
	}
	return nil
}

func (r *AttendeeRepository) DeleteByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) error {
	if len(meetingIDs) == 0 {
		return nil
	}

	query := `DELETE FROM meeting_attendees WHERE meeting_id = ANY($1)`
	err := r.db.ExecContext(ctx, query, pq.Array(meetingIDs))
	if err != nil {
		logger.Error("AttendeeRepository:DeleteByMeetingIDs", err)
		return err
	}
	return nil
}
