package repository

import (
	"context"

	"workspace-api/core/database"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TagRepositoryInterface stores tags and their meeting associations.
type TagRepositoryInterface interface {
	WithTx(db database.IDatabase) TagRepositoryInterface
	UpsertTag(ctx context.Context, tag *entity.Tag) error
	ListTagsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.Tag, error)
	ListAssociationsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.MeetingTag, error)
	BulkInsertAssociations(ctx context.Context, associations []entity.MeetingTag) error
	DeleteAssociationsByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) error
}

type TagRepository struct {
	db database.IDatabase
}

func NewTagRepository(db database.IDatabase) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) WithTx(db database.IDatabase) TagRepositoryInterface {
	return &TagRepository{db: db}
}

// UpsertTag inserts a tag or returns the existing one with the same slug for
// this user.
func (r *TagRepository) UpsertTag(ctx context.Context, tag *entity.Tag) error {
	query := `
		INSERT INTO tags (id, user_id, name, slug)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, slug) DO UPDATE SET name = $3
		RETURNING id, created_at
	`

	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}

	row := r.db.QueryRowContext(ctx, query, tag.ID, tag.UserID, tag.Name, tag.Slug)
	if err := row.Scan(&tag.ID, &tag.CreatedAt); err != nil {
		logger.Error("TagRepository:UpsertTag", err)
		return err
	}
	return nil
}

func (r *TagRepository) ListTagsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN meeting_tags mt ON mt.tag_id = t.id
		WHERE mt.meeting_id = $1
		ORDER BY t.name ASC
	`

	var tags []entity.Tag
	err := r.db.SelectContext(ctx, &tags, query, meetingID)
	if err != nil {
		logger.Error("TagRepository:ListTagsByMeetingID", err)
		return nil, err
	}
	return tags, nil
}

func (r *TagRepository) ListAssociationsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.MeetingTag, error) {
	query := `
		SELECT id, meeting_id, tag_id, created_at
		FROM meeting_tags
		WHERE meeting_id = $1
		ORDER BY created_at ASC
	`

	var associations []entity.MeetingTag
	err := r.db.SelectContext(ctx, &associations, query, meetingID)
	if err != nil {
		logger.Error("TagRepository:ListAssociationsByMeetingID", err)
		return nil, err
	}
	return associations, nil
}

func (r *TagRepository) BulkInsertAssociations(ctx context.Context, associations []entity.MeetingTag) error {
	if len(associations) == 0 {
		return nil
	}

	query := `
		INSERT INTO meeting_tags (id, meeting_id, tag_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (meeting_id, tag_id) DO NOTHING
	`

	for i := range associations {
		if associations[i].ID == uuid.Nil {
			associations[i].ID = uuid.New()
		}
		err := r.db.ExecContext(ctx, query,
			associations[i].ID, associations[i].MeetingID, associations[i].TagID)
		if err != nil {
			logger.Error("TagRepository:BulkInsertAssociations", err)
			return err
		}
	}
	return nil
}

func (r *TagRepository) DeleteAssociationsByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) error {
	if len(meetingIDs) == 0 {
		return nil
	}

	query := `DELETE FROM meeting_tags WHERE meeting_id = ANY($1)`
	err := r.db.ExecContext(ctx, query, pq.Array(meetingIDs))
	if err != nil {
		logger.Error("TagRepository:DeleteAssociationsByMeetingIDs", err)
		return err
	}
	return nil
}
