package repository

import (
	"context"
	"database/sql"

	"workspace-api/core/database"
	"workspace-api/core/logger"
	"workspace-api/modules/contact/entity"

	"github.com/google/uuid"
)

type ContactRepositoryInterface interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Contact, error)
	Insert(ctx context.Context, contact *entity.Contact) error
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ContactRepository struct {
	db database.IDatabase
}

func NewContactRepository(db database.IDatabase) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
	query := `
		SELECT id, user_id, name, email, company, created_at, updated_at
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`

	var contact entity.Contact
	err := r.db.GetContext(ctx, &contact, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ContactRepository:GetByID", err)
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Contact, error) {
	query := `
		SELECT id, user_id, name, email, company, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY name ASC
	`

	var contacts []entity.Contact
	err := r.db.SelectContext(ctx, &contacts, query, userID)
	if err != nil {
		logger.Error("ContactRepository:ListByUser", err)
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) Insert(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, user_id, name, email, company)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}

	row := r.db.QueryRowContext(ctx, query,
		contact.ID, contact.UserID, contact.Name, contact.Email, contact.Company)
	if err := row.Scan(&contact.CreatedAt, &contact.UpdatedAt); err != nil {
		logger.Error("ContactRepository:Insert", err)
		return err
	}
	return nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, company = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := r.db.ExecContext(ctx, query, contact.ID, contact.Name, contact.Email, contact.Company)
	if err != nil {
		logger.Error("ContactRepository:Update", err)
		return err
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`
	err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		logger.Error("ContactRepository:Delete", err)
		return err
	}
	return nil
}
