package service

import (
	"context"

	"workspace-api/core/errors"
	"workspace-api/modules/contact/dto"
	"workspace-api/modules/contact/entity"
	"workspace-api/modules/contact/repository"

	"github.com/google/uuid"
)

type ContactServiceInterface interface {
	CreateContact(ctx context.Context, userID uuid.UUID, req *dto.CreateContactRequest) (*dto.ContactResponse, *errors.AppError)
	GetContactByID(ctx context.Context, userID, id uuid.UUID) (*dto.ContactResponse, *errors.AppError)
	GetMyContacts(ctx context.Context, userID uuid.UUID) ([]dto.ContactResponse, *errors.AppError)
	UpdateContact(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, *errors.AppError)
	DeleteContact(ctx context.Context, userID, id uuid.UUID) *errors.AppError
}

type ContactService struct {
	repo repository.ContactRepositoryInterface
}

func NewContactService(repo repository.ContactRepositoryInterface) ContactServiceInterface {
	return &ContactService{repo: repo}
}

func (s *ContactService) CreateContact(ctx context.Context, userID uuid.UUID, req *dto.CreateContactRequest) (*dto.ContactResponse, *errors.AppError) {
	contact := &entity.Contact{
		UserID: userID,
		Name:   req.Name,
	}
	if req.Email != "" {
		contact.Email = &req.Email
	}
	if req.Company != "" {
		contact.Company = &req.Company
	}

	if err := s.repo.Insert(ctx, contact); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to create contact", err)
	}
	return dto.ToContactResponse(contact), nil
}

func (s *ContactService) GetContactByID(ctx context.Context, userID, id uuid.UUID) (*dto.ContactResponse, *errors.AppError) {
	contact, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load contact", err)
	}
	if contact == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "contact not found", nil)
	}
	return dto.ToContactResponse(contact), nil
}

func (s *ContactService) GetMyContacts(ctx context.Context, userID uuid.UUID) ([]dto.ContactResponse, *errors.AppError) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load contacts", err)
	}

	result := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		result = append(result, *dto.ToContactResponse(&contacts[i]))
	}
	return result, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, *errors.AppError) {
	contact, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load contact", err)
	}
	if contact == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "contact not found", nil)
	}

	if req.Name != "" {
		contact.Name = req.Name
	}
	if req.Email != "" {
		contact.Email = &req.Email
	}
	if req.Company != "" {
		contact.Company = &req.Company
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to update contact", err)
	}
	return dto.ToContactResponse(contact), nil
}

func (s *ContactService) DeleteContact(ctx context.Context, userID, id uuid.UUID) *errors.AppError {
	contact, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrStorage, "failed to load contact", err)
	}
	if contact == nil {
		return errors.NewAppError(errors.ErrNotFound, "contact not found", nil)
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return errors.NewAppError(errors.ErrStorage, "failed to delete contact", err)
	}
	return nil
}
