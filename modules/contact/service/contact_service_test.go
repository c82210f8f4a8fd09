package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"workspace-api/core/errors"
	"workspace-api/modules/contact/dto"
	"workspace-api/modules/contact/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactRepo struct {
	contacts map[uuid.UUID]*entity.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[uuid.UUID]*entity.Contact)}
}

func (r *fakeContactRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Contact, error) {
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Contact, error) {
	var out []entity.Contact
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeContactRepo) Insert(ctx context.Context, contact *entity.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	cp := *contact
	r.contacts[cp.ID] = &cp
	return nil
}

func (r *fakeContactRepo) Update(ctx context.Context, contact *entity.Contact) error {
	cp := *contact
	r.contacts[cp.ID] = &cp
	return nil
}

func (r *fakeContactRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if c, ok := r.contacts[id]; ok && c.UserID == userID {
		delete(r.contacts, id)
	}
	return nil
}

func TestCreateAndGetContact(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	userID := uuid.New()

	created, appErr := svc.CreateContact(context.Background(), userID, &dto.CreateContactRequest{
		Name:    "Dana",
		Email:   "dana@example.com",
		Company: "Acme",
	})
	require.Nil(t, appErr)
	assert.Equal(t, "Dana", created.Name)
	assert.Equal(t, "dana@example.com", created.Email)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	loaded, appErr := svc.GetContactByID(context.Background(), userID, id)
	require.Nil(t, appErr)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, "Acme", loaded.Company)
}

func TestGetContactScopedToOwner(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	created, appErr := svc.CreateContact(context.Background(), uuid.New(), &dto.CreateContactRequest{Name: "Dana"})
	require.Nil(t, appErr)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	_, appErr = svc.GetContactByID(context.Background(), uuid.New(), id)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestUpdateContactKeepsUnsetFields(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	userID := uuid.New()

	created, appErr := svc.CreateContact(context.Background(), userID, &dto.CreateContactRequest{
		Name:  "Dana",
		Email: "dana@example.com",
	})
	require.Nil(t, appErr)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	updated, appErr := svc.UpdateContact(context.Background(), userID, id, &dto.UpdateContactRequest{
		Company: "Acme",
	})
	require.Nil(t, appErr)

	assert.Equal(t, "Dana", updated.Name)
	assert.Equal(t, "dana@example.com", updated.Email)
	assert.Equal(t, "Acme", updated.Company)
}

func TestDeleteContact(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	userID := uuid.New()

	created, appErr := svc.CreateContact(context.Background(), userID, &dto.CreateContactRequest{Name: "Dana"})
	require.Nil(t, appErr)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	require.Nil(t, svc.DeleteContact(context.Background(), userID, id))

	appErr = svc.DeleteContact(context.Background(), userID, id)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	contacts, appErr := svc.GetMyContacts(context.Background(), userID)
	require.Nil(t, appErr)
	assert.Empty(t, contacts)
}
