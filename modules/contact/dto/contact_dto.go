package dto

import (
	"time"

	"workspace-api/modules/contact/entity"
)

type CreateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

type UpdateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToContactResponse(c *entity.Contact) *ContactResponse {
	resp := &ContactResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
	if c.Email != nil {
		resp.Email = *c.Email
	}
	if c.Company != nil {
		resp.Company = *c.Company
	}
	return resp
}
