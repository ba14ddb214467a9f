package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
)

type CreateClientRequest struct {
	FirstName    string     `json:"first_name" validate:"required"`
	LastName     string     `json:"last_name" validate:"required"`
	Phone        string     `json:"phone" validate:"required,e164"`
	Email        string     `json:"email" validate:"required,email"`
	Requirements string     `json:"requirements,omitempty"`
	Budget       *float64   `json:"budget,omitempty" validate:"omitempty,gte=0"`
	AgentID      *uuid.UUID `json:"agent_id,omitempty"`
}

type UpdateClientRequest struct {
	FirstName    *string    `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName     *string    `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Phone        *string    `json:"phone,omitempty" validate:"omitempty,e164"`
	Email        *string    `json:"email,omitempty" validate:"omitempty,email"`
	Requirements *string    `json:"requirements,omitempty"`
	Budget       *float64   `json:"budget,omitempty" validate:"omitempty,gte=0"`
	AgentID      *uuid.UUID `json:"agent_id,omitempty"`
}

type ClientDTO struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Requirements string     `json:"requirements,omitempty"`
	Budget       *float64   `json:"budget,omitempty"`
	AgentID      *uuid.UUID `json:"agent_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	RowVersion   int64      `json:"row_version"`
}

func NewClientDTO(c *models.Client) *ClientDTO {
	return &ClientDTO{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Email:        c.Email,
		Requirements: c.Requirements,
		Budget:       c.Budget,
		AgentID:      c.AgentID,
		CreatedAt:    c.CreatedAt,
		RowVersion:   c.RowVersion,
	}
}

type ListClientsResponse struct {
	Clients []*ClientDTO `json:"clients"`
}
