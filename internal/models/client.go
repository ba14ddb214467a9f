package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is owned by exactly one agent via AgentID. AgentID may stay
// nil only when an admin created the client without assigning one.
type Client struct {
	Versioned

	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Requirements string     `json:"requirements,omitempty"`
	Budget       *float64   `json:"budget,omitempty"`
	AgentID      *uuid.UUID `json:"agent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) GetID() string {
	return c.ID.String()
}
