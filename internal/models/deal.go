package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DealStatus string

const (
	DealStatusPending   DealStatus = "PENDING"
	DealStatusCompleted DealStatus = "COMPLETED"
	DealStatusCancelled DealStatus = "CANCELLED"
)

func ParseDealStatus(s string) (DealStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return DealStatusPending, nil
	case "COMPLETED":
		return DealStatusCompleted, nil
	case "CANCELLED", "CANCELED":
		return DealStatusCancelled, nil
	}
	return "", fmt.Errorf("unknown deal status %q", s)
}

// Deal links a property, a client and the owning agent. Any of the
// three statuses is reachable from any other; the only transition gate
// is the at-most-one-COMPLETED-deal-per-property rule enforced by the
// deal repository.
type Deal struct {
	Versioned

	ID         uuid.UUID  `json:"id"`
	PropertyID uuid.UUID  `json:"property_id"`
	ClientID   uuid.UUID  `json:"client_id"`
	AgentID    uuid.UUID  `json:"agent_id"`
	DealAmount float64    `json:"deal_amount"`
	DealDate   time.Time  `json:"deal_date"`
	Status     DealStatus `json:"status"`

	// Set once at creation, never updated.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Deal) GetID() string {
	return d.ID.String()
}
