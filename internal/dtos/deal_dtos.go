package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
)

/*
CreateDealRequest carries no validator tags on purpose: the service
guard checks references and fields in a fixed order (property, client,
agent, amount, date, status) so error messages stay deterministic.
*/
type CreateDealRequest struct {
	PropertyID uuid.UUID  `json:"property_id"`
	ClientID   uuid.UUID  `json:"client_id"`
	AgentID    *uuid.UUID `json:"agent_id,omitempty"`
	DealAmount float64    `json:"deal_amount"`
	DealDate   time.Time  `json:"deal_date"`
	Status     string     `json:"status"`
}

// UpdateDealRequest: nil means "leave unchanged". The legacy client
// used 0 / -1 sentinels for this; pointers replace that convention.
type UpdateDealRequest struct {
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	AgentID    *uuid.UUID `json:"agent_id,omitempty"`
	DealAmount *float64   `json:"deal_amount,omitempty"`
	DealDate   *time.Time `json:"deal_date,omitempty"`
	Status     *string    `json:"status,omitempty"`
}

type DealDTO struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	ClientID   uuid.UUID `json:"client_id"`
	AgentID    uuid.UUID `json:"agent_id"`
	DealAmount float64   `json:"deal_amount"`
	DealDate   string    `json:"deal_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	RowVersion int64     `json:"row_version"`
}

func NewDealDTO(d *models.Deal) *DealDTO {
	return &DealDTO{
		ID:         d.ID,
		PropertyID: d.PropertyID,
		ClientID:   d.ClientID,
		AgentID:    d.AgentID,
		DealAmount: d.DealAmount,
		DealDate:   d.DealDate.Format("2006-01-02"),
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
		RowVersion: d.RowVersion,
	}
}

type ListDealsResponse struct {
	Deals []*DealDTO `json:"deals"`
}
