package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
)

// Type is free text here ("House", "дом", ...); the service normalizes
// it through models.ParsePropertyType.
type CreatePropertyRequest struct {
	Address string  `json:"address" validate:"required"`
	Price   float64 `json:"price" validate:"required,gt=0"`
	Area    float64 `json:"area" validate:"required,gt=0"`
	Type    string  `json:"type" validate:"required"`
	Rooms   int     `json:"rooms" validate:"gte=0,lte=100"`
}

type UpdatePropertyRequest struct {
	Address *string  `json:"address,omitempty" validate:"omitempty,min=1"`
	Price   *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Area    *float64 `json:"area,omitempty" validate:"omitempty,gt=0"`
	Type    *string  `json:"type,omitempty"`
	Rooms   *int     `json:"rooms,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type PropertyDTO struct {
	ID              uuid.UUID  `json:"id"`
	Address         string     `json:"address"`
	Price           float64    `json:"price"`
	Area            float64    `json:"area"`
	Type            string     `json:"type"`
	Rooms           int        `json:"rooms"`
	IsAvailable     bool       `json:"is_available"`
	CreatedByUserID *uuid.UUID `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RowVersion      int64      `json:"row_version"`
}

func NewPropertyDTO(p *models.Property) *PropertyDTO {
	return &PropertyDTO{
		ID:              p.ID,
		Address:         p.Address,
		Price:           p.Price,
		Area:            p.Area,
		Type:            string(p.Type),
		Rooms:           p.Rooms,
		IsAvailable:     p.IsAvailable,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
		RowVersion:      p.RowVersion,
	}
}

type ListPropertiesResponse struct {
	Properties []*PropertyDTO `json:"properties"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
