package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
)

// ParsePropertyType accepts both English and Russian listing labels
// (the agency catalog was bilingual) and normalizes to one enum.
func ParsePropertyType(s string) (PropertyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "apartment", "квартира":
		return PropertyTypeApartment, nil
	case "house", "дом":
		return PropertyTypeHouse, nil
	case "commercial", "коммерческая", "коммерческая недвижимость":
		return PropertyTypeCommercial, nil
	}
	return "", fmt.Errorf("unknown property type %q", s)
}

// Property's IsAvailable flag is owned by the deal write path: it is
// true exactly when no COMPLETED deal references the property, and is
// recomputed inside the same transaction as every deal mutation.
type Property struct {
	Versioned

	ID              uuid.UUID    `json:"id"`
	Address         string       `json:"address"`
	Price           float64      `json:"price"`
	Area            float64      `json:"area"`
	Type            PropertyType `json:"type"`
	Rooms           int          `json:"rooms"`
	IsAvailable     bool         `json:"is_available"`
	CreatedByUserID *uuid.UUID   `json:"created_by_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) GetID() string {
	return p.ID.String()
}
