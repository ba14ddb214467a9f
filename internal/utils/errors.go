package utils

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors shared between the repositories and the service layer.
var (
	ErrPropertyUnavailable = errors.New("property_unavailable")
	ErrRowVersionConflict  = errors.New("row_version_conflict")
	ErrNoRowsUpdated       = errors.New("no_rows_updated")
)

// Business-rule conflict codes carried by BusinessError.
const (
	BusinessCodePropertyUnavailable = "property_unavailable"
	BusinessCodeClientHasDeals      = "client_has_deals"
	BusinessCodePropertyHasDeals    = "property_has_deals"
)

// Entity names used in NotFoundError.
const (
	EntityProperty = "property"
	EntityClient   = "client"
	EntityAgent    = "agent"
	EntityDeal     = "deal"
	EntityUser     = "user"
)

/*
The four error kinds the service layer produces. Controllers switch on
them with errors.As and map to 404 / 403 / 400 / 400 respectively.
Nothing here is retryable or fatal - every failure is one rejected
operation.
*/

type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s_not_found: %s", e.Entity, e.ID)
}

func NewNotFound(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return "forbidden: " + e.Reason
}

func NewForbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type BusinessError struct {
	Code string
}

func (e *BusinessError) Error() string {
	return e.Code
}

func NewBusiness(code string) error {
	return &BusinessError{Code: code}
}
