package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeValidation     = "validation_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeTokenExpired   = "token_expired"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_server_error"
)

// ErrorResponse carries a machine-readable code plus an optional
// `Details` field (e.g. the offending entity or field).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and message. The optional `details` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	details any,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
	}
	if details != nil {
		errBody.Details = details
	}
	_ = json.NewEncoder(w).Encode(errBody)

	if len(devErrs) > 0 && devErrs[0] != nil {
		Logger.WithFields(logrus.Fields{
			"status": status,
			"error":  devErrs[0].Error(),
		}).Error(publicMessage)
	} else {
		Logger.WithFields(logrus.Fields{
			"status": status,
		}).Error(publicMessage)
	}
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondDomainError centralizes mapping of service-layer error kinds
// to HTTP statuses: NotFound 404, Forbidden 403, Validation and
// Business conflicts 400, anything else 500.
func RespondDomainError(w http.ResponseWriter, err error) {
	var (
		nf *NotFoundError
		fb *ForbiddenError
		ve *ValidationError
		be *BusinessError
	)
	switch {
	case errors.As(err, &nf):
		RespondErrorWithCode(
			w, http.StatusNotFound, ErrCodeNotFound, nf.Entity+" not found",
			map[string]string{"entity": nf.Entity, "id": nf.ID.String()},
		)
	case errors.As(err, &fb):
		RespondErrorWithCode(
			w, http.StatusForbidden, ErrCodeForbidden, "Operation not permitted", nil, err,
		)
	case errors.As(err, &ve):
		RespondErrorWithCode(
			w, http.StatusBadRequest, ErrCodeValidation, ve.Message,
			map[string]string{"field": ve.Field},
		)
	case errors.As(err, &be):
		RespondErrorWithCode(
			w, http.StatusBadRequest, be.Code, "Business rule violated", nil, err,
		)
	default:
		RespondErrorWithCode(
			w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err,
		)
	}
}
