package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/services"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

type PropertiesController struct {
	propertyService *services.PropertyService
}

func NewPropertiesController(ps *services.PropertyService) *PropertiesController {
	return &PropertiesController{propertyService: ps}
}

// ----------------------------------------------------------------
// POST /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertiesController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	var req dtos.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Property fields missing / malformed", nil, err,
		)
		return
	}

	dto, err := c.propertyService.Create(r.Context(), actor, req)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto)
}

// ----------------------------------------------------------------
// GET /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertiesController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	resp, err := c.propertyService.List(r.Context(), actor)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertiesController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	id, err := idFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed property id", nil, err,
		)
		return
	}

	dto, err := c.propertyService.Get(r.Context(), actor, id)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// PATCH /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertiesController) UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	id, err := idFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed property id", nil, err,
		)
		return
	}

	var req dtos.UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Property fields malformed", nil, err,
		)
		return
	}

	dto, err := c.propertyService.Update(r.Context(), actor, id, req)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// DELETE /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertiesController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	id, err := idFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed property id", nil, err,
		)
		return
	}

	if err := c.propertyService.Delete(r.Context(), actor, id); err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
