package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/services"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

type DealsController struct {
	dealService *services.DealService
}

func NewDealsController(ds *services.DealService) *DealsController {
	return &DealsController{dealService: ds}
}

// ----------------------------------------------------------------
// POST /api/v1/deals
// ----------------------------------------------------------------
func (c *DealsController) CreateDealHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	var req dtos.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}

	dto, err := c.dealService.Create(r.Context(), actor, req)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto)
}

// ----------------------------------------------------------------
// GET /api/v1/deals
// ----------------------------------------------------------------
func (c *DealsController) ListDealsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	resp, err := c.dealService.List(r.Context(), actor)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/deals/{id}
// ----------------------------------------------------------------
func (c *DealsController) GetDealHandler(w http.ResponseWriter, r *http.Request) {
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
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed deal id", nil, err,
		)
		return
	}

	dto, err := c.dealService.Get(r.Context(), actor, id)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// PATCH /api/v1/deals/{id}
// ----------------------------------------------------------------
func (c *DealsController) UpdateDealHandler(w http.ResponseWriter, r *http.Request) {
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
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed deal id", nil, err,
		)
		return
	}

	var req dtos.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}

	dto, err := c.dealService.Update(r.Context(), actor, id, req)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// DELETE /api/v1/deals/{id}
// ----------------------------------------------------------------
func (c *DealsController) DeleteDealHandler(w http.ResponseWriter, r *http.Request) {
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
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed deal id", nil, err,
		)
		return
	}

	if err := c.dealService.Delete(r.Context(), actor, id); err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
