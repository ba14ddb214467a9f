package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/services"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

type ClientsController struct {
	clientService *services.ClientService
}

func NewClientsController(cs *services.ClientService) *ClientsController {
	return &ClientsController{clientService: cs}
}

// ----------------------------------------------------------------
// POST /api/v1/clients
// ----------------------------------------------------------------
func (c *ClientsController) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	var req dtos.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Client fields missing / malformed", nil, err,
		)
		return
	}

	dto, err := c.clientService.Create(r.Context(), actor, req)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto)
}

// ----------------------------------------------------------------
// GET /api/v1/clients
// ----------------------------------------------------------------
func (c *ClientsController) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No actor in context", nil,
		)
		return
	}

	resp, err := c.clientService.List(r.Context(), actor)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/clients/{id}
// ----------------------------------------------------------------
func (c *ClientsController) GetClientHandler(w http.ResponseWriter, r *http.Request) {
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
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed client id", nil, err,
		)
		return
	}

	dto, err := c.clientService.Get(r.Context(), actor, id)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// PATCH /api/v1/clients/{id}
// ----------------------------------------------------------------
func (c *ClientsController) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
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
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed client id", nil, err,
		)
		return
	}

	var req dtos.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Client fields malformed", nil, err,
		)
		return
	}

	dto, err := c.clientService.Update(r.Context(), actor, id, req)
	if err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// DELETE /api/v1/clients/{id}
// ----------------------------------------------------------------
func (c *ClientsController) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
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
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed client id", nil, err,
		)
		return
	}

	if err := c.clientService.Delete(r.Context(), actor, id); err != nil {
		utils.RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
