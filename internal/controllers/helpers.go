package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/middleware"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/services"
)

var validate = validator.New()

// actorFromRequest rebuilds the caller from the context values the
// auth middleware stored. false means the route was wired without the
// middleware - treat as unauthorized.
func actorFromRequest(r *http.Request) (services.Actor, bool) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := r.Context().Value(middleware.ContextKeyUserRole).(models.Role)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: role}, true
}

func idFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
