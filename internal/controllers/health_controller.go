package controllers

import (
	"net/http"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/app"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(a *app.App) *HealthController {
	return &HealthController{app: a}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// The DB pool is the only external dependency.
	if err := c.app.DB.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("deals-service unhealthy")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Service unhealthy",
			nil,
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
