package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/app"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/config"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/controllers"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/middleware"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/routes"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)

	// 1) Config
	cfg := config.LoadConfig()

	// 2) Core application (DB pool, repositories, services)
	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize app")
	}
	defer application.Close()

	if cfg.SeedDev {
		if err := application.SeedDev(context.Background()); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed dev data")
		}
	}

	// 3) Controllers
	healthCtrl := controllers.NewHealthController(application)
	dealsCtrl := controllers.NewDealsController(application.DealService)
	clientsCtrl := controllers.NewClientsController(application.ClientService)
	propsCtrl := controllers.NewPropertiesController(application.PropertyService)

	// 4) Router
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)

	api := router.PathPrefix(routes.APIPrefix).Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWTPublicKey))

	api.HandleFunc(routes.Deals, dealsCtrl.CreateDealHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.Deals, dealsCtrl.ListDealsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.DealsByID, dealsCtrl.GetDealHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.DealsByID, dealsCtrl.UpdateDealHandler).Methods(http.MethodPatch)
	api.HandleFunc(routes.DealsByID, dealsCtrl.DeleteDealHandler).Methods(http.MethodDelete)

	api.HandleFunc(routes.Clients, clientsCtrl.CreateClientHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.Clients, clientsCtrl.ListClientsHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.ClientsByID, clientsCtrl.GetClientHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.ClientsByID, clientsCtrl.UpdateClientHandler).Methods(http.MethodPatch)
	api.HandleFunc(routes.ClientsByID, clientsCtrl.DeleteClientHandler).Methods(http.MethodDelete)

	api.HandleFunc(routes.Properties, propsCtrl.CreatePropertyHandler).Methods(http.MethodPost)
	api.HandleFunc(routes.Properties, propsCtrl.ListPropertiesHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.PropertiesByID, propsCtrl.GetPropertyHandler).Methods(http.MethodGet)
	api.HandleFunc(routes.PropertiesByID, propsCtrl.UpdatePropertyHandler).Methods(http.MethodPatch)
	api.HandleFunc(routes.PropertiesByID, propsCtrl.DeletePropertyHandler).Methods(http.MethodDelete)

	// 5) CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on :%s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, c.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
