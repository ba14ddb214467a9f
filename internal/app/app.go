package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/config"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/repositories"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/services"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond

	propertyCacheTTL = 60 * time.Second
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool

	UserRepo     repositories.UserRepository
	PropertyRepo repositories.PropertyRepository
	ClientRepo   repositories.ClientRepository
	DealRepo     repositories.DealRepository

	Policy          *services.AccessPolicy
	PropertyCache   *services.PropertyCache
	DealService     *services.DealService
	ClientService   *services.ClientService
	PropertyService *services.PropertyService
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		if err == nil {
			utils.Logger.Infof("deals-service connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	userRepo := repositories.NewUserRepository(dbPool)
	propertyRepo := repositories.NewPropertyRepository(dbPool)
	clientRepo := repositories.NewClientRepository(dbPool)
	dealRepo := repositories.NewDealRepository(dbPool)

	policy := services.NewAccessPolicy()
	cache := services.NewPropertyCache(propertyCacheTTL)

	return &App{
		Config: cfg,
		DB:     dbPool,

		UserRepo:     userRepo,
		PropertyRepo: propertyRepo,
		ClientRepo:   clientRepo,
		DealRepo:     dealRepo,

		Policy:          policy,
		PropertyCache:   cache,
		DealService:     services.NewDealService(policy, dealRepo, propertyRepo, clientRepo, userRepo, cache),
		ClientService:   services.NewClientService(policy, clientRepo, dealRepo, userRepo),
		PropertyService: services.NewPropertyService(policy, propertyRepo, dealRepo, cache),
	}, nil
}

func (a *App) Close() {
	if a.PropertyCache != nil {
		a.PropertyCache.Stop()
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("deals-service DB connection closed.")
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
