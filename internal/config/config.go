package config

import (
	"crypto/rsa"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

const AppName = "deals-service"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string
	DBUrl   string

	JWTPublicKey *rsa.PublicKey

	SeedDev bool
}

// LoadConfig reads everything from the environment and fails hard on
// anything missing - a half-configured instance must not start.
func LoadConfig() *Config {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}

	pubPEM := os.Getenv("JWT_PUBLIC_KEY")
	if pubPEM == "" {
		utils.Logger.Fatal("JWT_PUBLIC_KEY env var is missing")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pubPEM))
	if err != nil {
		utils.Logger.WithError(err).Fatal("JWT_PUBLIC_KEY is not a valid RSA public key PEM")
	}

	seedDev := os.Getenv("SEED_DEV") == "true"

	utils.Logger.Infof("Loaded config for %s", AppName)

	return &Config{
		AppName:      AppName,
		AppPort:      appPort,
		AppUrl:       appURL,
		DBUrl:        dbURL,
		JWTPublicKey: pubKey,
		SeedDev:      seedDev,
	}
}
