package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

// Helper to check for unique violation error (PostgreSQL specific code)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SeedDev inserts a fixed admin and a demo agent so a fresh dev
// database is usable immediately. Re-running against an already
// seeded database is a no-op.
func (a *App) SeedDev(ctx context.Context) error {
	seedUsers := []*models.User{
		{
			ID:       uuid.MustParse("5f0c1a62-0000-4000-8000-000000000001"),
			Username: "admin",
			Email:    "admin@agency.local",
			Role:     models.RoleAdmin,
		},
		{
			ID:       uuid.MustParse("5f0c1a62-0000-4000-8000-000000000002"),
			Username: "demo-agent",
			Email:    "agent@agency.local",
			Role:     models.RoleAgent,
		},
	}

	for _, u := range seedUsers {
		if err := a.UserRepo.Create(ctx, u); err != nil {
			if isUniqueViolation(err) {
				utils.Logger.Debugf("seed user %q already exists, skipping", u.Username)
				continue
			}
			return err
		}
		utils.Logger.Infof("seeded user %q (%s)", u.Username, u.Role)
	}
	return nil
}
