package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"foodbridge-api-server/config"
	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/store"

	"github.com/google/uuid"
)

// SeedAdmin creates the platform admin account if it does not exist yet.
// Safe to run on every startup.
func SeedAdmin(users store.UserStore, cfg config.AdminConfig, logger *slog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Info("admin seed credentials not configured, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := users.GetByEmail(ctx, cfg.Email)
	if err == nil {
		logger.Info("admin already exists, seeding skipped")
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:              fmt.Sprintf("user-%s", uuid.New().String()[:8]),
		Email:           cfg.Email,
		Password:        hashedPassword,
		Name:            "Platform Admin",
		Role:            models.RoleAdmin,
		ProfileComplete: true,
		CreatedAt:       time.Now().UnixMilli(),
		Admin:           &models.AdminProfile{Permissions: []string{"all"}},
	}

	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("admin seeded", "email", cfg.Email)
	return nil
}
