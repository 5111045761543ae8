// Command reset-password restores the seeded administrator's password to
// ADMIN_PASSWORD, unlocks the account and ends its current session.
package main

import (
	"context"
	"os"

	"golang.org/x/crypto/bcrypt"

	"go-backoffice/internal/repository"
	"go-backoffice/pkg/config"
	"go-backoffice/pkg/database"
	applog "go-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		applog.New("info").Error("load config", "error", err)
		os.Exit(1)
	}
	log := applog.New(cfg.LogLevel)

	if err := run(context.Background(), cfg); err != nil {
		log.Error("reset password failed", "email", cfg.AdminEmail, "error", err)
		os.Exit(1)
	}
	log.Info("password reset", "email", cfg.AdminEmail)
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Connect(cfg.DSN(), false)
	if err != nil {
		return err
	}
	users := repository.NewUserRepo(db)

	user, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}
	if err := users.SetLocked(ctx, user.ID, false); err != nil {
		return err
	}
	// an empty version invalidates any token issued before the reset
	return users.UpdateTokenVersion(ctx, user.ID, "")
}
