package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"go-backoffice/internal/handler"
	"go-backoffice/internal/metrics"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/service"
	"go-backoffice/internal/ws"
	"go-backoffice/pkg/config"
	"go-backoffice/pkg/database"
	"go-backoffice/pkg/jwt"
	applog "go-backoffice/pkg/logger"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		applog.New("info").Error("load config", "error", err)
		os.Exit(1)
	}
	log := applog.New(cfg.LogLevel).With("app", cfg.AppName)
	if err := config.ValidateForProduction(cfg); err != nil {
		log.Error("invalid production config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}

func run(cfg *config.Config, log applog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup database
	db, err := database.Connect(cfg.DSN(), cfg.LogLevel == "debug")
	if err != nil {
		return err
	}
	if err := model.AutoMigrate(db); err != nil {
		return err
	}

	// 3. Seed default privileges, roles and the admin user
	if err := seed(ctx, db, cfg, log); err != nil {
		return err
	}

	// 4. WebSocket hub
	hub := ws.NewHub(log.With("component", "ws"))
	go hub.Run(ctx)

	// 5. Wiring
	productRepo := repository.NewProductRepo(db)
	clientRepo := repository.NewClientRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	m := metrics.New()
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	invoices := service.NewInvoiceService(invoiceRepo, productRepo, clientRepo, movementRepo, db, hub, log)
	drafts := service.NewDraftService(invoices, productRepo, clientRepo, m, log)
	deps := handler.Deps{
		Auth:       service.NewAuthService(userRepo, tokens, hub, cfg.SessionIdleTimeout, log),
		Users:      service.NewUserService(userRepo, privilegeRepo, roleRepo, log),
		Catalog:    service.NewCatalogService(productRepo, clientRepo, db, hub, log),
		Invoices:   invoices,
		Drafts:     drafts,
		Search:     service.NewSearchService(roleRepo, productRepo, clientRepo, userRepo, invoiceRepo, m),
		Dashboard:  service.NewDashboardService(movementRepo),
		Roles:      roleRepo,
		Privileges: privilegeRepo,
		Hub:        hub,
		Metrics:    m,
	}

	// 6. Fiber
	app := handler.NewApp(cfg.AppName, cfg.CORSAllowedOrigins, log)
	app.Use(logger.New())
	handler.Register(app, deps)

	go pruneDrafts(ctx, drafts, cfg.DraftIdleTimeout, log)

	// 7. Serve until a signal arrives
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return errors.Join(errors.New("server forced to shutdown"), err)
	}
	return nil
}

// pruneDrafts drops abandoned drafts so the session map does not grow forever.
func pruneDrafts(ctx context.Context, drafts service.DraftService, maxIdle time.Duration, log applog.Logger) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := drafts.Prune(maxIdle); n > 0 {
				log.Info("pruned idle drafts", "count", n)
			}
		}
	}
}

// seed creates default privileges, roles and an administrator if they don't exist.
func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, log applog.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}

	all, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	// ADMINISTRATOR gets every privilege
	adminRole, err := roleRepo.FindByCode(ctx, model.RoleAdministrator)
	if err != nil {
		return err
	}
	if len(adminRole.Privileges) == 0 {
		if err := roleRepo.AssignPrivileges(ctx, adminRole, all); err != nil {
			return err
		}
		log.Info("administrator role assigned all privileges")
	}

	// EMPLOYEE invoices and looks things up
	employeeRole, err := roleRepo.FindByCode(ctx, model.RoleEmployee)
	if err != nil {
		return err
	}
	if len(employeeRole.Privileges) == 0 {
		granted, err := privilegeRepo.FindByCodes(ctx, model.EmployeePrivileges)
		if err != nil {
			return err
		}
		if err := roleRepo.AssignPrivileges(ctx, employeeRole, granted); err != nil {
			return err
		}
		log.Info("employee role assigned default privileges")
	}

	if _, err := userRepo.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := &model.User{
		UserName:       cfg.AdminUserName,
		Email:          cfg.AdminEmail,
		EmailConfirmed: true,
		RoleID:         &adminRole.ID,
		Privileges:     all,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Info("admin user created", "email", admin.Email, "user_name", admin.UserName)
	return nil
}
