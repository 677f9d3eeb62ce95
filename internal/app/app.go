// Package app wires repositories, services and the lifecycle runner from config.
// Both the HTTP server and crmctl start from here.
package app

import (
	"context"
	"fmt"
	"log"

	"spectres-crm/internal/archive"
	"spectres-crm/internal/auth"
	"spectres-crm/internal/cache"
	"spectres-crm/internal/config"
	"spectres-crm/internal/database"
	"spectres-crm/internal/db"
	"spectres-crm/internal/lifecycle"
	"spectres-crm/internal/notify"
	"spectres-crm/internal/repositories"
	"spectres-crm/internal/services"
	"spectres-crm/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Pool   *pgxpool.Pool
	Store  cache.Store
	Hub    *notify.Hub
	JWT    *auth.JWTManager

	UserRepo         *repositories.UserRepository
	ClientRepo       *repositories.ClientRepository
	CallRepo         *repositories.CallRepository
	AuditRepo        *repositories.AuditLogRepository
	NotificationRepo *repositories.NotificationRepository

	Users         *services.UserService
	Clients       *services.ClientService
	Calls         *services.CallService
	Reports       *services.ReportService
	Notifications *services.NotificationService

	Runner *lifecycle.Runner
}

// New connects to the database and builds every component. The caller owns
// the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	a := &App{
		Config: cfg,
		Pool:   pool,
		Store:  cache.Open(cfg),
		Hub:    notify.NewHub(),
		JWT:    auth.NewJWTManager(cfg),

		UserRepo:         repositories.NewUserRepository(pool),
		ClientRepo:       repositories.NewClientRepository(pool),
		CallRepo:         repositories.NewCallRepository(pool),
		AuditRepo:        repositories.NewAuditLogRepository(pool),
		NotificationRepo: repositories.NewNotificationRepository(pool),
	}
	a.Hub.Start()

	a.Users = services.NewUserService(a.UserRepo, a.JWT)
	a.Notifications = services.NewNotificationService(a.NotificationRepo, a.Hub)
	a.Clients = services.NewClientService(a.ClientRepo, a.AuditRepo, a.Store)
	a.Clients.SetNotifier(a.Notifications)
	a.Calls = services.NewCallService(a.CallRepo, a.Clients)
	a.Reports = services.NewReportService(a.ClientRepo, a.CallRepo, a.Store)

	job := lifecycle.NewJob(a.ClientRepo, a.AuditRepo, lifecycle.Thresholds{
		StatusAfter:     cfg.Lifecycle.StatusAfterDays,
		OwnerResetAfter: cfg.Lifecycle.OwnerResetDays,
	})
	job.SetNotifier(a.Notifications)
	a.Runner = lifecycle.NewRunner(job)
	a.Runner.SetArchiver(archive.FromConfig(ctx, cfg))
	a.Runner.OnComplete(a.dropStaleCaches)

	return a, nil
}

// dropStaleCaches clears views derived from client status and ownership
// after a lifecycle run has rewritten them.
func (a *App) dropStaleCaches(*lifecycle.RunResult) {
	ctx := context.Background()
	a.Clients.InvalidateLists(ctx)
	a.Reports.Invalidate(ctx)
}

// Migrate applies pending embedded migrations
func (a *App) Migrate(ctx context.Context) error {
	return database.NewMigratorWithFS(a.Pool, migrations.FS, ".").RunMigrations(ctx)
}

func (a *App) Close() {
	a.Hub.Stop()
	a.Pool.Close()
	log.Println("[App] Closed")
}
