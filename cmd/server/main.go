package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spectres-crm/internal/app"
	"spectres-crm/internal/appstate"
	"spectres-crm/internal/config"
	h "spectres-crm/internal/http"
	"spectres-crm/internal/handlers"
	"spectres-crm/internal/health"
	"spectres-crm/internal/lifecycle"
	"spectres-crm/internal/middleware"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}
	defer a.Close()

	if err := a.Migrate(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	if cfg.Lifecycle.Enabled {
		scheduler := lifecycle.NewScheduler(a.Runner, cfg.Lifecycle.Interval, cfg.Lifecycle.RunOnStart)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Println("[Lifecycle] Scheduler disabled, runs only via /api/cron/status-lifecycle")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(a.Users)
	userHandler := handlers.NewUserHandler(a.Users)
	clientHandler := handlers.NewClientHandler(a.Clients)
	callHandler := handlers.NewCallHandler(a.Calls)
	lifecycleHandler := handlers.NewLifecycleHandler(a.Runner)
	auditLogHandler := handlers.NewAuditLogHandler(a.AuditRepo)
	reportHandler := handlers.NewReportHandler(a.Reports)
	notificationHandler := handlers.NewNotificationHandler(a.Notifications, a.Hub)
	appStateHandler := handlers.NewAppStateHandler(appstate.NewManager(a.Store))
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(a.Pool, a.Store))

	authMiddleware := middleware.NewAuthMiddleware(a.JWT, a.UserRepo, cfg.Lifecycle.CronSecret)
	if cfg.Lifecycle.CronSecret == "" {
		log.Println("[Auth] CRON_SECRET not set, cron endpoint accepts admin tokens only")
	}

	router := h.NewRouter(authHandler, userHandler, clientHandler, callHandler, lifecycleHandler,
		auditLogHandler, reportHandler, notificationHandler, appStateHandler, healthHandler, authMiddleware)

	apiLogging := middleware.NewAPILoggingMiddleware(log.New(os.Stdout, "", 0))
	defer apiLogging.Close()

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(apiLogging.Handler(corsMiddleware(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
