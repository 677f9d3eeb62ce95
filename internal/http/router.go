package http

import (
	"net/http"

	"spectres-crm/internal/handlers"
	"spectres-crm/internal/middleware"
	"spectres-crm/internal/permissions"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	callHandler *handlers.CallHandler,
	lifecycleHandler *handlers.LifecycleHandler,
	auditLogHandler *handlers.AuditLogHandler,
	reportHandler *handlers.ReportHandler,
	notificationHandler *handlers.NotificationHandler,
	appStateHandler *handlers.AppStateHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health and metrics (no auth, for load balancers and prometheus)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Detailed health exposes host figures, so it needs a login
	detailed := r.PathPrefix("/health/detailed").Subrouter()
	detailed.Use(authMiddleware.Authenticate)
	detailed.HandleFunc("", healthHandler.DetailedHealth).Methods("GET")

	// Scheduled job trigger - cron secret or an automation-capable user
	cron := r.PathPrefix("/api/cron").Subrouter()
	cron.Use(authMiddleware.CronOrPermission(permissions.RunAutomation))
	cron.HandleFunc("/status-lifecycle", lifecycleHandler.RunStatusLifecycle).Methods("GET", "POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/me/state", appStateHandler.GetState).Methods("GET")
	api.HandleFunc("/me/state", appStateHandler.UpdatePreferences).Methods("PUT")
	api.HandleFunc("/auth/logout", appStateHandler.Logout).Methods("POST")

	// Clients - per-record permissions are checked in the service
	api.HandleFunc("/clients", clientHandler.ListClients).Methods("GET")
	api.HandleFunc("/clients", clientHandler.CreateClient).Methods("POST")
	api.HandleFunc("/clients/{id}", clientHandler.GetClient).Methods("GET")
	api.HandleFunc("/clients/{id}", clientHandler.UpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{id}", clientHandler.DeleteClient).Methods("DELETE")
	api.HandleFunc("/clients/{id}/status", clientHandler.ChangeStatus).Methods("PUT")
	api.HandleFunc("/clients/{id}/owner", clientHandler.AssignOwner).Methods("PUT")
	api.HandleFunc("/clients/{id}/phone-click", clientHandler.PhoneClick).Methods("POST")
	api.HandleFunc("/clients/{id}/calls", callHandler.ListCalls).Methods("GET")
	api.HandleFunc("/clients/{id}/calls", callHandler.RecordCall).Methods("POST")

	// Notifications
	api.HandleFunc("/notifications", notificationHandler.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/ws", notificationHandler.Stream).Methods("GET")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notificationHandler.MarkRead).Methods("PUT")

	// Reports
	api.HandleFunc("/reports/summary", reportHandler.Summary).Methods("GET")
	api.HandleFunc("/reports/clients.pdf", reportHandler.SummaryPDF).Methods("GET")

	// Users - manage_users checked in the service
	api.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users", userHandler.CreateUser).Methods("POST")

	// Audit log
	audit := api.PathPrefix("/audit-logs").Subrouter()
	audit.Use(authMiddleware.RequirePermission(permissions.ViewAuditLog))
	audit.HandleFunc("", auditLogHandler.ListAuditLogs).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	return r
}
