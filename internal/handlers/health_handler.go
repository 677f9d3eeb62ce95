package handlers

import (
	"net/http"

	"spectres-crm/internal/health"
	"spectres-crm/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth reports liveness; it never touches the database
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth fails while Postgres is unreachable so the pod is taken out of rotation
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic()
	utils.JSON(w, statusCode(status.Status), status)
}

// DetailedHealth adds cache and host figures. A degraded cache still answers 200.
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckDetailed(r.Context())
	utils.JSON(w, statusCode(status.Status), status)
}

func statusCode(status string) int {
	if status == "unhealthy" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
