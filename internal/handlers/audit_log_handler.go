package handlers

import (
	"context"
	"log"
	"net/http"

	"spectres-crm/internal/models"
	"spectres-crm/pkg/utils"
)

type AuditLogLister interface {
	List(ctx context.Context, f models.AuditLogFilter) ([]*models.AuditLog, error)
}

type AuditLogHandler struct {
	Repo AuditLogLister
}

func NewAuditLogHandler(repo AuditLogLister) *AuditLogHandler {
	return &AuditLogHandler{Repo: repo}
}

// ListAuditLogs supports ?action=&record_id=&source=&limit=
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := h.Repo.List(r.Context(), models.AuditLogFilter{
		Action:   q.Get("action"),
		RecordID: q.Get("record_id"),
		Source:   q.Get("source"),
		Limit:    queryInt(r, "limit", 100),
	})
	if err != nil {
		log.Printf("[AuditLog] List failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to retrieve audit logs")
		return
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}
	utils.JSON(w, http.StatusOK, logs)
}
