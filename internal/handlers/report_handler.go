package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"spectres-crm/internal/services"
	"spectres-crm/internal/timeutil"
	"spectres-crm/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// Summary supports ?days= (default 30, max 365)
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.Summary(r.Context(), actor, queryInt(r, "days", 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) SummaryPDF(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	pdf, err := h.Service.RenderSummaryPDF(r.Context(), actor, queryInt(r, "days", 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("raport_klientow_%s.pdf", timeutil.FormatWarsaw(timeutil.Now(), timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}
