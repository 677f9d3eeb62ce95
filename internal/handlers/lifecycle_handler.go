package handlers

import (
	"context"
	"net/http"

	"spectres-crm/internal/lifecycle"
	"spectres-crm/internal/middleware"
	"spectres-crm/pkg/utils"
)

type LifecycleHandler struct {
	Runner *lifecycle.Runner
}

func NewLifecycleHandler(runner *lifecycle.Runner) *LifecycleHandler {
	return &LifecycleHandler{Runner: runner}
}

// RunStatusLifecycle runs one pass of the status lifecycle job and returns
// {processed, statusChanged, ownersReset, errors}. A dropped connection does
// not cancel a run that already started. Runs started by the external
// scheduler are recorded as cron, manual admin triggers as http.
func (h *LifecycleHandler) RunStatusLifecycle(w http.ResponseWriter, r *http.Request) {
	trigger := lifecycle.TriggerHTTP
	if middleware.IsCron(r.Context()) {
		trigger = lifecycle.TriggerCron
	}

	result, err := h.Runner.Run(context.WithoutCancel(r.Context()), trigger)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
