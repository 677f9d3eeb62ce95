package handlers

import (
	"net/http"

	"spectres-crm/internal/models"
	"spectres-crm/internal/services"
	"spectres-crm/pkg/utils"
)

type CallHandler struct {
	Service *services.CallService
}

func NewCallHandler(s *services.CallService) *CallHandler {
	return &CallHandler{Service: s}
}

func (h *CallHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	clientID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	calls, err := h.Service.ListCalls(r.Context(), actor, clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, calls)
}

func (h *CallHandler) RecordCall(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	clientID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateCallRequest
	if !decode(w, r, &req) {
		return
	}

	call, err := h.Service.RecordCall(r.Context(), actor, clientID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, call)
}
