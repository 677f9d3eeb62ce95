package handlers

import (
	"net/http"
	"strconv"

	"spectres-crm/internal/notify"
	"spectres-crm/internal/services"
	"spectres-crm/pkg/utils"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	Service *services.NotificationService
	Hub     *notify.Hub
}

func NewNotificationHandler(s *services.NotificationService, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{Service: s, Hub: hub}
}

// ListNotifications supports ?unread=true&limit=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	unread := r.URL.Query().Get("unread") == "true"
	items, err := h.Service.List(r.Context(), user.ID, unread, queryInt(r, "limit", 50))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := h.Service.MarkRead(r.Context(), id, user.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stream upgrades to a websocket that receives the user's new notifications
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.Hub.ServeWS(w, r, user.ID)
}
