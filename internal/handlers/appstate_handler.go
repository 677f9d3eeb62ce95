package handlers

import (
	"net/http"

	"spectres-crm/internal/appstate"
	"spectres-crm/pkg/utils"
)

type AppStateHandler struct {
	Manager *appstate.Manager
}

func NewAppStateHandler(m *appstate.Manager) *AppStateHandler {
	return &AppStateHandler{Manager: m}
}

// GetState returns the session identity and saved preferences
func (h *AppStateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, h.Manager.Load(r.Context(), user))
}

// UpdatePreferences replaces the saved preferences
func (h *AppStateHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var prefs appstate.Preferences
	if !decode(w, r, &prefs) {
		return
	}

	state, err := h.Manager.UpdatePreferences(r.Context(), user, prefs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, state)
}

// Logout forgets the persisted state of the current user. Tokens are
// stateless and simply expire; the client drops its copy.
func (h *AppStateHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Manager.Clear(r.Context(), user.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
