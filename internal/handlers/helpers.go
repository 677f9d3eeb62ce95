package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"spectres-crm/internal/appstate"
	"spectres-crm/internal/middleware"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"
	"spectres-crm/internal/services"
	"spectres-crm/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// currentUser returns the authenticated user and the matching service actor
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, services.Actor, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return nil, services.Actor{}, false
	}
	return user, services.Actor{ID: user.ID, Role: permissions.Normalize(user.Role)}, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// respondServiceError maps service sentinels to status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(w, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, appstate.ErrInvalidPreferences):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserExists):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
