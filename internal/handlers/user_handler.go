package handlers

import (
	"net/http"

	"spectres-crm/internal/models"
	"spectres-crm/internal/services"
	"spectres-crm/pkg/utils"
)

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// ListUsers returns all users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.Service.ListUsers(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.Service.CreateUser(r.Context(), actor, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}
