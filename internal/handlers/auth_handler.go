package handlers

import (
	"net/http"

	"spectres-crm/internal/models"
	"spectres-crm/internal/services"
	"spectres-crm/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
