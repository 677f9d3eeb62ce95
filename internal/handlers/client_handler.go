package handlers

import (
	"net/http"

	"spectres-crm/internal/models"
	"spectres-crm/internal/services"
	"spectres-crm/pkg/utils"

	"github.com/google/uuid"
)

type ClientHandler struct {
	Service *services.ClientService
}

func NewClientHandler(s *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: s}
}

// ListClients supports ?status=&owner_id=&search=&limit=&offset=
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.ClientFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if owner := q.Get("owner_id"); owner != "" {
		id, err := uuid.Parse(owner)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid owner_id")
			return
		}
		filter.OwnerID = &id
	}

	clients, err := h.Service.ListClients(r.Context(), actor, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	client, err := h.Service.GetClient(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateClientRequest
	if !decode(w, r, &req) {
		return
	}

	client, err := h.Service.CreateClient(r.Context(), actor, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateClientRequest
	if !decode(w, r, &req) {
		return
	}

	client, err := h.Service.UpdateClient(r.Context(), actor, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteClient(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req models.ChangeStatusRequest
	if !decode(w, r, &req) {
		return
	}

	client, err := h.Service.ChangeStatus(r.Context(), actor, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req models.AssignOwnerRequest
	if !decode(w, r, &req) {
		return
	}

	client, err := h.Service.AssignOwner(r.Context(), actor, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

// PhoneClick is hit by the UI when an agent taps the client's phone number
func (h *ClientHandler) PhoneClick(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	client, err := h.Service.RecordPhoneClick(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}
