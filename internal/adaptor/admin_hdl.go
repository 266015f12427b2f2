package adaptor

import (
	"encoding/json"
	"net/http"

	"paradise-tours/internal/dto/request"
	"paradise-tours/internal/usecase"
	"paradise-tours/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// UpdateUser handles PUT /api/admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req request.AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		handleServiceError(h.log, w, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}

// Suspend handles POST /api/admin/users/{id}/suspend
func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req request.SuspendUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.Suspend(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "suspend user")
		return
	}

	utils.ResponseSuccess(w, "User suspended", user)
}

// Unsuspend handles POST /api/admin/users/{id}/unsuspend
func (h *AdminHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Unsuspend(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "unsuspend user")
		return
	}

	utils.ResponseSuccess(w, "User reinstated", user)
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "load stats")
		return
	}

	utils.ResponseSuccess(w, "Stats retrieved successfully", stats)
}

func (h *AdminHandler) PublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PublicStats(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "load public stats")
		return
	}

	utils.ResponseSuccess(w, "Stats retrieved successfully", stats)
}

func (h *AdminHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}
