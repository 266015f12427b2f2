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

type GuideHandler struct {
	service usecase.GuideService
	log     *zap.Logger
}

func NewGuideHandler(service usecase.GuideService, log *zap.Logger) *GuideHandler {
	return &GuideHandler{
		service: service,
		log:     log,
	}
}

// Apply handles POST /api/guide-applications
func (h *GuideHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ApplyAsGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	application, err := h.service.Apply(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "submit application")
		return
	}

	utils.ResponseCreated(w, "Application submitted successfully", application)
}

// List handles GET /api/admin/guide-applications
func (h *GuideHandler) List(w http.ResponseWriter, r *http.Request) {
	applications, err := h.service.ListApplications(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list applications")
		return
	}

	utils.ResponseSuccess(w, "Applications retrieved successfully", applications)
}

// Get handles GET /api/admin/guide-applications/{id}
func (h *GuideHandler) Get(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid application ID", nil)
		return
	}

	application, err := h.service.GetApplication(r.Context(), applicationID)
	if err != nil {
		handleServiceError(h.log, w, err, "get application")
		return
	}

	utils.ResponseSuccess(w, "Application retrieved successfully", application)
}

// Decide handles POST /api/admin/guide-applications/{id}/decide
func (h *GuideHandler) Decide(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid application ID", nil)
		return
	}

	var req request.DecideApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	application, err := h.service.Decide(r.Context(), applicationID, req.Approve)
	if err != nil {
		handleServiceError(h.log, w, err, "decide application")
		return
	}

	utils.ResponseSuccess(w, "Application decided", application)
}
