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

type DestinationHandler struct {
	service usecase.DestinationService
	log     *zap.Logger
}

func NewDestinationHandler(service usecase.DestinationService, log *zap.Logger) *DestinationHandler {
	return &DestinationHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/destinations
func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list destinations")
		return
	}

	utils.ResponseSuccess(w, "Destinations retrieved successfully", destinations)
}

// ListAll handles GET /api/admin/destinations
func (h *DestinationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list destinations")
		return
	}

	utils.ResponseSuccess(w, "Destinations retrieved successfully", destinations)
}

// Get handles GET /api/destinations/{id}
func (h *DestinationHandler) Get(w http.ResponseWriter, r *http.Request) {
	destinationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid destination ID", nil)
		return
	}

	destination, err := h.service.Get(r.Context(), destinationID)
	if err != nil {
		handleServiceError(h.log, w, err, "get destination")
		return
	}

	utils.ResponseSuccess(w, "Destination retrieved successfully", destination)
}

// Create handles POST /api/admin/destinations
func (h *DestinationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	destination, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create destination")
		return
	}

	utils.ResponseCreated(w, "Destination created successfully", destination)
}

// Update handles PUT /api/admin/destinations/{id}
func (h *DestinationHandler) Update(w http.ResponseWriter, r *http.Request) {
	destinationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid destination ID", nil)
		return
	}

	var req request.UpdateDestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	destination, err := h.service.Update(r.Context(), destinationID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update destination")
		return
	}

	utils.ResponseSuccess(w, "Destination updated successfully", destination)
}
