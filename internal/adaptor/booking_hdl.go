package adaptor

import (
	"encoding/json"
	"net/http"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/dto/request"
	"paradise-tours/internal/usecase"
	"paradise-tours/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())

	booking, err := h.service.Get(r.Context(), userID, entity.UserRole(role), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", booking)
}

// ListMine handles GET /api/bookings
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// ListPending handles GET /api/guide/bookings/pending
func (h *BookingHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListPending(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list pending bookings")
		return
	}

	utils.ResponseSuccess(w, "Pending bookings retrieved successfully", bookings)
}

// ListAll handles GET /api/admin/bookings
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list all bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved successfully", bookings)
}

// Dashboard handles GET /api/guide/dashboard
func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	guideID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	dashboard, err := h.service.GuideDashboard(r.Context(), guideID)
	if err != nil {
		handleServiceError(h.log, w, err, "load dashboard")
		return
	}

	utils.ResponseSuccess(w, "Dashboard retrieved successfully", dashboard)
}

// Accept handles POST /api/guide/bookings/{id}/accept
func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	guideID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Accept(r.Context(), guideID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "accept booking")
		return
	}

	utils.ResponseSuccess(w, "Booking accepted successfully", booking)
}

// Reject handles POST /api/guide/bookings/{id}/reject
func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.Reject(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "reject booking")
		return
	}

	utils.ResponseSuccess(w, "Booking rejected", booking)
}

// Decline handles POST /api/guide/bookings/{id}/decline
func (h *BookingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.Decline(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "decline booking")
		return
	}

	utils.ResponseSuccess(w, "Booking declined", booking)
}

// Complete handles POST /api/guide/bookings/{id}/complete
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	guideID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Complete(r.Context(), guideID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking completed successfully", booking)
}

// Rate handles POST /api/bookings/{id}/rate
func (h *BookingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req request.RateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.Rate(r.Context(), userID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "rate booking")
		return
	}

	utils.ResponseSuccess(w, "Rating submitted successfully", booking)
}

// Tip handles POST /api/bookings/{id}/tip
func (h *BookingHandler) Tip(w http.ResponseWriter, r *http.Request) {
	userID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req request.TipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.Tip(r.Context(), userID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add tip")
		return
	}

	utils.ResponseSuccess(w, "Tip added successfully", booking)
}

func (h *BookingHandler) actorAndBooking(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, bookingID, true
}
