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

type ChatHandler struct {
	service usecase.ChatService
	log     *zap.Logger
}

func NewChatHandler(service usecase.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log,
	}
}

// Send handles POST /api/chat/{bookingId}/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	senderID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	message, err := h.service.Send(r.Context(), senderID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "send message")
		return
	}

	utils.ResponseCreated(w, "Message sent", message)
}

// SendAttachment handles POST /api/chat/{bookingId}/attachments
func (h *ChatHandler) SendAttachment(w http.ResponseWriter, r *http.Request) {
	senderID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req request.SendAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	message, err := h.service.SendAttachment(r.Context(), senderID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "send attachment")
		return
	}

	utils.ResponseCreated(w, "Attachment sent", message)
}

// Messages handles GET /api/chat/{bookingId}/messages
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 0)

	messages, err := h.service.Messages(r.Context(), actorID, entity.UserRole(role), bookingID, limit)
	if err != nil {
		handleServiceError(h.log, w, err, "load messages")
		return
	}

	utils.ResponseSuccess(w, "Messages retrieved successfully", messages)
}

// MarkRead handles POST /api/chat/{bookingId}/read
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), actorID, bookingID); err != nil {
		handleServiceError(h.log, w, err, "mark messages read")
		return
	}

	utils.ResponseSuccess(w, "Messages marked as read", nil)
}

// UnreadCount handles GET /api/chat/unread
func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), actorID)
	if err != nil {
		handleServiceError(h.log, w, err, "count unread messages")
		return
	}

	utils.ResponseSuccess(w, "Unread count retrieved successfully", count)
}

// Participant handles GET /api/chat/{bookingId}/participant
func (h *ChatHandler) Participant(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	participant, err := h.service.Participant(r.Context(), actorID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "load participant")
		return
	}

	utils.ResponseSuccess(w, "Participant retrieved successfully", participant)
}

// CompletedChats handles GET /api/chat/completed
func (h *ChatHandler) CompletedChats(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())

	chats, err := h.service.CompletedChats(r.Context(), actorID, entity.UserRole(role))
	if err != nil {
		handleServiceError(h.log, w, err, "load chat archive")
		return
	}

	utils.ResponseSuccess(w, "Completed chats retrieved successfully", chats)
}

func (h *ChatHandler) actorAndBooking(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, bookingID, true
}
