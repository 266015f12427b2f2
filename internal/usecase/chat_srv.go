package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/data/repository"
	"paradise-tours/internal/dto/request"
	"paradise-tours/internal/dto/response"
	"paradise-tours/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMessageLimit = 100

type ChatService interface {
	// Send posts a text message. Only the booking's two participants may
	// write, and only while the booking is approved or active.
	Send(ctx context.Context, senderID uuid.UUID, bookingID uuid.UUID, req *request.SendMessageRequest) (*response.MessageResponse, error)
	SendAttachment(ctx context.Context, senderID uuid.UUID, bookingID uuid.UUID, req *request.SendAttachmentRequest) (*response.MessageResponse, error)
	// Messages returns the conversation. Participants may read at any
	// chat-eligible or completed stage; admins only after completion.
	Messages(ctx context.Context, actorID uuid.UUID, role entity.UserRole, bookingID uuid.UUID, limit int) ([]response.MessageResponse, error)
	// MarkRead flags everything the actor has not read. Safe to repeat.
	MarkRead(ctx context.Context, actorID, bookingID uuid.UUID) error
	UnreadCount(ctx context.Context, actorID uuid.UUID) (*response.UnreadCountResponse, error)
	// Participant returns the other party's public card for the chat header.
	Participant(ctx context.Context, actorID, bookingID uuid.UUID) (*response.ChatGuideResponse, error)
	// CompletedChats lists the actor's finished conversations with a
	// last-message preview.
	CompletedChats(ctx context.Context, actorID uuid.UUID, role entity.UserRole) ([]response.CompletedChatResponse, error)
}

type chatService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewChatService(repo *repository.Repository, log *zap.Logger) ChatService {
	return &chatService{
		repo: repo,
		log:  log.With(zap.String("service", "chat")),
	}
}

func (s *chatService) Send(ctx context.Context, senderID uuid.UUID, bookingID uuid.UUID, req *request.SendMessageRequest) (*response.MessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Send message validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, sender, err := s.writeGate(ctx, senderID, bookingID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		BookingID:  booking.ID,
		SenderID:   senderID,
		SenderRole: sender.Role,
		Body:       req.Body,
		Type:       entity.MessageTypeText,
	}

	if err := s.repo.Message.Create(ctx, message); err != nil {
		s.log.Error("Failed to create message", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to send message")
	}

	resp := response.MessageToResponse(message)
	return &resp, nil
}

func (s *chatService) SendAttachment(ctx context.Context, senderID uuid.UUID, bookingID uuid.UUID, req *request.SendAttachmentRequest) (*response.MessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Send attachment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, sender, err := s.writeGate(ctx, senderID, bookingID)
	if err != nil {
		return nil, err
	}

	msgType := entity.MessageTypeFile
	if strings.HasPrefix(req.Mimetype, "image/") {
		msgType = entity.MessageTypeImage
	}

	body := ""
	if req.Body != nil {
		body = *req.Body
	}

	message := &entity.Message{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		BookingID:  booking.ID,
		SenderID:   senderID,
		SenderRole: sender.Role,
		Body:       body,
		Type:       msgType,
		Attachment: &entity.Attachment{
			Filename:     req.Filename,
			OriginalName: req.OriginalName,
			Mimetype:     req.Mimetype,
			Size:         req.Size,
			URL:          req.URL,
		},
	}

	if err := s.repo.Message.Create(ctx, message); err != nil {
		s.log.Error("Failed to create attachment message", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to send attachment")
	}

	resp := response.MessageToResponse(message)
	return &resp, nil
}

func (s *chatService) Messages(ctx context.Context, actorID uuid.UUID, role entity.UserRole, bookingID uuid.UUID, limit int) ([]response.MessageResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.readGate(booking, actorID, role); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 500 {
		limit = defaultMessageLimit
	}

	messages, err := s.repo.Message.FindByBookingID(ctx, bookingID, limit)
	if err != nil {
		s.log.Error("Failed to load messages", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to load messages")
	}

	return response.MessagesToResponse(messages), nil
}

func (s *chatService) MarkRead(ctx context.Context, actorID, bookingID uuid.UUID) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if !booking.IsParticipant(actorID) {
		return fmt.Errorf("%w: not a participant", entity.ErrForbidden)
	}

	if err := s.repo.Message.MarkRead(ctx, bookingID, actorID); err != nil {
		s.log.Error("Failed to mark messages read", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return fmt.Errorf("failed to mark messages read")
	}

	return nil
}

func (s *chatService) UnreadCount(ctx context.Context, actorID uuid.UUID) (*response.UnreadCountResponse, error) {
	var bookingIDs []uuid.UUID

	mine, err := s.repo.Booking.FindByUserID(ctx, actorID)
	if err != nil {
		s.log.Error("Failed to load bookings for unread count", zap.Error(err))
		return nil, fmt.Errorf("failed to count unread messages")
	}
	assigned, err := s.repo.Booking.FindByGuideID(ctx, actorID)
	if err != nil {
		s.log.Error("Failed to load guide bookings for unread count", zap.Error(err))
		return nil, fmt.Errorf("failed to count unread messages")
	}

	for _, b := range append(mine, assigned...) {
		if b.Status.ChatEligible() {
			bookingIDs = append(bookingIDs, b.ID)
		}
	}

	if len(bookingIDs) == 0 {
		return &response.UnreadCountResponse{Unread: 0}, nil
	}

	unread, err := s.repo.Message.CountUnread(ctx, bookingIDs, actorID)
	if err != nil {
		s.log.Error("Failed to count unread messages", zap.Error(err))
		return nil, fmt.Errorf("failed to count unread messages")
	}

	return &response.UnreadCountResponse{Unread: unread}, nil
}

func (s *chatService) Participant(ctx context.Context, actorID, bookingID uuid.UUID) (*response.ChatGuideResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actorID) {
		return nil, fmt.Errorf("%w: not a participant", entity.ErrForbidden)
	}

	otherID := booking.UserID
	if booking.UserID == actorID {
		if booking.AssignedGuideID == nil {
			return nil, fmt.Errorf("%w: no guide assigned yet", entity.ErrInvalidState)
		}
		otherID = *booking.AssignedGuideID
	}

	other, err := s.repo.User.FindByID(ctx, otherID)
	if err != nil {
		s.log.Error("Failed to load chat participant", zap.Error(err), zap.String("user_id", otherID.String()))
		return nil, fmt.Errorf("failed to load participant")
	}
	if other == nil {
		return nil, fmt.Errorf("%w: participant", entity.ErrNotFound)
	}

	resp := response.ChatGuideToResponse(other)
	return &resp, nil
}

func (s *chatService) CompletedChats(ctx context.Context, actorID uuid.UUID, role entity.UserRole) ([]response.CompletedChatResponse, error) {
	var bookings []*entity.Booking
	var err error

	if role == entity.RoleTourGuide {
		bookings, err = s.repo.Booking.FindByGuideID(ctx, actorID)
	} else {
		bookings, err = s.repo.Booking.FindByUserID(ctx, actorID)
	}
	if err != nil {
		s.log.Error("Failed to load bookings for chat archive", zap.Error(err))
		return nil, fmt.Errorf("failed to load chat archive")
	}

	chats := make([]response.CompletedChatResponse, 0)
	for _, b := range bookings {
		if b.Status != entity.BookingStatusCompleted {
			continue
		}

		chat := response.CompletedChatResponse{Booking: response.BookingToResponse(b)}

		last, err := s.repo.Message.FindLastByBookingID(ctx, b.ID)
		if err != nil {
			s.log.Warn("Failed to load last message", zap.Error(err), zap.String("booking_id", b.ID.String()))
		}
		if last != nil {
			resp := response.MessageToResponse(last)
			chat.LastMessage = &resp
		}

		count, err := s.repo.Message.CountByBookingID(ctx, b.ID)
		if err != nil {
			s.log.Warn("Failed to count messages", zap.Error(err), zap.String("booking_id", b.ID.String()))
		}
		chat.Messages = count

		chats = append(chats, chat)
	}

	return chats, nil
}

// ==================== HELPER METHODS ====================

func (s *chatService) findBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to find booking")
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", entity.ErrNotFound)
	}
	return booking, nil
}

func (s *chatService) writeGate(ctx context.Context, senderID, bookingID uuid.UUID) (*entity.Booking, *entity.User, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	if !booking.IsParticipant(senderID) {
		return nil, nil, fmt.Errorf("%w: not a participant", entity.ErrForbidden)
	}
	if !booking.Status.ChatEligible() {
		return nil, nil, fmt.Errorf("%w: chat is not available for %s bookings", entity.ErrForbidden, booking.Status)
	}

	sender, err := s.repo.User.FindByID(ctx, senderID)
	if err != nil {
		s.log.Error("Failed to load sender", zap.Error(err), zap.String("user_id", senderID.String()))
		return nil, nil, fmt.Errorf("failed to send message")
	}
	if sender == nil {
		return nil, nil, fmt.Errorf("%w: sender", entity.ErrNotFound)
	}

	return booking, sender, nil
}

func (s *chatService) readGate(booking *entity.Booking, actorID uuid.UUID, role entity.UserRole) error {
	// Participants may always read; a booking that never reached chat
	// eligibility simply has no messages.
	if booking.IsParticipant(actorID) {
		return nil
	}

	// Admins audit finished conversations only.
	if role == entity.RoleAdmin {
		if booking.Status == entity.BookingStatusCompleted {
			return nil
		}
		return fmt.Errorf("%w: admin access is limited to completed bookings", entity.ErrForbidden)
	}

	return fmt.Errorf("%w: not a participant", entity.ErrForbidden)
}
