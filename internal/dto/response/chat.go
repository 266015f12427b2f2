package response

import (
	"time"

	"paradise-tours/internal/data/entity"
)

type MessageResponse struct {
	ID         string             `json:"id"`
	BookingID  string             `json:"booking_id"`
	SenderID   string             `json:"sender_id"`
	SenderRole entity.UserRole    `json:"sender_role"`
	Body       string             `json:"body"`
	Type       entity.MessageType `json:"type"`
	Attachment *entity.Attachment `json:"attachment,omitempty"`
	Read       bool               `json:"read"`
	CreatedAt  time.Time          `json:"created_at"`
}

func MessageToResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID.String(),
		BookingID:  m.BookingID.String(),
		SenderID:   m.SenderID.String(),
		SenderRole: m.SenderRole,
		Body:       m.Body,
		Type:       m.Type,
		Attachment: m.Attachment,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func MessagesToResponse(messages []*entity.Message) []MessageResponse {
	resp := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, MessageToResponse(m))
	}
	return resp
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// ChatGuideResponse is the participant card shown in the chat header:
// the other party's public profile, no email or phone.
type ChatGuideResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       entity.UserRole `json:"role"`
	Languages  *string         `json:"languages,omitempty"`
	Experience *string         `json:"experience,omitempty"`
	Bio        *string         `json:"bio,omitempty"`
}

func ChatGuideToResponse(u *entity.User) ChatGuideResponse {
	return ChatGuideResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Role:       u.Role,
		Languages:  u.Languages,
		Experience: u.Experience,
		Bio:        u.Bio,
	}
}

// CompletedChatResponse summarizes a finished trip's conversation for
// the archive list: booking header plus the last message sent.
type CompletedChatResponse struct {
	Booking     BookingResponse  `json:"booking"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
	Messages    int64            `json:"messages"`
}
