package entity

import (
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Attachment holds metadata for a file or image message. The file itself
// lives in the static store; only the reference is persisted here.
type Attachment struct {
	Filename     string `db:"attachment_filename" json:"filename"`
	OriginalName string `db:"attachment_original_name" json:"original_name"`
	Mimetype     string `db:"attachment_mimetype" json:"mimetype"`
	Size         int64  `db:"attachment_size" json:"size"`
	URL          string `db:"attachment_url" json:"url"`
}

// Message belongs to a booking's chat. Messages exist only for bookings in a
// chat-eligible status and only from the booking's two participants.
type Message struct {
	BaseSimple
	BookingID  uuid.UUID   `db:"booking_id"`
	SenderID   uuid.UUID   `db:"sender_id"`
	SenderRole UserRole    `db:"sender_role"`
	Body       string      `db:"body"`
	Type       MessageType `db:"message_type"`
	Attachment *Attachment `db:"-"`
	Read       bool        `db:"read"`
}
