package repository

import (
	"context"
	"fmt"

	"paradise-tours/internal/data/entity"
	"paradise-tours/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// FindByBookingID returns up to limit messages for a booking, oldest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID, limit int) ([]*entity.Message, error)
	FindLastByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Message, error)
	// MarkRead flags all messages in the booking not authored by readerID.
	// Idempotent: already-read messages stay read.
	MarkRead(ctx context.Context, bookingID, readerID uuid.UUID) error
	CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)
	// CountUnread counts unread messages across bookingIDs not authored by readerID.
	CountUnread(ctx context.Context, bookingIDs []uuid.UUID, readerID uuid.UUID) (int64, error)
}

const messageColumns = `id, booking_id, sender_id, sender_role, body, message_type,
		attachment_filename, attachment_original_name, attachment_mimetype,
		attachment_size, attachment_url, read, created_at`

type messageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMessageRepository(db database.PgxIface, log *zap.Logger) MessageRepository {
	return &messageRepository{
		db:  db,
		log: log.With(zap.String("repository", "message")),
	}
}

func scanMessage(row pgx.Row) (*entity.Message, error) {
	var m entity.Message
	var filename, originalName, mimetype, url *string
	var size *int64

	err := row.Scan(
		&m.ID,
		&m.BookingID,
		&m.SenderID,
		&m.SenderRole,
		&m.Body,
		&m.Type,
		&filename,
		&originalName,
		&mimetype,
		&size,
		&url,
		&m.Read,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if filename != nil {
		m.Attachment = &entity.Attachment{
			Filename:     *filename,
			OriginalName: derefString(originalName),
			Mimetype:     derefString(mimetype),
			URL:          derefString(url),
		}
		if size != nil {
			m.Attachment.Size = *size
		}
	}

	return &m, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	query := `
		INSERT INTO messages (id, booking_id, sender_id, sender_role, body, message_type,
			attachment_filename, attachment_original_name, attachment_mimetype,
			attachment_size, attachment_url, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var filename, originalName, mimetype, url *string
	var size *int64
	if message.Attachment != nil {
		filename = &message.Attachment.Filename
		originalName = &message.Attachment.OriginalName
		mimetype = &message.Attachment.Mimetype
		size = &message.Attachment.Size
		url = &message.Attachment.URL
	}

	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.BookingID,
		message.SenderID,
		message.SenderRole,
		message.Body,
		message.Type,
		filename,
		originalName,
		mimetype,
		size,
		url,
		message.Read,
		message.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create message",
			zap.Error(err),
			zap.String("booking_id", message.BookingID.String()),
			zap.String("sender_id", message.SenderID.String()),
		)
		return fmt.Errorf("create message for booking %s: %w", message.BookingID.String(), err)
	}

	return nil
}

func (r *messageRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID, limit int) ([]*entity.Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages
		WHERE booking_id = $1
		ORDER BY created_at
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, bookingID, limit)
	if err != nil {
		r.log.Error("Failed to find messages by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find messages by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			r.log.Error("Failed to scan message row", zap.Error(err))
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

func (r *messageRepository) FindLastByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	message, err := scanMessage(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find last message",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find last message for booking %s: %w", bookingID.String(), err)
	}

	return message, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, bookingID, readerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages SET read = true
		WHERE booking_id = $1 AND sender_id <> $2 AND read = false
	`, bookingID, readerID)
	if err != nil {
		r.log.Error("Failed to mark messages read",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("reader_id", readerID.String()),
		)
		return fmt.Errorf("mark messages read for booking %s: %w", bookingID.String(), err)
	}

	return nil
}

func (r *messageRepository) CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE booking_id = $1`, bookingID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count messages",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("count messages for booking %s: %w", bookingID.String(), err)
	}
	return count, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, bookingIDs []uuid.UUID, readerID uuid.UUID) (int64, error) {
	if len(bookingIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE booking_id = ANY($1) AND sender_id <> $2 AND read = false
	`, bookingIDs, readerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count unread messages",
			zap.Error(err),
			zap.String("reader_id", readerID.String()),
		)
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}
