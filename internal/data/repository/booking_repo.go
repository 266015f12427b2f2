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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	FindByGuideID(ctx context.Context, guideID uuid.UUID) ([]*entity.Booking, error)
	FindPending(ctx context.Context) ([]*entity.Booking, error)
	FindAll(ctx context.Context) ([]*entity.Booking, error)
	FindByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)

	// AssignGuide atomically moves a pending unassigned booking to active,
	// sets the assigned guide, and claims the guide's active-booking slot.
	// Both updates happen in one transaction or not at all. Returns
	// entity.ErrInvalidState when the booking lost the pending precondition,
	// entity.ErrConflict when the guide already holds an active booking,
	// entity.ErrNotFound when the booking does not exist.
	AssignGuide(ctx context.Context, bookingID, guideID uuid.UUID) (*entity.Booking, error)

	// UpdateStatusFrom transitions status only when the current status equals
	// from; zero rows affected yields entity.ErrInvalidState (or ErrNotFound).
	UpdateStatusFrom(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) (*entity.Booking, error)

	// CompleteAssigned atomically moves the guide's active booking to
	// completed, persists the commission and releases the guide's
	// active-booking slot.
	CompleteAssigned(ctx context.Context, bookingID, guideID uuid.UUID, commission float64) (*entity.Booking, error)

	// SetRating records the one-time rating; entity.ErrAlreadyRated when a
	// rating already exists, entity.ErrInvalidState when not completed.
	SetRating(ctx context.Context, bookingID uuid.UUID, rating int, comment *string) (*entity.Booking, error)

	// AddTip accumulates a tip on a completed booking.
	AddTip(ctx context.Context, bookingID uuid.UUID, amount float64) (*entity.Booking, error)

	Count(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, int64, error)
}

const bookingColumns = `id, reference, user_id, assigned_guide_id, package, checkin, checkout,
		guests, total_amount, status, commission, tip, rating, rating_comment,
		contact_number, payment_method, special_requests, created_at, updated_at`

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.AssignedGuideID,
		&b.Package,
		&b.Checkin,
		&b.Checkout,
		&b.Guests,
		&b.TotalAmount,
		&b.Status,
		&b.Commission,
		&b.Tip,
		&b.Rating,
		&b.RatingComment,
		&b.ContactNumber,
		&b.PaymentMethod,
		&b.SpecialRequests,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, user_id, assigned_guide_id, package, checkin, checkout,
			guests, total_amount, status, commission, tip, rating, rating_comment,
			contact_number, payment_method, special_requests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.UserID,
		booking.AssignedGuideID,
		booking.Package,
		booking.Checkin,
		booking.Checkout,
		booking.Guests,
		booking.TotalAmount,
		booking.Status,
		booking.Commission,
		booking.Tip,
		booking.Rating,
		booking.RatingComment,
		booking.ContactNumber,
		booking.PaymentMethod,
		booking.SpecialRequests,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindByGuideID(ctx context.Context, guideID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE assigned_guide_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, guideID)
	if err != nil {
		r.log.Error("Failed to find bookings by guide ID",
			zap.Error(err),
			zap.String("guide_id", guideID.String()),
		)
		return nil, fmt.Errorf("find bookings by guide ID %s: %w", guideID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindPending(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'pending' AND assigned_guide_id IS NULL
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find pending bookings", zap.Error(err))
		return nil, fmt.Errorf("find pending bookings: %w", err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all bookings", zap.Error(err))
		return nil, fmt.Errorf("find all bookings: %w", err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		r.log.Error("Failed to find bookings by status",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find bookings by status %s: %w", string(status), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) AssignGuide(ctx context.Context, bookingID, guideID uuid.UUID) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin assign transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The pending check and the mutation are one conditional update; a
	// losing racer affects zero rows and never sees a partial assignment.
	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'active', assigned_guide_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND assigned_guide_id IS NULL
	`, bookingID, guideID)
	if err != nil {
		r.log.Error("Failed to claim booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("guide_id", guideID.String()),
		)
		return nil, fmt.Errorf("claim booking %s: %w", bookingID.String(), err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check booking %s: %w", bookingID.String(), err)
		}
		if !exists {
			return nil, entity.ErrNotFound
		}
		return nil, entity.ErrInvalidState
	}

	// Same trick for the guide's availability slot.
	tag, err = tx.Exec(ctx, `
		UPDATE users
		SET active_booking_id = $2, updated_at = NOW()
		WHERE id = $1 AND active_booking_id IS NULL
	`, guideID, bookingID)
	if err != nil {
		r.log.Error("Failed to claim guide slot",
			zap.Error(err),
			zap.String("guide_id", guideID.String()),
		)
		return nil, fmt.Errorf("claim guide slot %s: %w", guideID.String(), err)
	}

	if tag.RowsAffected() == 0 {
		return nil, entity.ErrConflict
	}

	booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID))
	if err != nil {
		return nil, fmt.Errorf("reload booking %s: %w", bookingID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit assign transaction: %w", err)
	}

	r.log.Info("Booking assigned",
		zap.String("booking_id", bookingID.String()),
		zap.String("guide_id", guideID.String()),
	)

	return booking, nil
}

func (r *bookingRepository) UpdateStatusFrom(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) (*entity.Booking, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, bookingID, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("to", string(to)),
		)
		return nil, fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(to), err)
	}

	if tag.RowsAffected() == 0 {
		existing, err := r.FindByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, entity.ErrNotFound
		}
		return nil, entity.ErrInvalidState
	}

	return r.FindByID(ctx, bookingID)
}

func (r *bookingRepository) CompleteAssigned(ctx context.Context, bookingID, guideID uuid.UUID, commission float64) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin complete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'completed', commission = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND assigned_guide_id = $2
	`, bookingID, guideID, commission)
	if err != nil {
		r.log.Error("Failed to complete booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("complete booking %s: %w", bookingID.String(), err)
	}

	if tag.RowsAffected() == 0 {
		booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID))
		if err == pgx.ErrNoRows {
			return nil, entity.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("check booking %s: %w", bookingID.String(), err)
		}
		if booking.AssignedGuideID == nil || *booking.AssignedGuideID != guideID {
			return nil, entity.ErrForbidden
		}
		return nil, entity.ErrInvalidState
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET active_booking_id = NULL, updated_at = NOW()
		WHERE id = $1 AND active_booking_id = $2
	`, guideID, bookingID); err != nil {
		r.log.Error("Failed to release guide slot",
			zap.Error(err),
			zap.String("guide_id", guideID.String()),
		)
		return nil, fmt.Errorf("release guide slot %s: %w", guideID.String(), err)
	}

	booking, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID))
	if err != nil {
		return nil, fmt.Errorf("reload booking %s: %w", bookingID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit complete transaction: %w", err)
	}

	r.log.Info("Booking completed",
		zap.String("booking_id", bookingID.String()),
		zap.String("guide_id", guideID.String()),
		zap.Float64("commission", commission),
	)

	return booking, nil
}

func (r *bookingRepository) SetRating(ctx context.Context, bookingID uuid.UUID, rating int, comment *string) (*entity.Booking, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET rating = $2, rating_comment = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'completed' AND rating IS NULL
	`, bookingID, rating, comment)
	if err != nil {
		r.log.Error("Failed to set rating",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("set rating on booking %s: %w", bookingID.String(), err)
	}

	if tag.RowsAffected() == 0 {
		existing, err := r.FindByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, entity.ErrNotFound
		}
		if existing.Rating != nil {
			return nil, entity.ErrAlreadyRated
		}
		return nil, entity.ErrInvalidState
	}

	return r.FindByID(ctx, bookingID)
}

func (r *bookingRepository) AddTip(ctx context.Context, bookingID uuid.UUID, amount float64) (*entity.Booking, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET tip = tip + $2, updated_at = NOW()
		WHERE id = $1 AND status = 'completed'
	`, bookingID, amount)
	if err != nil {
		r.log.Error("Failed to add tip",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("add tip on booking %s: %w", bookingID.String(), err)
	}

	if tag.RowsAffected() == 0 {
		existing, err := r.FindByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, entity.ErrNotFound
		}
		return nil, entity.ErrInvalidState
	}

	return r.FindByID(ctx, bookingID)
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) AverageRating(ctx context.Context) (float64, int64, error) {
	var avg *float64
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT AVG(rating), COUNT(rating) FROM bookings WHERE rating IS NOT NULL
	`).Scan(&avg, &count)
	if err != nil {
		r.log.Error("Failed to compute average rating", zap.Error(err))
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}

	if avg == nil {
		return 0, 0, nil
	}
	return *avg, count, nil
}
