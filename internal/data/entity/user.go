package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleAdmin     UserRole = "admin"
	RoleTourGuide UserRole = "tourguide"
)

type User struct {
	Base
	Name          string   `db:"name"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         *string  `db:"phone"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`

	// Suspension is an admin moderation action; suspended users cannot log in.
	Suspended        bool       `db:"suspended"`
	SuspendedAt      *time.Time `db:"suspended_at"`
	SuspensionReason *string    `db:"suspension_reason"`

	// ActiveBookingID is the guide's single non-terminal assigned booking.
	// nil means the guide is available for new pending bookings.
	ActiveBookingID *uuid.UUID `db:"active_booking_id"`

	// Profile fields (guides fill these in for tourists).
	Languages  *string `db:"languages"`
	Experience *string `db:"experience"`
	Bio        *string `db:"bio"`
}

// IsAvailableGuide reports whether this user can accept a pending booking.
func (u *User) IsAvailableGuide() bool {
	return u.Role == RoleTourGuide && u.ActiveBookingID == nil
}
