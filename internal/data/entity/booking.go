package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusDeclined  BookingStatus = "declined"
)

// ChatEligible reports whether chat messages may be sent for a booking in
// this status. Approved is kept alongside active for bookings confirmed
// through the legacy admin-approval flow.
func (s BookingStatus) ChatEligible() bool {
	return s == BookingStatusApproved || s == BookingStatusActive
}

// Assigned reports whether a guide holds this booking as their active one.
func (s BookingStatus) Assigned() bool {
	return s == BookingStatusApproved || s == BookingStatusActive
}

// Terminal reports whether no further lifecycle transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusRejected || s == BookingStatusDeclined
}

type Booking struct {
	Base
	Reference       string        `db:"reference"`
	UserID          uuid.UUID     `db:"user_id"`
	AssignedGuideID *uuid.UUID    `db:"assigned_guide_id"`
	Package         string        `db:"package"`
	Checkin         time.Time     `db:"checkin"`
	Checkout        time.Time     `db:"checkout"`
	Guests          int           `db:"guests"`
	TotalAmount     float64       `db:"total_amount"`
	Status          BookingStatus `db:"status"`

	// Commission is the guide's earned share, computed once on completion.
	Commission float64 `db:"commission"`
	// Tip accumulates tourist contributions on a completed booking.
	Tip float64 `db:"tip"`

	Rating        *int    `db:"rating"`
	RatingComment *string `db:"rating_comment"`

	ContactNumber   *string `db:"contact_number"`
	PaymentMethod   *string `db:"payment_method"`
	SpecialRequests *string `db:"special_requests"`
}

// IsParticipant reports whether userID is the owning tourist or the
// assigned guide of this booking.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	if b.UserID == userID {
		return true
	}
	return b.AssignedGuideID != nil && *b.AssignedGuideID == userID
}
