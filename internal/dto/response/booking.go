package response

import (
	"time"

	"paradise-tours/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	Reference       string               `json:"reference"`
	UserID          string               `json:"user_id"`
	AssignedGuideID *string              `json:"assigned_guide_id,omitempty"`
	Package         string               `json:"package"`
	Checkin         time.Time            `json:"checkin"`
	Checkout        time.Time            `json:"checkout"`
	Guests          int                  `json:"guests"`
	TotalAmount     float64              `json:"total_amount"`
	Status          entity.BookingStatus `json:"status"`
	Commission      float64              `json:"commission"`
	Tip             float64              `json:"tip"`
	Rating          *int                 `json:"rating,omitempty"`
	RatingComment   *string              `json:"rating_comment,omitempty"`
	ContactNumber   *string              `json:"contact_number,omitempty"`
	PaymentMethod   *string              `json:"payment_method,omitempty"`
	SpecialRequests *string              `json:"special_requests,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		Reference:       b.Reference,
		UserID:          b.UserID.String(),
		Package:         b.Package,
		Checkin:         b.Checkin,
		Checkout:        b.Checkout,
		Guests:          b.Guests,
		TotalAmount:     b.TotalAmount,
		Status:          b.Status,
		Commission:      b.Commission,
		Tip:             b.Tip,
		Rating:          b.Rating,
		RatingComment:   b.RatingComment,
		ContactNumber:   b.ContactNumber,
		PaymentMethod:   b.PaymentMethod,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.AssignedGuideID != nil {
		id := b.AssignedGuideID.String()
		resp.AssignedGuideID = &id
	}

	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, BookingToResponse(b))
	}
	return resp
}

// GuideDashboardResponse is what a tour guide sees on login: the booking
// they currently hold plus the pool of unassigned pending bookings.
type GuideDashboardResponse struct {
	ActiveBooking   *BookingResponse  `json:"active_booking"`
	PendingBookings []BookingResponse `json:"pending_bookings"`
	CompletedTrips  int64             `json:"completed_trips"`
	AverageRating   *float64          `json:"average_rating,omitempty"`
	TotalEarnings   float64           `json:"total_earnings"`
}
