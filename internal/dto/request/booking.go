package request

import "time"

type CreateBookingRequest struct {
	Package         string    `json:"package" validate:"required,min=3,max=255"`
	Checkin         time.Time `json:"checkin" validate:"required"`
	Checkout        time.Time `json:"checkout" validate:"required,gtfield=Checkin"`
	Guests          int       `json:"guests" validate:"required,min=1,max=50"`
	TotalAmount     float64   `json:"total_amount" validate:"required,gt=0"`
	ContactNumber   *string   `json:"contact_number,omitempty" validate:"omitempty,min=10,max=15"`
	PaymentMethod   *string   `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	SpecialRequests *string   `json:"special_requests,omitempty" validate:"omitempty,max=2000"`
}

type RateBookingRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type TipRequest struct {
	Amount float64 `json:"amount" validate:"required"`
}
