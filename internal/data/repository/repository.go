package repository

import (
	"paradise-tours/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	OTP         OTPRepository
	Booking     BookingRepository
	Message     MessageRepository
	Application ApplicationRepository
	Destination DestinationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		OTP:         NewOTPRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Message:     NewMessageRepository(db, log),
		Application: NewApplicationRepository(db, log),
		Destination: NewDestinationRepository(db, log),
	}
}
