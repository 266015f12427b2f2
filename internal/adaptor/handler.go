package adaptor

import (
	"paradise-tours/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Booking     *BookingHandler
	Chat        *ChatHandler
	Guide       *GuideHandler
	Admin       *AdminHandler
	Destination *DestinationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Booking:     NewBookingHandler(service.Booking, log),
		Chat:        NewChatHandler(service.Chat, log),
		Guide:       NewGuideHandler(service.Guide, log),
		Admin:       NewAdminHandler(service.Admin, log),
		Destination: NewDestinationHandler(service.Destination, log),
	}
}
