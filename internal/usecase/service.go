package usecase

import (
	"paradise-tours/internal/data/repository"
	"paradise-tours/internal/notify"
	"paradise-tours/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Booking     BookingService
	Chat        ChatService
	Guide       GuideService
	Admin       AdminService
	Destination DestinationService
}

func NewService(repo *repository.Repository, config *utils.Config, notifier *notify.Dispatcher, log *zap.Logger) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config, notifier, log),
		User:        NewUserService(repo, log),
		Booking:     NewBookingService(repo, config, notifier, log),
		Chat:        NewChatService(repo, log),
		Guide:       NewGuideService(repo, notifier, log),
		Admin:       NewAdminService(repo, notifier, log),
		Destination: NewDestinationService(repo.Destination, log),
	}
}
