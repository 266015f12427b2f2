package wire

import (
	"net/http"

	"paradise-tours/internal/adaptor"
	"paradise-tours/internal/data/repository"
	"paradise-tours/internal/notify"
	"paradise-tours/internal/usecase"
	"paradise-tours/pkg/middleware"
	"paradise-tours/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	var mailer notify.Mailer
	if config.Email.Host != "" {
		mailer = notify.NewSMTPMailer(config.Email)
	} else {
		mailer = notify.NewLogMailer(logger)
	}
	notifier := notify.NewDispatcher(mailer, notify.NewSMSSender(config.SMS, logger), logger)

	service := usecase.NewService(repo, config, notifier, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireChat(r, handler.Chat, repo, logger)
	wireGuide(r, handler.Guide, repo, logger)
	wireAdmin(r, handler.Admin, repo, logger)
	wireDestination(r, handler.Destination, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
