package wire

import (
	"paradise-tours/internal/adaptor"
	"paradise-tours/internal/data/repository"
	"paradise-tours/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDestination(
	r chi.Router,
	destinationHandler *adaptor.DestinationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Public catalog.
	r.Get("/api/destinations", destinationHandler.List)
	r.Get("/api/destinations/{id}", destinationHandler.Get)

	// Catalog management.
	auth := middleware.AuthSession(repo.Session, repo.User, log)
	r.Route("/api/admin/destinations", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))
		r.Get("/", destinationHandler.ListAll)
		r.Post("/", destinationHandler.Create)
		r.Put("/{id}", destinationHandler.Update)
	})
}
