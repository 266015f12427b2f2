package wire

import (
	"paradise-tours/internal/adaptor"
	"paradise-tours/internal/data/repository"
	"paradise-tours/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// Landing-page counters stay open.
	r.Get("/api/stats", adminHandler.PublicStats)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))
		r.Get("/stats", adminHandler.Stats)
		r.Get("/users", adminHandler.ListUsers)
		r.Put("/users/{id}", adminHandler.UpdateUser)
		r.Delete("/users/{id}", adminHandler.DeleteUser)
		r.Post("/users/{id}/suspend", adminHandler.Suspend)
		r.Post("/users/{id}/unsuspend", adminHandler.Unsuspend)
	})
}
