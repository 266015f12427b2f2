package wire

import (
	"paradise-tours/internal/adaptor"
	"paradise-tours/internal/data/repository"
	"paradise-tours/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireGuide(
	r chi.Router,
	guideHandler *adaptor.GuideHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// Any authenticated user may apply.
	r.With(auth).Post("/api/guide-applications", guideHandler.Apply)

	// Review and decisions are admin only.
	r.Route("/api/admin/guide-applications", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))
		r.Get("/", guideHandler.List)
		r.Get("/{id}", guideHandler.Get)
		r.Post("/{id}/decide", guideHandler.Decide)
	})
}
