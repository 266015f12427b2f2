package wire

import (
	"paradise-tours/internal/adaptor"
	"paradise-tours/internal/data/repository"
	"paradise-tours/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// Tourist side.
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", bookingHandler.Create)
		r.Get("/", bookingHandler.ListMine)
		r.Get("/{id}", bookingHandler.Get)
		r.Post("/{id}/rate", bookingHandler.Rate)
		r.Post("/{id}/tip", bookingHandler.Tip)
	})

	// Guide side.
	r.Route("/api/guide", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.TourGuide(log))
		r.Get("/dashboard", bookingHandler.Dashboard)
		r.Get("/bookings/pending", bookingHandler.ListPending)
		r.Post("/bookings/{id}/accept", bookingHandler.Accept)
		r.Post("/bookings/{id}/reject", bookingHandler.Reject)
		r.Post("/bookings/{id}/decline", bookingHandler.Decline)
		r.Post("/bookings/{id}/complete", bookingHandler.Complete)
	})

	// Admin oversight.
	r.With(auth, middleware.Admin(log)).Get("/api/admin/bookings", bookingHandler.ListAll)
}
