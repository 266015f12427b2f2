package wire

import (
	"paradise-tours/internal/adaptor"
	"paradise-tours/internal/data/repository"
	"paradise-tours/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireChat(
	r chi.Router,
	chatHandler *adaptor.ChatHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	r.Route("/api/chat", func(r chi.Router) {
		r.Use(auth)
		r.Get("/unread", chatHandler.UnreadCount)
		r.Get("/completed", chatHandler.CompletedChats)
		r.Post("/{bookingId}/messages", chatHandler.Send)
		r.Get("/{bookingId}/messages", chatHandler.Messages)
		r.Post("/{bookingId}/attachments", chatHandler.SendAttachment)
		r.Post("/{bookingId}/read", chatHandler.MarkRead)
		r.Get("/{bookingId}/participant", chatHandler.Participant)
	})
}
