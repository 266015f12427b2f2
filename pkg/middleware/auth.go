package middleware

import (
	"net/http"
	"strings"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/data/repository"
	"paradise-tours/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession validates the bearer session token, loads the user and puts
// identity, role and token on the request context. Suspended accounts are
// rejected here so no handler has to re-check.
func AuthSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token := parts[1]

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session")
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Failed to load session user",
					zap.Error(err), zap.String("user_id", session.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			if user.Suspended {
				logger.Warn("Suspended user attempted access",
					zap.String("user_id", user.ID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Account is suspended")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group on a single role set by AuthSession.
func RequireRole(role entity.UserRole, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if got != string(role) {
				logger.Warn("Role check failed",
					zap.String("required", string(role)),
					zap.String("actual", got),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, string(role)+" access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Admin requires the admin role.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, logger)
}

// TourGuide requires the tourguide role.
func TourGuide(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(entity.RoleTourGuide, logger)
}
