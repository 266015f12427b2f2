package usecase

import (
	"context"
	"fmt"
	"time"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/data/repository"
	"paradise-tours/internal/dto/request"
	"paradise-tours/internal/dto/response"
	"paradise-tours/internal/notify"
	"paradise-tours/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]response.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *request.AdminUpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	// Suspend blocks the user from logging in. Admin accounts cannot be
	// suspended.
	Suspend(ctx context.Context, userID uuid.UUID, req *request.SuspendUserRequest) (*response.UserResponse, error)
	Unsuspend(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	// Stats assembles the platform dashboard counters.
	Stats(ctx context.Context) (*response.PlatformStatsResponse, error)
	// PublicStats assembles the unauthenticated landing-page counters.
	PublicStats(ctx context.Context) (*response.PublicStatsResponse, error)
}

type adminService struct {
	repo     *repository.Repository
	notifier *notify.Dispatcher
	log      *zap.Logger
}

func NewAdminService(repo *repository.Repository, notifier *notify.Dispatcher, log *zap.Logger) AdminService {
	return &adminService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]response.UserResponse, error) {
	users, err := s.repo.User.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users")
	}

	resp := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, response.UserToResponse(u))
	}
	return resp, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID uuid.UUID, req *request.AdminUpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update user validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.repo.User.FindByEmail(ctx, *req.Email)
		if err != nil {
			s.log.Error("Failed to check email", zap.Error(err))
			return nil, fmt.Errorf("failed to update user")
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: email already registered", entity.ErrConflict)
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update user")
	}

	s.log.Info("User updated by admin", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleAdmin {
		return fmt.Errorf("%w: admin accounts cannot be deleted", entity.ErrForbidden)
	}

	if err := s.repo.User.Delete(ctx, userID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to delete user")
	}

	s.log.Info("User deleted by admin", zap.String("user_id", userID.String()))
	return nil
}

func (s *adminService) Suspend(ctx context.Context, userID uuid.UUID, req *request.SuspendUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Suspend validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == entity.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be suspended", entity.ErrForbidden)
	}
	if user.Suspended {
		return nil, fmt.Errorf("%w: already suspended", entity.ErrInvalidState)
	}

	now := time.Now()
	user.Suspended = true
	user.SuspendedAt = &now
	user.SuspensionReason = &req.Reason
	user.UpdatedAt = now

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to suspend user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to suspend user")
	}

	s.log.Info("User suspended",
		zap.String("user_id", userID.String()),
		zap.String("reason", req.Reason))

	go s.notifier.AccountSuspended(user, req.Reason)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) Unsuspend(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Suspended {
		return nil, fmt.Errorf("%w: not suspended", entity.ErrInvalidState)
	}

	user.Suspended = false
	user.SuspendedAt = nil
	user.SuspensionReason = nil
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to unsuspend user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to unsuspend user")
	}

	s.log.Info("User reinstated", zap.String("user_id", userID.String()))

	go s.notifier.AccountReinstated(user)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) Stats(ctx context.Context) (*response.PlatformStatsResponse, error) {
	stats := &response.PlatformStatsResponse{}

	users, err := s.repo.User.CountByRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, s.statsErr(err)
	}
	guides, err := s.repo.User.CountByRole(ctx, entity.RoleTourGuide)
	if err != nil {
		return nil, s.statsErr(err)
	}
	stats.TotalUsers = users + guides
	stats.TotalGuides = guides

	if stats.TotalBookings, err = s.repo.Booking.Count(ctx); err != nil {
		return nil, s.statsErr(err)
	}

	for status, dest := range map[entity.BookingStatus]*int64{
		entity.BookingStatusPending:   &stats.PendingBookings,
		entity.BookingStatusActive:    &stats.ActiveBookings,
		entity.BookingStatusCompleted: &stats.CompletedBookings,
	} {
		bookings, err := s.repo.Booking.FindByStatus(ctx, status)
		if err != nil {
			return nil, s.statsErr(err)
		}
		*dest = int64(len(bookings))
	}

	if stats.PendingApplications, err = s.repo.Application.CountByStatus(ctx, entity.ApplicationStatusPending); err != nil {
		return nil, s.statsErr(err)
	}

	avg, rated, err := s.repo.Booking.AverageRating(ctx)
	if err != nil {
		return nil, s.statsErr(err)
	}
	if rated > 0 {
		stats.AverageRating = &avg
	}

	return stats, nil
}

func (s *adminService) PublicStats(ctx context.Context) (*response.PublicStatsResponse, error) {
	stats := &response.PublicStatsResponse{}
	var err error

	if stats.TouristSpots, err = s.repo.Destination.Count(ctx); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalTourists, err = s.repo.User.CountByRole(ctx, entity.RoleUser); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalGuides, err = s.repo.Application.CountByStatus(ctx, entity.ApplicationStatusApproved); err != nil {
		return nil, s.statsErr(err)
	}
	if stats.TotalBookings, err = s.repo.Booking.Count(ctx); err != nil {
		return nil, s.statsErr(err)
	}

	avg, rated, err := s.repo.Booking.AverageRating(ctx)
	if err != nil {
		return nil, s.statsErr(err)
	}
	stats.AverageRating = 4.9
	if rated > 0 {
		stats.AverageRating = avg
	}

	return stats, nil
}

// ==================== HELPER METHODS ====================

func (s *adminService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", entity.ErrNotFound)
	}
	return user, nil
}

func (s *adminService) statsErr(err error) error {
	s.log.Error("Failed to assemble platform stats", zap.Error(err))
	return fmt.Errorf("failed to load stats")
}
