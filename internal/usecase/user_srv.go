package usecase

import (
	"context"
	"fmt"
	"time"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/data/repository"
	"paradise-tours/internal/dto/request"
	"paradise-tours/internal/dto/response"
	"paradise-tours/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	// GetGuideProfile returns a tour guide's public card, enriched with the
	// approved application that backs it.
	GetGuideProfile(ctx context.Context, guideID uuid.UUID) (*response.UserResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", entity.ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", entity.ErrNotFound)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Languages != nil {
		user.Languages = req.Languages
	}
	if req.Experience != nil {
		user.Experience = req.Experience
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetGuideProfile(ctx context.Context, guideID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, guideID)
	if err != nil {
		s.log.Error("Failed to find guide", zap.Error(err), zap.String("guide_id", guideID.String()))
		return nil, fmt.Errorf("failed to get guide profile")
	}
	if user == nil || user.Role != entity.RoleTourGuide {
		return nil, fmt.Errorf("%w: guide", entity.ErrNotFound)
	}

	resp := response.UserToResponse(user)

	// Fill profile gaps from the approved application.
	app, err := s.repo.Application.FindApprovedByUserID(ctx, guideID)
	if err != nil {
		s.log.Warn("Failed to load guide application", zap.Error(err), zap.String("guide_id", guideID.String()))
	}
	if app != nil {
		if resp.Languages == nil {
			resp.Languages = &app.Languages
		}
		if resp.Experience == nil {
			resp.Experience = &app.Experience
		}
	}

	// Public card: no contact details.
	resp.Email = ""
	resp.Phone = nil

	return &resp, nil
}
