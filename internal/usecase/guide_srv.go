package usecase

import (
	"context"
	"errors"
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

type GuideService interface {
	// Apply submits a tour guide application for a regular user.
	Apply(ctx context.Context, userID uuid.UUID, req *request.ApplyAsGuideRequest) (*response.ApplicationResponse, error)
	ListApplications(ctx context.Context) ([]response.ApplicationResponse, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*response.ApplicationResponse, error)
	// Decide settles a pending application. Approval promotes the
	// applicant to the tourguide role; the decision is terminal.
	Decide(ctx context.Context, applicationID uuid.UUID, approve bool) (*response.ApplicationResponse, error)
}

type guideService struct {
	repo     *repository.Repository
	notifier *notify.Dispatcher
	log      *zap.Logger
}

func NewGuideService(repo *repository.Repository, notifier *notify.Dispatcher, log *zap.Logger) GuideService {
	return &guideService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "guide")),
	}
}

func (s *guideService) Apply(ctx context.Context, userID uuid.UUID, req *request.ApplyAsGuideRequest) (*response.ApplicationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Application validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find applicant", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to submit application")
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", entity.ErrNotFound)
	}
	if user.Role != entity.RoleUser {
		return nil, fmt.Errorf("%w: only regular users may apply", entity.ErrInvalidState)
	}

	application := &entity.TourGuideApplication{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:         userID,
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		Experience:     req.Experience,
		Languages:      req.Languages,
		Certifications: req.Certifications,
		Availability:   req.Availability,
		Status:         entity.ApplicationStatusPending,
	}

	if err := s.repo.Application.Create(ctx, application); err != nil {
		s.log.Error("Failed to create application", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to submit application")
	}

	s.log.Info("Application submitted",
		zap.String("application_id", application.ID.String()),
		zap.String("user_id", userID.String()))

	resp := response.ApplicationToResponse(application)
	return &resp, nil
}

func (s *guideService) ListApplications(ctx context.Context) ([]response.ApplicationResponse, error) {
	applications, err := s.repo.Application.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list applications")
	}

	return response.ApplicationsToResponse(applications), nil
}

func (s *guideService) GetApplication(ctx context.Context, id uuid.UUID) (*response.ApplicationResponse, error) {
	application, err := s.repo.Application.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find application", zap.Error(err), zap.String("application_id", id.String()))
		return nil, fmt.Errorf("failed to find application")
	}
	if application == nil {
		return nil, fmt.Errorf("%w: application", entity.ErrNotFound)
	}

	resp := response.ApplicationToResponse(application)
	return &resp, nil
}

func (s *guideService) Decide(ctx context.Context, applicationID uuid.UUID, approve bool) (*response.ApplicationResponse, error) {
	status := entity.ApplicationStatusRejected
	if approve {
		status = entity.ApplicationStatusApproved
	}

	// The repository settles the status and promotes the applicant in
	// one transaction, so a failed promotion never strands an approved
	// application.
	application, err := s.repo.Application.Decide(ctx, applicationID, status)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidState) {
			return nil, err
		}
		s.log.Error("Failed to decide application", zap.Error(err), zap.String("application_id", applicationID.String()))
		return nil, fmt.Errorf("failed to decide application")
	}

	applicant, err := s.repo.User.FindByID(ctx, application.UserID)
	if err != nil || applicant == nil {
		s.log.Error("Failed to find applicant after decision",
			zap.Error(err), zap.String("user_id", application.UserID.String()))
		return nil, fmt.Errorf("failed to decide application")
	}

	s.log.Info("Application decided",
		zap.String("application_id", applicationID.String()),
		zap.String("status", string(status)))

	go s.notifier.ApplicationDecided(applicant, approve)

	resp := response.ApplicationToResponse(application)
	return &resp, nil
}
