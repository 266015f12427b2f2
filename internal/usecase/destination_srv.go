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

type DestinationService interface {
	// List returns active destinations for the public catalog.
	List(ctx context.Context) ([]response.DestinationResponse, error)
	ListAll(ctx context.Context) ([]response.DestinationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*response.DestinationResponse, error)
	Create(ctx context.Context, req *request.CreateDestinationRequest) (*response.DestinationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *request.UpdateDestinationRequest) (*response.DestinationResponse, error)
}

type destinationService struct {
	destinationRepo repository.DestinationRepository
	log             *zap.Logger
}

func NewDestinationService(destinationRepo repository.DestinationRepository, log *zap.Logger) DestinationService {
	return &destinationService{
		destinationRepo: destinationRepo,
		log:             log.With(zap.String("service", "destination")),
	}
}

func (s *destinationService) List(ctx context.Context) ([]response.DestinationResponse, error) {
	destinations, err := s.destinationRepo.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to list destinations", zap.Error(err))
		return nil, fmt.Errorf("failed to list destinations")
	}

	return response.DestinationsToResponse(destinations), nil
}

func (s *destinationService) ListAll(ctx context.Context) ([]response.DestinationResponse, error) {
	destinations, err := s.destinationRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list all destinations", zap.Error(err))
		return nil, fmt.Errorf("failed to list destinations")
	}

	return response.DestinationsToResponse(destinations), nil
}

func (s *destinationService) Get(ctx context.Context, id uuid.UUID) (*response.DestinationResponse, error) {
	destination, err := s.destinationRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find destination", zap.Error(err), zap.String("destination_id", id.String()))
		return nil, fmt.Errorf("failed to find destination")
	}
	if destination == nil {
		return nil, fmt.Errorf("%w: destination", entity.ErrNotFound)
	}

	resp := response.DestinationToResponse(destination)
	return &resp, nil
}

func (s *destinationService) Create(ctx context.Context, req *request.CreateDestinationRequest) (*response.DestinationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create destination validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	destination := &entity.Destination{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		BasePrice:   req.BasePrice,
		IsActive:    true,
	}

	if err := s.destinationRepo.Create(ctx, destination); err != nil {
		s.log.Error("Failed to create destination", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create destination")
	}

	s.log.Info("Destination created",
		zap.String("destination_id", destination.ID.String()),
		zap.String("name", destination.Name))

	resp := response.DestinationToResponse(destination)
	return &resp, nil
}

func (s *destinationService) Update(ctx context.Context, id uuid.UUID, req *request.UpdateDestinationRequest) (*response.DestinationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update destination validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	destination, err := s.destinationRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find destination", zap.Error(err), zap.String("destination_id", id.String()))
		return nil, fmt.Errorf("failed to find destination")
	}
	if destination == nil {
		return nil, fmt.Errorf("%w: destination", entity.ErrNotFound)
	}

	if req.Name != nil {
		destination.Name = *req.Name
	}
	if req.Description != nil {
		destination.Description = *req.Description
	}
	if req.Location != nil {
		destination.Location = *req.Location
	}
	if req.ImageURL != nil {
		destination.ImageURL = req.ImageURL
	}
	if req.BasePrice != nil {
		destination.BasePrice = *req.BasePrice
	}
	if req.IsActive != nil {
		destination.IsActive = *req.IsActive
	}
	destination.UpdatedAt = time.Now()

	if err := s.destinationRepo.Update(ctx, destination); err != nil {
		s.log.Error("Failed to update destination", zap.Error(err), zap.String("destination_id", id.String()))
		return nil, fmt.Errorf("failed to update destination")
	}

	s.log.Info("Destination updated", zap.String("destination_id", id.String()))

	resp := response.DestinationToResponse(destination)
	return &resp, nil
}
