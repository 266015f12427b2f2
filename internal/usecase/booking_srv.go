package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
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

type BookingService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	// Get enforces participant access: the owning tourist, the assigned
	// guide, or an admin.
	Get(ctx context.Context, actorID uuid.UUID, role entity.UserRole, bookingID uuid.UUID) (*response.BookingResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error)
	ListPending(ctx context.Context) ([]response.BookingResponse, error)
	ListAll(ctx context.Context) ([]response.BookingResponse, error)
	GuideDashboard(ctx context.Context, guideID uuid.UUID) (*response.GuideDashboardResponse, error)

	// Accept claims a pending booking for a guide. At most one guide wins;
	// the rest get entity.ErrInvalidState. A guide already holding a
	// booking gets entity.ErrConflict.
	Accept(ctx context.Context, guideID, bookingID uuid.UUID) (*response.BookingResponse, error)
	// Reject and Decline both move a pending booking to a terminal
	// status without any assignment change.
	Reject(ctx context.Context, bookingID uuid.UUID) (*response.BookingResponse, error)
	Decline(ctx context.Context, bookingID uuid.UUID) (*response.BookingResponse, error)
	// Complete finishes the guide's active trip and records the commission.
	Complete(ctx context.Context, guideID, bookingID uuid.UUID) (*response.BookingResponse, error)

	// Rate records the tourist's one-time rating on a completed trip.
	Rate(ctx context.Context, userID, bookingID uuid.UUID, req *request.RateBookingRequest) (*response.BookingResponse, error)
	// Tip adds a tip to a completed trip; tips accumulate.
	Tip(ctx context.Context, userID, bookingID uuid.UUID, req *request.TipRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	config   *utils.Config
	notifier *notify.Dispatcher
	log      *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	config *utils.Config,
	notifier *notify.Dispatcher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		config:   config,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:       utils.GenerateReference(),
		UserID:          userID,
		Package:         req.Package,
		Checkin:         req.Checkin,
		Checkout:        req.Checkout,
		Guests:          req.Guests,
		TotalAmount:     req.TotalAmount,
		Status:          entity.BookingStatusPending,
		ContactNumber:   req.ContactNumber,
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create booking")
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("user_id", userID.String()))

	go s.notifyCreated(userID, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Get(ctx context.Context, actorID uuid.UUID, role entity.UserRole, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if role != entity.RoleAdmin && !booking.IsParticipant(actorID) {
		return nil, fmt.Errorf("%w: not a participant", entity.ErrForbidden)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list bookings")
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) ListPending(ctx context.Context) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindPending(ctx)
	if err != nil {
		s.log.Error("Failed to list pending bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending bookings")
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list all bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings")
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) GuideDashboard(ctx context.Context, guideID uuid.UUID) (*response.GuideDashboardResponse, error) {
	guide, err := s.repo.User.FindByID(ctx, guideID)
	if err != nil {
		s.log.Error("Failed to find guide", zap.Error(err), zap.String("guide_id", guideID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}
	if guide == nil || guide.Role != entity.RoleTourGuide {
		return nil, fmt.Errorf("%w: guide", entity.ErrNotFound)
	}

	mine, err := s.repo.Booking.FindByGuideID(ctx, guideID)
	if err != nil {
		s.log.Error("Failed to load guide bookings", zap.Error(err), zap.String("guide_id", guideID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	dashboard := &response.GuideDashboardResponse{
		PendingBookings: []response.BookingResponse{},
	}

	var ratingSum, earned float64
	var rated int64
	for _, b := range mine {
		switch {
		case b.Status.Assigned():
			resp := response.BookingToResponse(b)
			dashboard.ActiveBooking = &resp
		case b.Status == entity.BookingStatusCompleted:
			dashboard.CompletedTrips++
			earned += b.Commission + b.Tip
			if b.Rating != nil {
				ratingSum += float64(*b.Rating)
				rated++
			}
		}
	}
	dashboard.TotalEarnings = earned
	if rated > 0 {
		avg := ratingSum / float64(rated)
		dashboard.AverageRating = &avg
	}

	// The pending pool is only offered to a free guide.
	if guide.ActiveBookingID == nil {
		pending, err := s.repo.Booking.FindPending(ctx)
		if err != nil {
			s.log.Error("Failed to load pending pool", zap.Error(err))
			return nil, fmt.Errorf("failed to load dashboard")
		}
		dashboard.PendingBookings = response.BookingsToResponse(pending)
	}

	return dashboard, nil
}

func (s *bookingService) Accept(ctx context.Context, guideID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	guide, err := s.repo.User.FindByID(ctx, guideID)
	if err != nil {
		s.log.Error("Failed to find guide", zap.Error(err), zap.String("guide_id", guideID.String()))
		return nil, fmt.Errorf("failed to accept booking")
	}
	if guide == nil || guide.Role != entity.RoleTourGuide {
		return nil, fmt.Errorf("%w: only tour guides accept bookings", entity.ErrForbidden)
	}

	booking, err := s.repo.Booking.AssignGuide(ctx, bookingID, guideID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidState) || errors.Is(err, entity.ErrConflict) {
			return nil, err
		}
		s.log.Error("Failed to assign booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("guide_id", guideID.String()))
		return nil, fmt.Errorf("failed to accept booking")
	}

	s.log.Info("Booking accepted",
		zap.String("booking_id", bookingID.String()),
		zap.String("guide_id", guideID.String()))

	go s.notifyAccepted(booking.UserID, guide, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Reject(ctx context.Context, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.UpdateStatusFrom(ctx, bookingID, entity.BookingStatusPending, entity.BookingStatusRejected)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidState) {
			return nil, err
		}
		s.log.Error("Failed to reject booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to reject booking")
	}

	s.log.Info("Booking rejected", zap.String("booking_id", bookingID.String()))

	go s.notifyTerminal(booking.UserID, booking, s.notifier.BookingRejected)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Decline(ctx context.Context, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.UpdateStatusFrom(ctx, bookingID, entity.BookingStatusPending, entity.BookingStatusDeclined)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidState) {
			return nil, err
		}
		s.log.Error("Failed to decline booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to decline booking")
	}

	s.log.Info("Booking declined", zap.String("booking_id", bookingID.String()))

	go s.notifyTerminal(booking.UserID, booking, s.notifier.BookingDeclined)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Complete(ctx context.Context, guideID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	commission := s.commissionFor(booking.TotalAmount)

	booking, err = s.repo.Booking.CompleteAssigned(ctx, bookingID, guideID, commission)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrForbidden) || errors.Is(err, entity.ErrInvalidState) {
			return nil, err
		}
		s.log.Error("Failed to complete booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("guide_id", guideID.String()))
		return nil, fmt.Errorf("failed to complete booking")
	}

	s.log.Info("Booking completed",
		zap.String("booking_id", bookingID.String()),
		zap.String("guide_id", guideID.String()),
		zap.Float64("commission", commission))

	go s.notifyCompleted(booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Rate(ctx context.Context, userID, bookingID uuid.UUID, req *request.RateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Rate validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("%w: only the booking owner may rate", entity.ErrForbidden)
	}

	booking, err = s.repo.Booking.SetRating(ctx, bookingID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrAlreadyRated) || errors.Is(err, entity.ErrInvalidState) {
			return nil, err
		}
		s.log.Error("Failed to rate booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to rate booking")
	}

	s.log.Info("Booking rated",
		zap.String("booking_id", bookingID.String()),
		zap.Int("rating", req.Rating))

	go s.notifyRated(booking, req.Rating)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Tip(ctx context.Context, userID, bookingID uuid.UUID, req *request.TipRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Tip validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: tip must be positive", entity.ErrInvalidAmount)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("%w: only the booking owner may tip", entity.ErrForbidden)
	}

	booking, err = s.repo.Booking.AddTip(ctx, bookingID, req.Amount)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidState) {
			return nil, err
		}
		s.log.Error("Failed to add tip", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to add tip")
	}

	s.log.Info("Tip added",
		zap.String("booking_id", bookingID.String()),
		zap.Float64("amount", req.Amount))

	go s.notifyTipped(booking, req.Amount)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) commissionFor(total float64) float64 {
	rate := s.config.Booking.CommissionRate
	if rate <= 0 {
		rate = 0.15
	}
	return math.Round(total * rate)
}

func (s *bookingService) findBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to find booking")
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking", entity.ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) notifyCreated(userID uuid.UUID, booking *entity.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tourist, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || tourist == nil {
		s.log.Warn("Failed to load tourist for notification", zap.Error(err))
		return
	}

	s.notifier.BookingCreated(tourist, booking)

	// Fan out to every guide who could take the trip.
	guides, err := s.repo.User.FindAvailableGuides(ctx)
	if err != nil {
		s.log.Warn("Failed to load available guides for notification", zap.Error(err))
		return
	}
	for _, guide := range guides {
		s.notifier.NewBookingAvailable(guide, booking)
	}
}

func (s *bookingService) notifyAccepted(userID uuid.UUID, guide *entity.User, booking *entity.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tourist, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || tourist == nil {
		s.log.Warn("Failed to load tourist for notification", zap.Error(err))
		return
	}

	s.notifier.BookingAccepted(tourist, guide, booking)
}

func (s *bookingService) notifyTerminal(userID uuid.UUID, booking *entity.Booking, send func(*entity.User, *entity.Booking)) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tourist, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || tourist == nil {
		s.log.Warn("Failed to load tourist for notification", zap.Error(err))
		return
	}

	send(tourist, booking)
}

func (s *bookingService) notifyCompleted(booking *entity.Booking) {
	if booking.AssignedGuideID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tourist, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil || tourist == nil {
		s.log.Warn("Failed to load tourist for notification", zap.Error(err))
		return
	}
	guide, err := s.repo.User.FindByID(ctx, *booking.AssignedGuideID)
	if err != nil || guide == nil {
		s.log.Warn("Failed to load guide for notification", zap.Error(err))
		return
	}

	s.notifier.BookingCompleted(tourist, guide, booking)
}

func (s *bookingService) notifyRated(booking *entity.Booking, rating int) {
	if booking.AssignedGuideID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	guide, err := s.repo.User.FindByID(ctx, *booking.AssignedGuideID)
	if err != nil || guide == nil {
		s.log.Warn("Failed to load guide for notification", zap.Error(err))
		return
	}

	s.notifier.RatingReceived(guide, booking, rating)
}

func (s *bookingService) notifyTipped(booking *entity.Booking, amount float64) {
	if booking.AssignedGuideID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	guide, err := s.repo.User.FindByID(ctx, *booking.AssignedGuideID)
	if err != nil || guide == nil {
		s.log.Warn("Failed to load guide for notification", zap.Error(err))
		return
	}

	s.notifier.TipReceived(guide, booking, amount)
}
