package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingService(st *store) BookingService {
	return NewBookingService(st.repo(), testConfig(), testNotifier(), zap.NewNop())
}

func TestBookingCreate(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)

	resp, err := svc.Create(context.Background(), tourist.ID, &request.CreateBookingRequest{
		Package:     "Komodo Island Trip",
		Checkin:     time.Now().Add(48 * time.Hour),
		Checkout:    time.Now().Add(96 * time.Hour),
		Guests:      4,
		TotalAmount: 4500,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusPending, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Reference, "PT-"))
	assert.Nil(t, resp.AssignedGuideID)
	assert.Equal(t, tourist.ID.String(), resp.UserID)
}

func TestBookingCreateValidation(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)

	// Checkout before checkin.
	_, err := svc.Create(context.Background(), tourist.ID, &request.CreateBookingRequest{
		Package:     "Komodo Island Trip",
		Checkin:     time.Now().Add(96 * time.Hour),
		Checkout:    time.Now().Add(48 * time.Hour),
		Guests:      4,
		TotalAmount: 4500,
	})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestBookingAccept(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	resp, err := svc.Accept(context.Background(), guide.ID, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusActive, resp.Status)
	require.NotNil(t, resp.AssignedGuideID)
	assert.Equal(t, guide.ID.String(), *resp.AssignedGuideID)

	stored, err := st.repo().User.FindByID(context.Background(), guide.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ActiveBookingID)
	assert.Equal(t, booking.ID, *stored.ActiveBookingID)
}

func TestBookingAcceptOnlyGuides(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	booking := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	_, err := svc.Accept(context.Background(), tourist.ID, booking.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestBookingAcceptBusyGuide(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	seedAssigned(st, tourist.ID, guide, 3000)
	second := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	_, err := svc.Accept(context.Background(), guide.ID, second.ID)
	assert.ErrorIs(t, err, entity.ErrConflict)
}

// TestBookingAcceptExactlyOneWinner races several free guides at the
// same pending booking; the assignment must go to exactly one of them.
func TestBookingAcceptExactlyOneWinner(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	booking := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	const guides = 8
	ids := make([]uuid.UUID, guides)
	for i := range ids {
		ids[i] = seedUser(st, entity.RoleTourGuide).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, guides)
	for i := 0; i < guides; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(context.Background(), ids[i], booking.ID)
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, entity.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, won)

	stored, err := st.repo().Booking.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusActive, stored.Status)
	require.NotNil(t, stored.AssignedGuideID)

	winner, err := st.repo().User.FindByID(context.Background(), *stored.AssignedGuideID)
	require.NoError(t, err)
	require.NotNil(t, winner.ActiveBookingID)
	assert.Equal(t, booking.ID, *winner.ActiveBookingID)
}

func TestBookingReject(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	booking := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	resp, err := svc.Reject(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusRejected, resp.Status)

	// Rejection is terminal.
	_, err = svc.Reject(context.Background(), booking.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestBookingDecline(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	booking := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	resp, err := svc.Decline(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusDeclined, resp.Status)
	assert.Nil(t, resp.AssignedGuideID)

	// Declining is terminal.
	_, err = svc.Decline(context.Background(), booking.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestBookingDeclineAcceptedFails(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	_, err := svc.Decline(context.Background(), booking.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestBookingComplete(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	resp, err := svc.Complete(context.Background(), guide.ID, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusCompleted, resp.Status)
	assert.Equal(t, float64(675), resp.Commission) // 15% of 4500

	stored, err := st.repo().User.FindByID(context.Background(), guide.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ActiveBookingID)

	// Completion is terminal.
	_, err = svc.Complete(context.Background(), guide.ID, booking.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestBookingCompletePendingFails(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedBooking(st, tourist.ID, entity.BookingStatusPending, 4500)

	_, err := svc.Complete(context.Background(), guide.ID, booking.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestBookingRate(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	_, err := svc.Complete(context.Background(), guide.ID, booking.ID)
	require.NoError(t, err)

	comment := "Wonderful trip"
	resp, err := svc.Rate(context.Background(), tourist.ID, booking.ID, &request.RateBookingRequest{
		Rating:  5,
		Comment: &comment,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 5, *resp.Rating)

	// One rating per booking.
	_, err = svc.Rate(context.Background(), tourist.ID, booking.ID, &request.RateBookingRequest{Rating: 4})
	assert.ErrorIs(t, err, entity.ErrAlreadyRated)
}

func TestBookingRateOwnerOnly(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	_, err := svc.Complete(context.Background(), guide.ID, booking.ID)
	require.NoError(t, err)

	_, err = svc.Rate(context.Background(), guide.ID, booking.ID, &request.RateBookingRequest{Rating: 5})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestBookingRateBeforeCompletion(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	_, err := svc.Rate(context.Background(), tourist.ID, booking.ID, &request.RateBookingRequest{Rating: 5})
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestBookingTipAccumulates(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	_, err := svc.Complete(context.Background(), guide.ID, booking.ID)
	require.NoError(t, err)

	_, err = svc.Tip(context.Background(), tourist.ID, booking.ID, &request.TipRequest{Amount: 200})
	require.NoError(t, err)
	resp, err := svc.Tip(context.Background(), tourist.ID, booking.ID, &request.TipRequest{Amount: 100})
	require.NoError(t, err)

	assert.Equal(t, float64(300), resp.Tip)
}

func TestBookingTipRules(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	// Not before completion.
	_, err := svc.Tip(context.Background(), tourist.ID, booking.ID, &request.TipRequest{Amount: 50})
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	_, err = svc.Complete(context.Background(), guide.ID, booking.ID)
	require.NoError(t, err)

	// Only the owner tips.
	_, err = svc.Tip(context.Background(), guide.ID, booking.ID, &request.TipRequest{Amount: 50})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	// Negative amounts never reach the repository.
	_, err = svc.Tip(context.Background(), tourist.ID, booking.ID, &request.TipRequest{Amount: -5})
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)
}

func TestBookingGetAccess(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)
	stranger := seedUser(st, entity.RoleUser)
	booking := seedAssigned(st, tourist.ID, guide, 4500)

	_, err := svc.Get(context.Background(), tourist.ID, entity.RoleUser, booking.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), guide.ID, entity.RoleTourGuide, booking.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger.ID, entity.RoleUser, booking.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	// Admins see everything.
	admin := seedUser(st, entity.RoleAdmin)
	_, err = svc.Get(context.Background(), admin.ID, entity.RoleAdmin, booking.ID)
	assert.NoError(t, err)
}

func TestGuideDashboard(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)

	done := seedAssigned(st, tourist.ID, guide, 4500)
	_, err := svc.Complete(context.Background(), guide.ID, done.ID)
	require.NoError(t, err)
	_, err = svc.Tip(context.Background(), tourist.ID, done.ID, &request.TipRequest{Amount: 50})
	require.NoError(t, err)
	_, err = svc.Rate(context.Background(), tourist.ID, done.ID, &request.RateBookingRequest{Rating: 5})
	require.NoError(t, err)

	seedBooking(st, tourist.ID, entity.BookingStatusPending, 2000)

	dashboard, err := svc.GuideDashboard(context.Background(), guide.ID)
	require.NoError(t, err)

	assert.Nil(t, dashboard.ActiveBooking)
	assert.Equal(t, int64(1), dashboard.CompletedTrips)
	assert.Equal(t, float64(725), dashboard.TotalEarnings) // 675 commission + 50 tip
	require.NotNil(t, dashboard.AverageRating)
	assert.Equal(t, float64(5), *dashboard.AverageRating)
	assert.Len(t, dashboard.PendingBookings, 1)
}

func TestGuideDashboardBusyGuideSeesNoPool(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)
	guide := seedUser(st, entity.RoleTourGuide)

	booking := seedAssigned(st, tourist.ID, guide, 4500)
	seedBooking(st, tourist.ID, entity.BookingStatusPending, 2000)

	dashboard, err := svc.GuideDashboard(context.Background(), guide.ID)
	require.NoError(t, err)

	require.NotNil(t, dashboard.ActiveBooking)
	assert.Equal(t, booking.ID.String(), dashboard.ActiveBooking.ID)
	assert.Empty(t, dashboard.PendingBookings)
}

func TestGuideDashboardForGuidesOnly(t *testing.T) {
	st := newStore()
	svc := newBookingService(st)
	tourist := seedUser(st, entity.RoleUser)

	_, err := svc.GuideDashboard(context.Background(), tourist.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
