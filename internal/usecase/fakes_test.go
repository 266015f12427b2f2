package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/data/repository"
	"paradise-tours/internal/notify"
	"paradise-tours/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// store is a mutex-guarded in-memory backend shared by the fake
// repositories. The booking fakes honor the same compare-and-swap
// contracts as the SQL implementations so the services can be tested
// for races without a database.
type store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*entity.User
	bookings     map[uuid.UUID]*entity.Booking
	messages     []*entity.Message
	applications map[uuid.UUID]*entity.TourGuideApplication
	destinations map[uuid.UUID]*entity.Destination
	sessions     map[string]*entity.Session
	otps         []*entity.OTP
}

func newStore() *store {
	return &store{
		users:        make(map[uuid.UUID]*entity.User),
		bookings:     make(map[uuid.UUID]*entity.Booking),
		applications: make(map[uuid.UUID]*entity.TourGuideApplication),
		destinations: make(map[uuid.UUID]*entity.Destination),
		sessions:     make(map[string]*entity.Session),
	}
}

func (st *store) repo() *repository.Repository {
	return &repository.Repository{
		User:        &fakeUserRepo{st},
		Session:     &fakeSessionRepo{st},
		OTP:         &fakeOTPRepo{st},
		Booking:     &fakeBookingRepo{st},
		Message:     &fakeMessageRepo{st},
		Application: &fakeApplicationRepo{st},
		Destination: &fakeDestinationRepo{st},
	}
}

func (st *store) addUser(u *entity.User) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.users[u.ID] = u
}

func (st *store) addBooking(b *entity.Booking) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.bookings[b.ID] = b
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyBooking(b *entity.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// ==================== TEST WIRING ====================

type nopMailer struct{}

func (nopMailer) Send(_, _, _ string) error { return nil }

type nopSMS struct{}

func (nopSMS) Send(_, _ string) error { return nil }

func testNotifier() *notify.Dispatcher {
	return notify.NewDispatcher(nopMailer{}, nopSMS{}, zap.NewNop())
}

func testConfig() *utils.Config {
	return &utils.Config{
		OTP:     utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Booking: utils.BookingConfig{CommissionRate: 0.15, SessionHours: 24},
	}
}

func seedUser(st *store, role entity.UserRole) *entity.User {
	phone := "081234567890"
	u := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:          "Test " + string(role),
		Email:         uuid.NewString() + "@example.com",
		PasswordHash:  "x",
		Phone:         &phone,
		Role:          role,
		EmailVerified: true,
	}
	st.addUser(u)
	return u
}

func seedBooking(st *store, touristID uuid.UUID, status entity.BookingStatus, total float64) *entity.Booking {
	contact := "081234567890"
	b := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Reference:     utils.GenerateReference(),
		UserID:        touristID,
		Package:       "Mount Bromo Sunrise",
		Checkin:       time.Now().Add(48 * time.Hour),
		Checkout:      time.Now().Add(96 * time.Hour),
		Guests:        2,
		TotalAmount:   total,
		Status:        status,
		ContactNumber: &contact,
	}
	st.addBooking(b)
	return b
}

// seedAssigned wires a booking and a guide into the assigned state the
// way AssignGuide leaves them.
func seedAssigned(st *store, touristID uuid.UUID, guide *entity.User, total float64) *entity.Booking {
	b := seedBooking(st, touristID, entity.BookingStatusActive, total)
	st.mu.Lock()
	gid := guide.ID
	st.bookings[b.ID].AssignedGuideID = &gid
	bid := b.ID
	st.users[guide.ID].ActiveBookingID = &bid
	b.AssignedGuideID = &gid
	guide.ActiveBookingID = &bid
	st.mu.Unlock()
	return b
}

// ==================== USER ====================

type fakeUserRepo struct{ st *store }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return copyUser(r.st.users[id]), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	users := make([]*entity.User, 0, len(r.st.users))
	for _, u := range r.st.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) FindAvailableGuides(_ context.Context) ([]*entity.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var guides []*entity.User
	for _, u := range r.st.users {
		if u.Role == entity.RoleTourGuide && u.ActiveBookingID == nil && !u.Suspended {
			guides = append(guides, copyUser(u))
		}
	}
	return guides, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.users[user.ID]; !ok {
		return entity.ErrNotFound
	}
	r.st.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role entity.UserRole) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var count int64
	for _, u := range r.st.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

// ==================== SESSION ====================

type fakeSessionRepo struct{ st *store }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c := *session
	r.st.sessions[session.Token.String()] = &c
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sessions[token]
	if !ok || s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if s, ok := r.st.sessions[token]; ok && s.RevokedAt == nil {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

// ==================== OTP ====================

type fakeOTPRepo struct{ st *store }

func (r *fakeOTPRepo) Create(_ context.Context, otp *entity.OTP) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c := *otp
	r.st.otps = append(r.st.otps, &c)
	return nil
}

func (r *fakeOTPRepo) FindValidOTP(_ context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for i := len(r.st.otps) - 1; i >= 0; i-- {
		o := r.st.otps[i]
		if o.Email == email && o.OTPCode == code && o.OTPType == otpType &&
			!o.IsUsed && time.Now().Before(o.ExpiresAt) {
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeOTPRepo) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, o := range r.st.otps {
		if o.ID == id {
			o.IsUsed = true
		}
	}
	return nil
}

// ==================== BOOKING ====================

type fakeBookingRepo struct{ st *store }

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return copyBooking(r.st.bookings[id]), nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.st.bookings {
		if b.UserID == userID {
			bookings = append(bookings, copyBooking(b))
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) FindByGuideID(_ context.Context, guideID uuid.UUID) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.st.bookings {
		if b.AssignedGuideID != nil && *b.AssignedGuideID == guideID {
			bookings = append(bookings, copyBooking(b))
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) FindPending(_ context.Context) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.st.bookings {
		if b.Status == entity.BookingStatusPending && b.AssignedGuideID == nil {
			bookings = append(bookings, copyBooking(b))
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	bookings := make([]*entity.Booking, 0, len(r.st.bookings))
	for _, b := range r.st.bookings {
		bookings = append(bookings, copyBooking(b))
	}
	return bookings, nil
}

func (r *fakeBookingRepo) FindByStatus(_ context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.st.bookings {
		if b.Status == status {
			bookings = append(bookings, copyBooking(b))
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) AssignGuide(_ context.Context, bookingID, guideID uuid.UUID) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if b.Status != entity.BookingStatusPending || b.AssignedGuideID != nil {
		return nil, entity.ErrInvalidState
	}

	guide, ok := r.st.users[guideID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if guide.ActiveBookingID != nil {
		return nil, entity.ErrConflict
	}

	gid := guideID
	b.Status = entity.BookingStatusActive
	b.AssignedGuideID = &gid
	b.UpdatedAt = time.Now()

	bid := bookingID
	guide.ActiveBookingID = &bid

	return copyBooking(b), nil
}

func (r *fakeBookingRepo) UpdateStatusFrom(_ context.Context, bookingID uuid.UUID, from, to entity.BookingStatus) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if b.Status != from {
		return nil, entity.ErrInvalidState
	}

	b.Status = to
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) CompleteAssigned(_ context.Context, bookingID, guideID uuid.UUID, commission float64) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if b.AssignedGuideID == nil || *b.AssignedGuideID != guideID {
		return nil, entity.ErrForbidden
	}
	if b.Status != entity.BookingStatusActive {
		return nil, entity.ErrInvalidState
	}

	b.Status = entity.BookingStatusCompleted
	b.Commission = commission
	b.UpdatedAt = time.Now()

	if guide, ok := r.st.users[guideID]; ok && guide.ActiveBookingID != nil && *guide.ActiveBookingID == bookingID {
		guide.ActiveBookingID = nil
	}

	return copyBooking(b), nil
}

func (r *fakeBookingRepo) SetRating(_ context.Context, bookingID uuid.UUID, rating int, comment *string) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if b.Status != entity.BookingStatusCompleted {
		return nil, entity.ErrInvalidState
	}
	if b.Rating != nil {
		return nil, entity.ErrAlreadyRated
	}

	b.Rating = &rating
	b.RatingComment = comment
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) AddTip(_ context.Context, bookingID uuid.UUID, amount float64) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	b, ok := r.st.bookings[bookingID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if b.Status != entity.BookingStatusCompleted {
		return nil, entity.ErrInvalidState
	}

	b.Tip += amount
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) Count(_ context.Context) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return int64(len(r.st.bookings)), nil
}

func (r *fakeBookingRepo) AverageRating(_ context.Context) (float64, int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var sum float64
	var count int64
	for _, b := range r.st.bookings {
		if b.Rating != nil {
			sum += float64(*b.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

// ==================== MESSAGE ====================

type fakeMessageRepo struct{ st *store }

func (r *fakeMessageRepo) Create(_ context.Context, message *entity.Message) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c := *message
	r.st.messages = append(r.st.messages, &c)
	return nil
}

func (r *fakeMessageRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID, limit int) ([]*entity.Message, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var messages []*entity.Message
	for _, m := range r.st.messages {
		if m.BookingID == bookingID {
			c := *m
			messages = append(messages, &c)
		}
		if limit > 0 && len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (r *fakeMessageRepo) FindLastByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Message, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for i := len(r.st.messages) - 1; i >= 0; i-- {
		if r.st.messages[i].BookingID == bookingID {
			c := *r.st.messages[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, bookingID, readerID uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, m := range r.st.messages {
		if m.BookingID == bookingID && m.SenderID != readerID {
			m.Read = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) CountByBookingID(_ context.Context, bookingID uuid.UUID) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var count int64
	for _, m := range r.st.messages {
		if m.BookingID == bookingID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, bookingIDs []uuid.UUID, readerID uuid.UUID) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	ids := make(map[uuid.UUID]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		ids[id] = true
	}
	var count int64
	for _, m := range r.st.messages {
		if ids[m.BookingID] && m.SenderID != readerID && !m.Read {
			count++
		}
	}
	return count, nil
}

// ==================== APPLICATION ====================

type fakeApplicationRepo struct{ st *store }

func (r *fakeApplicationRepo) Create(_ context.Context, application *entity.TourGuideApplication) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c := *application
	r.st.applications[application.ID] = &c
	return nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TourGuideApplication, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.applications[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *fakeApplicationRepo) FindAll(_ context.Context) ([]*entity.TourGuideApplication, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	apps := make([]*entity.TourGuideApplication, 0, len(r.st.applications))
	for _, a := range r.st.applications {
		c := *a
		apps = append(apps, &c)
	}
	return apps, nil
}

func (r *fakeApplicationRepo) FindApprovedByUserID(_ context.Context, userID uuid.UUID) (*entity.TourGuideApplication, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, a := range r.st.applications {
		if a.UserID == userID && a.Status == entity.ApplicationStatusApproved {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeApplicationRepo) Decide(_ context.Context, id uuid.UUID, status entity.ApplicationStatus) (*entity.TourGuideApplication, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.applications[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if a.Status != entity.ApplicationStatusPending {
		return nil, entity.ErrInvalidState
	}
	a.Status = status

	// Promotion rides in the same step, like the SQL transaction.
	if status == entity.ApplicationStatusApproved {
		if u, ok := r.st.users[a.UserID]; ok {
			u.Role = entity.RoleTourGuide
			if u.Languages == nil {
				languages := a.Languages
				u.Languages = &languages
			}
			if u.Experience == nil {
				experience := a.Experience
				u.Experience = &experience
			}
			u.UpdatedAt = time.Now()
		}
	}

	c := *a
	return &c, nil
}

func (r *fakeApplicationRepo) CountByStatus(_ context.Context, status entity.ApplicationStatus) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var count int64
	for _, a := range r.st.applications {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

// ==================== DESTINATION ====================

type fakeDestinationRepo struct{ st *store }

func (r *fakeDestinationRepo) Create(_ context.Context, destination *entity.Destination) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c := *destination
	r.st.destinations[destination.ID] = &c
	return nil
}

func (r *fakeDestinationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Destination, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	d, ok := r.st.destinations[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *fakeDestinationRepo) FindAllActive(_ context.Context) ([]*entity.Destination, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var destinations []*entity.Destination
	for _, d := range r.st.destinations {
		if d.IsActive {
			c := *d
			destinations = append(destinations, &c)
		}
	}
	return destinations, nil
}

func (r *fakeDestinationRepo) FindAll(_ context.Context) ([]*entity.Destination, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	destinations := make([]*entity.Destination, 0, len(r.st.destinations))
	for _, d := range r.st.destinations {
		c := *d
		destinations = append(destinations, &c)
	}
	return destinations, nil
}

func (r *fakeDestinationRepo) Update(_ context.Context, destination *entity.Destination) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.destinations[destination.ID]; !ok {
		return entity.ErrNotFound
	}
	c := *destination
	r.st.destinations[destination.ID] = &c
	return nil
}

func (r *fakeDestinationRepo) Count(_ context.Context) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return int64(len(r.st.destinations)), nil
}
