package notify

import (
	"errors"
	"testing"

	"paradise-tours/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(to, subject, _ string) error {
	m.sent = append(m.sent, to+": "+subject)
	return m.err
}

type recordingSMS struct {
	sent []string
}

func (s *recordingSMS) Send(to, body string) error {
	s.sent = append(s.sent, to+": "+body)
	return nil
}

func testUser(phone string) *entity.User {
	u := &entity.User{
		Base:  entity.Base{ID: uuid.New()},
		Name:  "Made Putri",
		Email: "made@example.com",
	}
	if phone != "" {
		u.Phone = &phone
	}
	return u
}

func testBooking(contact string) *entity.Booking {
	b := &entity.Booking{
		Base:        entity.Base{ID: uuid.New()},
		Reference:   "PT-20260828-120000-0001",
		Package:     "Komodo Island Trip",
		TotalAmount: 4500,
	}
	if contact != "" {
		b.ContactNumber = &contact
	}
	return b
}

func TestDispatcherSendsEmailAndSMS(t *testing.T) {
	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	d := NewDispatcher(mailer, sms, zap.NewNop())

	tourist := testUser("081234567890")
	guide := testUser("")
	booking := testBooking("081234567890")

	d.BookingCreated(tourist, booking)
	d.NewBookingAvailable(guide, booking)
	d.BookingAccepted(tourist, guide, booking)
	d.BookingCompleted(tourist, guide, booking)

	// Tourist email for each lifecycle event, the guide's availability
	// alert and the guide's completion email.
	assert.Len(t, mailer.sent, 5)
	// Created and accepted each text the booking's contact number.
	assert.Len(t, sms.sent, 2)
}

func TestDispatcherSkipsMissingPhone(t *testing.T) {
	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	d := NewDispatcher(mailer, sms, zap.NewNop())

	d.BookingCreated(testUser(""), testBooking(""))

	assert.Len(t, mailer.sent, 1)
	assert.Empty(t, sms.sent)
}

// A broken mail gateway must never surface to the caller.
func TestDispatcherSwallowsDeliveryFailures(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp: connection refused")}
	d := NewDispatcher(mailer, &recordingSMS{}, zap.NewNop())

	assert.NotPanics(t, func() {
		d.BookingCreated(testUser("081234567890"), testBooking("081234567890"))
		d.VerificationOTP("made@example.com", "123456", 10)
		d.ApplicationDecided(testUser(""), true)
		d.AccountSuspended(testUser(""), "spam")
	})
}
