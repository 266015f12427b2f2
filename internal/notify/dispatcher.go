package notify

import (
	"fmt"

	"paradise-tours/internal/data/entity"

	"go.uber.org/zap"
)

// Dispatcher fans booking lifecycle events out to email and SMS.
// Delivery failures are logged and never surfaced to the caller, so a
// broken mail gateway cannot fail a booking operation.
type Dispatcher struct {
	mailer Mailer
	sms    SMSSender
	log    *zap.Logger
}

func NewDispatcher(mailer Mailer, sms SMSSender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer: mailer,
		sms:    sms,
		log:    log.With(zap.String("service", "notify")),
	}
}

func (d *Dispatcher) email(to, subject, body string) {
	if err := d.mailer.Send(to, subject, body); err != nil {
		d.log.Warn("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
	}
}

func (d *Dispatcher) text(to *string, body string) {
	if to == nil || *to == "" {
		return
	}
	if err := d.sms.Send(*to, body); err != nil {
		d.log.Warn("Failed to send SMS", zap.Error(err), zap.String("to", *to))
	}
}

func (d *Dispatcher) VerificationOTP(email, code string, expiryMinutes int) {
	d.email(email, "Verify your email",
		fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, expiryMinutes))
}

func (d *Dispatcher) PasswordResetOTP(email, code string, expiryMinutes int) {
	d.email(email, "Reset your password",
		fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, expiryMinutes))
}

func (d *Dispatcher) BookingCreated(tourist *entity.User, booking *entity.Booking) {
	d.email(tourist.Email, "Booking received",
		fmt.Sprintf("Your booking %s for %s is pending. A tour guide will pick it up shortly.",
			booking.Reference, booking.Package))
	d.text(booking.ContactNumber,
		fmt.Sprintf("Booking %s received and pending assignment.", booking.Reference))
}

func (d *Dispatcher) NewBookingAvailable(guide *entity.User, booking *entity.Booking) {
	d.email(guide.Email, "New booking available",
		fmt.Sprintf("A new booking %s for %s is waiting for a guide. First to accept gets the trip.",
			booking.Reference, booking.Package))
}

func (d *Dispatcher) BookingAccepted(tourist *entity.User, guide *entity.User, booking *entity.Booking) {
	d.email(tourist.Email, "Booking accepted",
		fmt.Sprintf("Your booking %s has been accepted by %s. You can now chat with your guide.",
			booking.Reference, guide.Name))
	d.text(booking.ContactNumber,
		fmt.Sprintf("Booking %s accepted by %s.", booking.Reference, guide.Name))
}

func (d *Dispatcher) BookingRejected(tourist *entity.User, booking *entity.Booking) {
	d.email(tourist.Email, "Booking rejected",
		fmt.Sprintf("Your booking %s was rejected. You may submit a new booking at any time.",
			booking.Reference))
}

func (d *Dispatcher) BookingDeclined(tourist *entity.User, booking *entity.Booking) {
	d.email(tourist.Email, "Booking declined",
		fmt.Sprintf("Booking %s was declined. You may submit a new booking at any time.",
			booking.Reference))
}

func (d *Dispatcher) BookingCompleted(tourist *entity.User, guide *entity.User, booking *entity.Booking) {
	d.email(tourist.Email, "Trip completed",
		fmt.Sprintf("Booking %s is complete. We hope you enjoyed your trip with %s. You can now rate your guide.",
			booking.Reference, guide.Name))
	d.email(guide.Email, "Trip completed",
		fmt.Sprintf("Booking %s is complete. Your commission is %.2f.",
			booking.Reference, booking.Commission))
}

func (d *Dispatcher) RatingReceived(guide *entity.User, booking *entity.Booking, rating int) {
	d.email(guide.Email, "New rating",
		fmt.Sprintf("You received a %d-star rating for booking %s.", rating, booking.Reference))
}

func (d *Dispatcher) TipReceived(guide *entity.User, booking *entity.Booking, amount float64) {
	d.email(guide.Email, "You received a tip",
		fmt.Sprintf("A tip of %.2f was added on booking %s.", amount, booking.Reference))
}

func (d *Dispatcher) ApplicationDecided(applicant *entity.User, approved bool) {
	if approved {
		d.email(applicant.Email, "Tour guide application approved",
			"Congratulations! Your application was approved. You can now accept bookings as a tour guide.")
		return
	}
	d.email(applicant.Email, "Tour guide application rejected",
		"Unfortunately your tour guide application was not approved this time.")
}

func (d *Dispatcher) AccountSuspended(user *entity.User, reason string) {
	d.email(user.Email, "Account suspended",
		fmt.Sprintf("Your account has been suspended. Reason: %s", reason))
}

func (d *Dispatcher) AccountReinstated(user *entity.User) {
	d.email(user.Email, "Account reinstated", "Your account has been reinstated. Welcome back.")
}
