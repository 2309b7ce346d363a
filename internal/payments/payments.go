// Package payments abstracts the checkout provider behind a small interface
// so services and handlers never touch the Stripe SDK directly and tests can
// substitute a fake.
package payments

import "context"

// Session is the provider-neutral view of a checkout session.
type Session struct {
	ID            string
	Status        string
	PaymentStatus string
	ClientSecret  string
	Metadata      map[string]string
}

// Session status values a provider reports.
const (
	StatusOpen     = "open"
	StatusComplete = "complete"
	StatusExpired  = "expired"

	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

// Paid reports whether the session finished with a settled payment.
func (s *Session) Paid() bool {
	return s.Status == StatusComplete && s.PaymentStatus == PaymentPaid
}

// CheckoutInput describes the purchase a session is opened for. Amount is in
// the currency's major unit; providers convert to minor units themselves.
type CheckoutInput struct {
	OfferID     string
	StudentID   string
	Description string
	Amount      float64
	Date        string
	Timeslot    string
}

// Provider opens and retrieves checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, in CheckoutInput) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
