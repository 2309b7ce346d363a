package payments

import (
	"context"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProvider drives Stripe embedded-mode checkout sessions.
type StripeProvider struct {
	api       *client.API
	returnURL string
	currency  string
}

// NewStripeProvider builds a provider bound to the given secret key. The
// return URL receives {CHECKOUT_SESSION_ID} substitution on redirect.
func NewStripeProvider(secretKey, returnURL, currency string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, returnURL: returnURL, currency: currency}
}

// CreateSession opens an embedded checkout session for a single lesson.
func (p *StripeProvider) CreateSession(ctx context.Context, in CheckoutInput) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		UIMode:    stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		ReturnURL: stripe.String(p.returnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.currency),
				UnitAmount: stripe.Int64(int64(math.Round(in.Amount * 100))),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(in.Description),
				},
			},
		}},
	}
	params.Context = ctx
	params.AddMetadata("offer_id", in.OfferID)
	params.AddMetadata("student_id", in.StudentID)
	params.AddMetadata("date", in.Date)
	params.AddMetadata("timeslot", in.Timeslot)

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripe(sess), nil
}

// GetSession retrieves a session by id.
func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripe(sess), nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            s.ID,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		ClientSecret:  s.ClientSecret,
		Metadata:      s.Metadata,
	}
}
