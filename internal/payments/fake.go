package payments

import (
	"context"
	"fmt"
	"sync"
)

// FakeProvider is an in-memory Provider for tests and local development
// without Stripe credentials.
type FakeProvider struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*Session

	// MarkPaid makes newly created sessions come back already settled.
	MarkPaid bool
}

// NewFakeProvider returns an empty fake.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{sessions: make(map[string]*Session)}
}

// CreateSession records a session and returns it in the open state.
func (p *FakeProvider) CreateSession(_ context.Context, in CheckoutInput) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	s := &Session{
		ID:            fmt.Sprintf("cs_test_%d", p.seq),
		Status:        StatusOpen,
		PaymentStatus: PaymentUnpaid,
		ClientSecret:  fmt.Sprintf("cs_test_%d_secret", p.seq),
		Metadata: map[string]string{
			"offer_id":   in.OfferID,
			"student_id": in.StudentID,
			"date":       in.Date,
			"timeslot":   in.Timeslot,
		},
	}
	if p.MarkPaid {
		s.Status = StatusComplete
		s.PaymentStatus = PaymentPaid
	}
	p.sessions[s.ID] = s
	return s, nil
}

// GetSession returns a previously created session.
func (p *FakeProvider) GetSession(_ context.Context, id string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok {
		return nil, fmt.Errorf("fake checkout session %q not found", id)
	}
	return s, nil
}

// Complete flips an open session to paid, simulating the customer finishing
// checkout.
func (p *FakeProvider) Complete(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[id]; ok {
		s.Status = StatusComplete
		s.PaymentStatus = PaymentPaid
	}
}
