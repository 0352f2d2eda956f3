package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
)

// Charge statuses.
const (
	StatusSucceeded = "succeeded"
	StatusDeclined  = "declined"
)

// DeclinedPrefix marks test cards the mock provider always declines.
const DeclinedPrefix = "0000"

// ChargeInput holds the parameters for charging a basket.
type ChargeInput struct {
	UserID string
	Card   domain.PaymentToken
	Amount int64
}

// ChargeResult holds the outcome of a charge.
type ChargeResult struct {
	ProviderPaymentID string
	Status            string
	FailureReason     string
}

// Succeeded reports whether the charge went through.
func (r *ChargeResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Provider charges payment cards.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Charge attempts the charge. A declined card is a result, not an error;
	// errors mean the provider could not be reached.
	Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error)
}

// MockProvider approves every card except those starting with
// DeclinedPrefix.
type MockProvider struct {
	delay time.Duration
}

// NewMockProvider creates a mock provider that takes delay per charge.
func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{delay: delay}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Charge simulates a card charge.
func (p *MockProvider) Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error) {
	if p.delay > 0 {
		t := time.NewTimer(p.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	if input.Card.HasPrefix(DeclinedPrefix) {
		return &ChargeResult{
			ProviderPaymentID: "mock_pay_" + uuid.NewString(),
			Status:            StatusDeclined,
			FailureReason:     "card declined",
		}, nil
	}

	return &ChargeResult{
		ProviderPaymentID: "mock_pay_" + uuid.NewString(),
		Status:            StatusSucceeded,
	}, nil
}
