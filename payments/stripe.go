// Package payments wraps the payment processor behind a small interface so
// handlers stay testable without a live Stripe account.
package payments

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

const Currency = "usd"

// Intent is the subset of a processor payment intent the handlers need.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Status       string
	Succeeded    bool
}

// Processor creates and retrieves payment intents.
type Processor interface {
	CreateIntent(ctx context.Context, amount int64) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// StripeProcessor talks to Stripe with a fixed currency and card-only
// payment method.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}
}

// MinorUnits converts a decimal price into integer minor currency units,
// truncating fractional cents.
func MinorUnits(price float64) int64 {
	return int64(math.Trunc(price * 100))
}

// CreateIntent requests a card-only payment intent for the amount. Each call
// carries a fresh idempotency key so a client retry cannot double-charge.
func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create payment intent")
	}
	return fromStripe(pi), nil
}

// GetIntent retrieves an existing intent so the record step can verify it
// actually succeeded before touching the ledger.
func (p *StripeProcessor) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, errors.Wrap(err, "fail to retrieve payment intent")
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Status:       string(pi.Status),
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}
}
