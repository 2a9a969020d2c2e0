package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/roamstay/server/internal/shared/metrics"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StripeProvider implements Provider against the Stripe API. Every
// outbound call goes through a circuit breaker so a Stripe outage does
// not tie up request handlers in retry loops.
type StripeProvider struct {
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker[any]
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewStripeProvider creates a new Stripe provider. The metrics argument
// may be nil.
func NewStripeProvider(cfg *StripeConfig, m *metrics.Metrics, logger *zap.Logger) *StripeProvider {
	stripe.Key = cfg.SecretKey

	p := &StripeProvider{
		webhookSecret: cfg.WebhookSecret,
		metrics:       m,
		logger:        logger,
	}

	p.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("stripe circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return p
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// call runs fn through the circuit breaker and records provider metrics.
func (p *StripeProvider) call(operation string, fn func() (any, error)) (any, error) {
	start := time.Now()
	result, err := p.breaker.Execute(fn)
	elapsed := time.Since(start)

	status := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "breaker_open"
		err = fmt.Errorf("%w: %s", ErrBreakerOpen, operation)
	case err != nil:
		status = "error"
	}
	if p.metrics != nil {
		p.metrics.RecordProviderRequest(operation, status, elapsed)
	}

	return result, err
}

// --- Customers ---

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	result, err := p.call("create_customer", func() (any, error) {
		params := &stripe.CustomerParams{
			Email: stripe.String(email),
			Name:  stripe.String(name),
		}
		params.Context = ctx
		return customer.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return mapStripeCustomer(result.(*stripe.Customer)), nil
}

func (p *StripeProvider) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	result, err := p.call("get_customer", func() (any, error) {
		params := &stripe.CustomerParams{}
		params.Context = ctx
		return customer.Get(customerID, params)
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return mapStripeCustomer(result.(*stripe.Customer)), nil
}

// --- Payment intents ---

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, in *CreateIntentParams) (*Intent, error) {
	result, err := p.call("create_intent", func() (any, error) {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(in.Amount),
			Currency: stripe.String(in.Currency),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
		}
		params.Context = ctx
		if in.CustomerID != "" {
			params.Customer = stripe.String(in.CustomerID)
		}
		if in.Description != "" {
			params.Description = stripe.String(in.Description)
		}
		if len(in.Metadata) > 0 {
			params.Metadata = make(map[string]string, len(in.Metadata))
			for k, v := range in.Metadata {
				params.Metadata[k] = v
			}
		}
		return paymentintent.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return mapStripeIntent(result.(*stripe.PaymentIntent)), nil
}

func (p *StripeProvider) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error) {
	result, err := p.call("confirm_intent", func() (any, error) {
		params := &stripe.PaymentIntentConfirmParams{
			PaymentMethod: stripe.String(paymentMethodID),
		}
		params.Context = ctx
		return paymentintent.Confirm(intentID, params)
	})
	if err != nil {
		return nil, fmt.Errorf("confirm payment intent: %w", err)
	}
	return mapStripeIntent(result.(*stripe.PaymentIntent)), nil
}

func (p *StripeProvider) GetPaymentIntent(ctx context.Context, intentID string) (*Intent, error) {
	result, err := p.call("get_intent", func() (any, error) {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		return paymentintent.Get(intentID, params)
	})
	if err != nil {
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return mapStripeIntent(result.(*stripe.PaymentIntent)), nil
}

// --- Refunds ---

func (p *StripeProvider) CreateRefund(ctx context.Context, in *RefundParams) (*Refund, error) {
	result, err := p.call("refund", func() (any, error) {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(in.PaymentIntentID),
		}
		params.Context = ctx
		if in.Amount > 0 {
			params.Amount = stripe.Int64(in.Amount)
		}
		if in.Reason != "" {
			params.Reason = stripe.String(in.Reason)
		}
		if len(in.Metadata) > 0 {
			params.Metadata = make(map[string]string, len(in.Metadata))
			for k, v := range in.Metadata {
				params.Metadata[k] = v
			}
		}
		return refund.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}

	r := result.(*stripe.Refund)
	out := &Refund{
		ID:     r.ID,
		Amount: r.Amount,
		Status: string(r.Status),
		Reason: string(r.Reason),
	}
	if r.PaymentIntent != nil {
		out.IntentID = r.PaymentIntent.ID
	}
	return out, nil
}

// --- Webhooks ---

func (p *StripeProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	_, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	return err
}

// IsNotFound reports whether err is a Stripe "resource missing" error,
// e.g. a customer id Stripe no longer recognizes.
func IsNotFound(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == 404
	}
	return false
}

// --- Helpers ---

func mapStripeCustomer(c *stripe.Customer) *Customer {
	return &Customer{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
	}
}

func mapStripeIntent(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
	if pi.LatestCharge != nil {
		intent.LatestChargeID = pi.LatestCharge.ID
	}
	if pi.LastPaymentError != nil {
		intent.FailureCode = string(pi.LastPaymentError.Code)
		intent.FailureMessage = pi.LastPaymentError.Msg
	}
	return intent
}
