package provider

import (
	"context"
	"errors"
)

// ErrBreakerOpen is returned when the circuit breaker refuses an outbound call.
var ErrBreakerOpen = errors.New("payment provider circuit open")

// Customer represents a customer record at the provider.
type Customer struct {
	ID    string
	Email string
	Name  string
}

// Intent represents a payment intent at the provider.
type Intent struct {
	ID             string
	ClientSecret   string
	Amount         int64
	Currency       string
	Status         string
	LatestChargeID string
	FailureCode    string
	FailureMessage string
	Metadata       map[string]string
}

// Refund represents a refund issued at the provider.
type Refund struct {
	ID       string
	IntentID string
	Amount   int64
	Status   string
	Reason   string
}

// CreateIntentParams holds parameters for creating a payment intent.
// Amount is in minor units.
type CreateIntentParams struct {
	Amount      int64
	Currency    string
	CustomerID  string
	Description string
	Metadata    map[string]string
}

// RefundParams holds parameters for issuing a refund.
// Amount is in minor units; zero refunds the remaining balance.
type RefundParams struct {
	PaymentIntentID string
	Amount          int64
	Reason          string
	Metadata        map[string]string
}

// Provider defines the interface for payment providers.
type Provider interface {
	Name() string

	CreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	CreatePaymentIntent(ctx context.Context, params *CreateIntentParams) (*Intent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*Intent, error)

	CreateRefund(ctx context.Context, params *RefundParams) (*Refund, error)

	// VerifyWebhookSignature checks a webhook payload against its signature
	// header. An error means the payload must not be processed.
	VerifyWebhookSignature(payload []byte, signature string) error
}
