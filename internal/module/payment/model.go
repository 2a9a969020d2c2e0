package payment

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// PaymentMethod represents a payment method type.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
)

// Payment represents a payment record. Amounts are in major currency
// units; the provider layer converts to minor units on the wire.
// StripePaymentIntentID carries a unique index so the synchronous
// confirmation path and the webhook path cannot both insert a row for
// the same intent.
type Payment struct {
	ID                    uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID                uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	ReservationID         uuid.UUID     `json:"reservation_id" gorm:"type:uuid;not null;index"`
	Amount                float64       `json:"amount" gorm:"type:numeric(10,2);not null"`
	Currency              string        `json:"currency" gorm:"default:brl"`
	Method                PaymentMethod `json:"method" gorm:"default:card"`
	Status                PaymentStatus `json:"status" gorm:"not null;default:pending"`
	StripePaymentIntentID string        `json:"-" gorm:"uniqueIndex;not null"`
	StripeChargeID        string        `json:"-"`
	StripeRefundID        string        `json:"-"`
	FailureReason         *string       `json:"failure_reason,omitempty"`
	Metadata              string        `json:"-" gorm:"type:text"`
	RefundedAmount        float64       `json:"refunded_amount" gorm:"type:numeric(10,2);default:0"`
	DisputedAt            *time.Time    `json:"disputed_at,omitempty"`
	ProcessedAt           *time.Time    `json:"processed_at,omitempty"`
	RefundedAt            *time.Time    `json:"refunded_at,omitempty"`
	Active                bool          `json:"-" gorm:"default:true"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// TableName returns the database table name.
func (Payment) TableName() string {
	return "payments"
}

// IsCompleted returns true if the payment completed successfully.
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// IsRefundable returns true if the payment can still be refunded.
func (p *Payment) IsRefundable() bool {
	return p.Active && p.Status == PaymentStatusCompleted
}

// BillingAddress is a point-in-time snapshot of the billing details a
// payment was made with. Placeholder values are stored when the caller
// supplies none.
type BillingAddress struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentID  uuid.UUID `json:"payment_id" gorm:"type:uuid;not null;index"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (BillingAddress) TableName() string {
	return "billing_addresses"
}

const billingPlaceholder = "not provided"

// placeholderBillingAddress returns the snapshot stored when the caller
// confirms a payment without billing details.
func placeholderBillingAddress(paymentID uuid.UUID) *BillingAddress {
	return &BillingAddress{
		PaymentID:  paymentID,
		Line1:      billingPlaceholder,
		City:       billingPlaceholder,
		State:      billingPlaceholder,
		PostalCode: billingPlaceholder,
		Country:    billingPlaceholder,
	}
}

// WebhookEvent records a received provider webhook event. The unique
// event id makes redelivered events detectable.
type WebhookEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID     string    `gorm:"uniqueIndex;not null"`
	Type        string    `gorm:"not null"`
	Payload     string    `gorm:"type:jsonb"`
	Processed   bool      `gorm:"default:false"`
	ProcessedAt *time.Time
	Error       *string
	CreatedAt   time.Time
}

// TableName returns the database table name.
func (WebhookEvent) TableName() string {
	return "stripe_webhook_events"
}
