package payment

import (
	"time"

	"github.com/google/uuid"
)

// CreateIntentRequest is the request body for creating a payment intent.
// Amount and currency default to the reservation's total when omitted.
type CreateIntentRequest struct {
	ReservationID uuid.UUID         `json:"reservation_id" binding:"required"`
	Amount        float64           `json:"amount" binding:"omitempty,gt=0"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentIntentResponse is returned after creating a payment intent.
type PaymentIntentResponse struct {
	PaymentIntentID string            `json:"payment_intent_id"`
	ClientSecret    string            `json:"client_secret"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	Metadata        map[string]string `json:"metadata"`
}

// BillingAddressInput carries optional billing details on confirmation.
type BillingAddressInput struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ConfirmRequest is the request body for confirming a payment intent.
type ConfirmRequest struct {
	PaymentIntentID string               `json:"payment_intent_id" binding:"required"`
	PaymentMethodID string               `json:"payment_method_id" binding:"required"`
	BillingAddress  *BillingAddressInput `json:"billing_address"`
}

// ConfirmResponse is returned after a confirmation attempt.
// RequiresAction means the caller must complete additional
// authentication with the client secret before the payment settles.
type ConfirmResponse struct {
	Status         string     `json:"status"`
	RequiresAction bool       `json:"requires_action"`
	ClientSecret   string     `json:"client_secret,omitempty"`
	PaymentID      *uuid.UUID `json:"payment_id,omitempty"`
	ReservationID  *uuid.UUID `json:"reservation_id,omitempty"`
}

// RefundRequest is the request body for refunding a payment.
// Amount zero refunds the full remaining balance.
type RefundRequest struct {
	Amount      float64           `json:"amount" binding:"omitempty,gt=0"`
	Reason      string            `json:"reason"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// RefundResponse is returned after a successful refund.
type RefundResponse struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	RefundID       string    `json:"refund_id"`
	RefundedAmount float64   `json:"refunded_amount"`
	Status         string    `json:"status"`
	RefundedAt     time.Time `json:"refunded_at"`
}

// PaymentResponse is the public view of a payment record.
type PaymentResponse struct {
	ID             uuid.UUID         `json:"id"`
	ReservationID  uuid.UUID         `json:"reservation_id"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Method         PaymentMethod     `json:"method"`
	Status         PaymentStatus     `json:"status"`
	FailureReason  *string           `json:"failure_reason,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	RefundedAmount float64           `json:"refunded_amount"`
	ProcessedAt    *time.Time        `json:"processed_at,omitempty"`
	RefundedAt     *time.Time        `json:"refunded_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ToResponse converts a payment to its public view. Metadata parse
// failures surface as an error instead of silently emptying the map.
func (p *Payment) ToResponse() (*PaymentResponse, error) {
	meta, err := parseMetadata(p.Metadata)
	if err != nil {
		return nil, err
	}
	return &PaymentResponse{
		ID:             p.ID,
		ReservationID:  p.ReservationID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Method:         p.Method,
		Status:         p.Status,
		FailureReason:  p.FailureReason,
		Metadata:       meta,
		RefundedAmount: p.RefundedAmount,
		ProcessedAt:    p.ProcessedAt,
		RefundedAt:     p.RefundedAt,
		CreatedAt:      p.CreatedAt,
	}, nil
}

// Pagination holds list pagination parameters.
type Pagination struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// Offset returns the row offset for the current page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaymentListResponse is a paginated list of payments.
type PaymentListResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
