package events

import "github.com/google/uuid"

// Payment event type constants.
const (
	PaymentSucceededType = "PaymentSucceeded"
	PaymentFailedType    = "PaymentFailed"
	PaymentRefundedType  = "PaymentRefunded"
)

// PaymentSucceededEvent is emitted when a payment is successfully processed.
// This is defined in the events package to avoid cyclic imports.
type PaymentSucceededEvent struct {
	BaseEvent

	// PaymentID is the unique identifier of the payment.
	PaymentID uuid.UUID `json:"payment_id"`

	// ReservationID is the ID of the reservation this payment is for.
	ReservationID uuid.UUID `json:"reservation_id"`

	// UserID is the ID of the user who made the payment.
	UserID uuid.UUID `json:"user_id"`

	// Amount is the payment amount in major currency units.
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code (e.g., "brl", "usd").
	Currency string `json:"currency"`

	// HotelName is the hotel the reservation belongs to, for notifications.
	HotelName string `json:"hotel_name,omitempty"`
}

// NewPaymentSucceededEvent creates a new PaymentSucceededEvent.
func NewPaymentSucceededEvent(paymentID, reservationID, userID uuid.UUID, amount float64, currency, hotelName string) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseEvent:     NewBaseEvent(PaymentSucceededType, paymentID, "Payment"),
		PaymentID:     paymentID,
		ReservationID: reservationID,
		UserID:        userID,
		Amount:        amount,
		Currency:      currency,
		HotelName:     hotelName,
	}
}

// PaymentFailedEvent is emitted when a payment fails.
type PaymentFailedEvent struct {
	BaseEvent

	// PaymentID is the unique identifier of the payment.
	PaymentID uuid.UUID `json:"payment_id"`

	// ReservationID is the ID of the reservation this payment was for.
	ReservationID uuid.UUID `json:"reservation_id"`

	// UserID is the ID of the user.
	UserID uuid.UUID `json:"user_id"`

	// FailureReason is a human-readable error message from the provider.
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent.
func NewPaymentFailedEvent(paymentID, reservationID, userID uuid.UUID, failureReason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent:     NewBaseEvent(PaymentFailedType, paymentID, "Payment"),
		PaymentID:     paymentID,
		ReservationID: reservationID,
		UserID:        userID,
		FailureReason: failureReason,
	}
}

// PaymentRefundedEvent is emitted when a refund is issued for a payment.
// Reservation state is intentionally not touched by refund processing;
// consumers of this event handle user-facing notification only.
type PaymentRefundedEvent struct {
	BaseEvent

	// PaymentID is the unique identifier of the payment.
	PaymentID uuid.UUID `json:"payment_id"`

	// ReservationID is the ID of the reservation the payment was for.
	ReservationID uuid.UUID `json:"reservation_id"`

	// UserID is the ID of the user.
	UserID uuid.UUID `json:"user_id"`

	// Amount is the refunded amount in major currency units.
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code.
	Currency string `json:"currency"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent.
func NewPaymentRefundedEvent(paymentID, reservationID, userID uuid.UUID, amount float64, currency string) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseEvent:     NewBaseEvent(PaymentRefundedType, paymentID, "Payment"),
		PaymentID:     paymentID,
		ReservationID: reservationID,
		UserID:        userID,
		Amount:        amount,
		Currency:      currency,
	}
}
