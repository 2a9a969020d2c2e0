package payment

import "errors"

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrForbidden           = errors.New("payment does not belong to user")
	ErrDuplicateIntent     = errors.New("payment intent already processed")
	ErrMissingIntentID     = errors.New("payment has no provider intent id")
	ErrNotRefundable       = errors.New("payment is not refundable")
	ErrInvalidAmount       = errors.New("invalid payment amount")
	ErrConfirmationFailed  = errors.New("payment confirmation failed")
	ErrInvalidMetadata     = errors.New("invalid payment metadata")
)
