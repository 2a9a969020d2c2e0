package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roamstay/server/internal/module/user"
	"github.com/roamstay/server/internal/shared/events"
)

// UserDirectory resolves recipients. Satisfied by user.Repository.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// PaymentEventHandler sends guest mail in response to payment events.
// Registered on the event bus, which isolates handler failures.
type PaymentEventHandler struct {
	sender Sender
	users  UserDirectory
	logger *zap.Logger
}

// NewPaymentEventHandler creates a new payment event handler.
func NewPaymentEventHandler(sender Sender, users UserDirectory, logger *zap.Logger) *PaymentEventHandler {
	return &PaymentEventHandler{
		sender: sender,
		users:  users,
		logger: logger,
	}
}

// Handles returns the event types this handler processes.
func (h *PaymentEventHandler) Handles() []string {
	return []string{
		events.PaymentSucceededType,
		events.PaymentRefundedType,
	}
}

// Handle processes a payment event. Sending the same mail twice for a
// redelivered event is tolerable; losing one is not.
func (h *PaymentEventHandler) Handle(event events.Event) error {
	switch e := event.(type) {
	case *events.PaymentSucceededEvent:
		return h.handleSucceeded(e)
	case *events.PaymentRefundedEvent:
		return h.handleRefunded(e)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
}

func (h *PaymentEventHandler) handleSucceeded(e *events.PaymentSucceededEvent) error {
	ctx := context.Background()

	u, err := h.users.GetByID(ctx, e.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	return h.sender.SendVoucher(ctx, u.Email, u.Name, VoucherData{
		HotelName:     e.HotelName,
		ReservationID: e.ReservationID.String(),
		Amount:        e.Amount,
		Currency:      e.Currency,
	})
}

func (h *PaymentEventHandler) handleRefunded(e *events.PaymentRefundedEvent) error {
	ctx := context.Background()

	u, err := h.users.GetByID(ctx, e.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	return h.sender.SendRefundNotice(ctx, u.Email, u.Name, RefundData{
		ReservationID: e.ReservationID.String(),
		Amount:        e.Amount,
		Currency:      e.Currency,
	})
}
