package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roamstay/server/internal/module/user"
	"github.com/roamstay/server/internal/shared/events"
)

type recordingSender struct {
	vouchers []VoucherData
	refunds  []RefundData
	to       []string
}

func (s *recordingSender) SendVoucher(ctx context.Context, email, name string, data VoucherData) error {
	s.to = append(s.to, email)
	s.vouchers = append(s.vouchers, data)
	return nil
}

func (s *recordingSender) SendRefundNotice(ctx context.Context, email, name string, data RefundData) error {
	s.to = append(s.to, email)
	s.refunds = append(s.refunds, data)
	return nil
}

type fakeDirectory struct {
	byID map[uuid.UUID]*user.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func TestPaymentEventHandler(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.New()

	newHandler := func() (*PaymentEventHandler, *recordingSender) {
		sender := &recordingSender{}
		dir := &fakeDirectory{byID: map[uuid.UUID]*user.User{
			userID: {ID: userID, Email: "guest@example.com", Name: "Guest"},
		}}
		return NewPaymentEventHandler(sender, dir, zap.NewNop()), sender
	}

	t.Run("voucher on payment succeeded", func(t *testing.T) {
		h, sender := newHandler()
		event := events.NewPaymentSucceededEvent(uuid.New(), reservationID, userID, 150.00, "brl", "Copacabana Palace")

		require.NoError(t, h.Handle(event))

		require.Len(t, sender.vouchers, 1)
		assert.Equal(t, "guest@example.com", sender.to[0])
		assert.Equal(t, "Copacabana Palace", sender.vouchers[0].HotelName)
		assert.Equal(t, 150.00, sender.vouchers[0].Amount)
	})

	t.Run("refund notice on payment refunded", func(t *testing.T) {
		h, sender := newHandler()
		event := events.NewPaymentRefundedEvent(uuid.New(), reservationID, userID, 150.00, "brl")

		require.NoError(t, h.Handle(event))

		require.Len(t, sender.refunds, 1)
		assert.Equal(t, reservationID.String(), sender.refunds[0].ReservationID)
	})

	t.Run("unknown recipient is an error", func(t *testing.T) {
		h, sender := newHandler()
		event := events.NewPaymentSucceededEvent(uuid.New(), reservationID, uuid.New(), 150.00, "brl", "Copacabana Palace")

		assert.Error(t, h.Handle(event))
		assert.Empty(t, sender.vouchers)
	})

	t.Run("dispatched through the bus", func(t *testing.T) {
		h, sender := newHandler()
		bus := events.NewBus(zap.NewNop())
		bus.Register(h)

		bus.Publish(events.NewPaymentSucceededEvent(uuid.New(), reservationID, userID, 150.00, "brl", "Copacabana Palace"))
		assert.Len(t, sender.vouchers, 1)
	})
}
