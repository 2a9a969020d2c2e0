package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roamstay/server/internal/module/payment/provider"
	"github.com/roamstay/server/internal/module/reservation"
	"github.com/roamstay/server/internal/module/user"
	"github.com/roamstay/server/internal/shared/events"
	"github.com/roamstay/server/internal/shared/metrics"
)

// Service implements payment operations.
type Service struct {
	repo         Repository
	provider     provider.Provider
	reservations ReservationReader
	users        UserStore
	catalog      Catalog
	bus          *events.Bus
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewService creates a new payment service. bus and metrics may be nil.
func NewService(
	repo Repository,
	prov provider.Provider,
	reservations ReservationReader,
	users UserStore,
	catalog Catalog,
	bus *events.Bus,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:         repo,
		provider:     prov,
		reservations: reservations,
		users:        users,
		catalog:      catalog,
		bus:          bus,
		metrics:      m,
		logger:       logger,
	}
}

// minorUnits converts a major-unit amount to provider minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// majorUnits converts provider minor units back to a major-unit amount.
func majorUnits(amount int64) float64 {
	return float64(amount) / 100
}

// CreateIntent creates a provider payment intent for a reservation.
// No payment row is persisted here: the local record is created only
// once the intent succeeds, via Confirm or the webhook.
func (s *Service) CreateIntent(ctx context.Context, userID uuid.UUID, req *CreateIntentRequest) (*PaymentIntentResponse, error) {
	res, err := s.reservations.GetByIDInternal(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	// A reservation owned by someone else looks like a missing one.
	if res.UserID != userID {
		return nil, ErrReservationNotFound
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureCustomer(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("ensure stripe customer: %w", err)
	}

	amount := req.Amount
	if amount == 0 {
		amount = res.TotalPrice
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = strings.ToLower(res.Currency)
	}

	merged := mergeMetadata(s.systemMetadata(ctx, userID, res), req.Metadata)

	intent, err := s.provider.CreatePaymentIntent(ctx, &provider.CreateIntentParams{
		Amount:      minorUnits(amount),
		Currency:    currency,
		CustomerID:  customerID,
		Description: req.Description,
		Metadata:    merged,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.String("reservation_id", res.ID.String()),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)

	return &PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        currency,
		Status:          intent.Status,
		Metadata:        merged,
	}, nil
}

// systemMetadata builds the metadata attached to every intent. Hotel
// and package names are best-effort lookups.
func (s *Service) systemMetadata(ctx context.Context, userID uuid.UUID, res *reservation.Reservation) map[string]string {
	meta := map[string]string{
		metaKeyUserID:        userID.String(),
		metaKeyReservationID: res.ID.String(),
	}
	if h, err := s.catalog.GetHotel(ctx, res.HotelID); err == nil {
		meta[metaKeyHotelName] = h.Name
	}
	if res.PackageID != nil {
		if pkg, err := s.catalog.GetPackage(ctx, *res.PackageID); err == nil {
			meta[metaKeyPackageName] = pkg.Title
		}
	}
	return meta
}

// ensureCustomer returns the user's Stripe customer id, creating one
// when the user has none or Stripe no longer recognizes the stored id.
func (s *Service) ensureCustomer(ctx context.Context, u *user.User) (string, error) {
	if u.HasStripeCustomer() {
		_, err := s.provider.GetCustomer(ctx, *u.StripeCustomerID)
		if err == nil {
			return *u.StripeCustomerID, nil
		}
		if !provider.IsNotFound(err) {
			return "", err
		}
		s.logger.Warn("stored stripe customer no longer exists, recreating",
			zap.String("user_id", u.ID.String()),
			zap.String("stripe_customer_id", *u.StripeCustomerID),
		)
	}

	c, err := s.provider.CreateCustomer(ctx, u.Email, u.Name)
	if err != nil {
		return "", err
	}
	if err := s.users.SetStripeCustomerID(ctx, u.ID, c.ID); err != nil {
		s.logger.Error("failed to persist stripe customer id",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}
	return c.ID, nil
}

// Confirm confirms a payment intent with a payment method. A
// requires_action status returns an intermediate response without
// persisting anything; succeeded persists the payment, its billing
// address and the confirmed reservation in one transaction.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, req *ConfirmRequest) (*ConfirmResponse, error) {
	intent, err := s.provider.ConfirmPaymentIntent(ctx, req.PaymentIntentID, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	switch intent.Status {
	case "requires_action", "requires_source_action":
		return &ConfirmResponse{
			Status:         intent.Status,
			RequiresAction: true,
			ClientSecret:   intent.ClientSecret,
		}, nil
	case "succeeded":
		return s.persistSucceededIntent(ctx, userID, intent, req.BillingAddress)
	default:
		return nil, fmt.Errorf("%w: intent status %q", ErrConfirmationFailed, intent.Status)
	}
}

func (s *Service) persistSucceededIntent(ctx context.Context, userID uuid.UUID, intent *provider.Intent, billingIn *BillingAddressInput) (*ConfirmResponse, error) {
	if ownerRaw, ok := intent.Metadata[metaKeyUserID]; ok && ownerRaw != userID.String() {
		return nil, ErrForbidden
	}

	reservationID, err := uuid.Parse(intent.Metadata[metaKeyReservationID])
	if err != nil {
		return nil, fmt.Errorf("%w: missing or malformed reservation_id", ErrInvalidMetadata)
	}

	// Webhook delivery can beat the synchronous response. If the row is
	// already there this confirmation is a no-op.
	if existing, err := s.repo.GetByIntentID(ctx, intent.ID); err == nil {
		return &ConfirmResponse{
			Status:        intent.Status,
			PaymentID:     &existing.ID,
			ReservationID: &existing.ReservationID,
		}, nil
	} else if !errors.Is(err, ErrPaymentNotFound) {
		return nil, err
	}

	payment, res, err := s.buildCompletedPayment(ctx, userID, reservationID, intent)
	if err != nil {
		return nil, err
	}

	billing := placeholderBillingAddress(uuid.Nil)
	if billingIn != nil {
		billing = &BillingAddress{
			Line1:      billingIn.Line1,
			Line2:      billingIn.Line2,
			City:       billingIn.City,
			State:      billingIn.State,
			PostalCode: billingIn.PostalCode,
			Country:    billingIn.Country,
		}
	}

	if err := s.repo.ConfirmPayment(ctx, payment, billing, res); err != nil {
		if errors.Is(err, ErrDuplicateIntent) {
			existing, getErr := s.repo.GetByIntentID(ctx, intent.ID)
			if getErr != nil {
				return nil, getErr
			}
			return &ConfirmResponse{
				Status:        intent.Status,
				PaymentID:     &existing.ID,
				ReservationID: &existing.ReservationID,
			}, nil
		}
		return nil, err
	}

	s.recordCompleted(payment)
	s.publishSucceeded(payment, intent.Metadata[metaKeyHotelName])

	return &ConfirmResponse{
		Status:        intent.Status,
		PaymentID:     &payment.ID,
		ReservationID: &payment.ReservationID,
	}, nil
}

// buildCompletedPayment assembles a completed payment row from a
// succeeded intent and transitions the reservation in memory. The
// returned reservation is nil when it needs no write.
func (s *Service) buildCompletedPayment(ctx context.Context, userID, reservationID uuid.UUID, intent *provider.Intent) (*Payment, *reservation.Reservation, error) {
	res, err := s.reservations.GetByIDInternal(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return nil, nil, ErrReservationNotFound
		}
		return nil, nil, err
	}

	var toSave *reservation.Reservation
	if res.Status != reservation.StatusConfirmed {
		if err := s.reservations.ConfirmTx(res); err != nil {
			return nil, nil, err
		}
		toSave = res
	}

	metaBlob, err := serializeMetadata(intent.Metadata)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	payment := &Payment{
		ID:                    uuid.New(),
		UserID:                userID,
		ReservationID:         reservationID,
		Amount:                majorUnits(intent.Amount),
		Currency:              intent.Currency,
		Method:                PaymentMethodCard,
		Status:                PaymentStatusCompleted,
		StripePaymentIntentID: intent.ID,
		StripeChargeID:        intent.LatestChargeID,
		Metadata:              metaBlob,
		ProcessedAt:           &now,
		Active:                true,
	}
	return payment, toSave, nil
}

// Refund refunds a completed payment. The stored intent id is required
// before any provider call is made. The reservation is left untouched.
func (s *Service) Refund(ctx context.Context, paymentID uuid.UUID, req *RefundRequest) (*RefundResponse, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.IsRefundable() {
		return nil, ErrNotRefundable
	}
	if payment.StripePaymentIntentID == "" {
		return nil, ErrMissingIntentID
	}

	amount := req.Amount
	remaining := payment.Amount - payment.RefundedAmount
	if amount == 0 {
		amount = remaining
	}
	if amount <= 0 || amount > remaining {
		return nil, ErrInvalidAmount
	}

	meta := map[string]string{"payment_id": payment.ID.String()}
	for k, v := range req.Metadata {
		meta[k] = v
	}
	if req.Description != "" {
		meta["description"] = req.Description
	}

	r, err := s.provider.CreateRefund(ctx, &provider.RefundParams{
		PaymentIntentID: payment.StripePaymentIntentID,
		Amount:          minorUnits(amount),
		Reason:          req.Reason,
		Metadata:        meta,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment.RefundedAmount += amount
	payment.Status = PaymentStatusRefunded
	payment.StripeRefundID = r.ID
	payment.RefundedAt = &now

	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentStatus(string(PaymentStatusRefunded))
	}
	if s.bus != nil {
		s.bus.Publish(events.NewPaymentRefundedEvent(
			payment.ID, payment.ReservationID, payment.UserID, amount, payment.Currency,
		))
	}

	s.logger.Info("payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("refund_id", r.ID),
		zap.Float64("amount", amount),
	)

	return &RefundResponse{
		PaymentID:      payment.ID,
		RefundID:       r.ID,
		RefundedAmount: payment.RefundedAmount,
		Status:         string(payment.Status),
		RefundedAt:     now,
	}, nil
}

// Get returns a payment by id. Non-admin callers only see their own.
func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && payment.UserID != callerID {
		return nil, ErrForbidden
	}
	return payment, nil
}

// List returns payments visible to the caller.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, isAdmin bool, p *Pagination) ([]*Payment, int64, error) {
	if isAdmin {
		return s.repo.List(ctx, p)
	}
	return s.repo.ListByUser(ctx, callerID, p)
}

// --- Webhook application ---

// HandleIntentSucceeded applies a payment_intent.succeeded event. If no
// payment row exists yet the webhook arrived before the synchronous
// confirmation and the row is created from intent metadata.
func (s *Service) HandleIntentSucceeded(ctx context.Context, intent *provider.Intent) error {
	payment, err := s.repo.GetByIntentID(ctx, intent.ID)
	switch {
	case err == nil:
		if payment.IsCompleted() {
			return nil
		}
		now := time.Now()
		payment.Status = PaymentStatusCompleted
		payment.StripeChargeID = intent.LatestChargeID
		payment.ProcessedAt = &now
		if err := s.repo.Update(ctx, payment); err != nil {
			return err
		}
		if err := s.reservations.Confirm(ctx, payment.ReservationID); err != nil {
			return fmt.Errorf("confirm reservation: %w", err)
		}
		s.recordCompleted(payment)
		s.publishSucceeded(payment, intent.Metadata[metaKeyHotelName])
		return nil

	case errors.Is(err, ErrPaymentNotFound):
		userID, err := uuid.Parse(intent.Metadata[metaKeyUserID])
		if err != nil {
			return fmt.Errorf("%w: missing or malformed user_id", ErrInvalidMetadata)
		}
		reservationID, err := uuid.Parse(intent.Metadata[metaKeyReservationID])
		if err != nil {
			return fmt.Errorf("%w: missing or malformed reservation_id", ErrInvalidMetadata)
		}

		payment, res, err := s.buildCompletedPayment(ctx, userID, reservationID, intent)
		if err != nil {
			return err
		}
		if err := s.repo.ConfirmPayment(ctx, payment, placeholderBillingAddress(uuid.Nil), res); err != nil {
			if errors.Is(err, ErrDuplicateIntent) {
				return nil
			}
			return err
		}
		s.recordCompleted(payment)
		s.publishSucceeded(payment, intent.Metadata[metaKeyHotelName])
		return nil

	default:
		return err
	}
}

// HandleIntentFailed applies a payment_intent.payment_failed event.
func (s *Service) HandleIntentFailed(ctx context.Context, intentID, failureCode, failureMessage string) error {
	payment, err := s.repo.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			s.logger.Info("payment_failed for unknown intent, nothing to update",
				zap.String("payment_intent_id", intentID))
			return nil
		}
		return err
	}

	reason := failureMessage
	if reason == "" {
		reason = failureCode
	}
	payment.Status = PaymentStatusFailed
	payment.FailureReason = &reason
	if err := s.repo.Update(ctx, payment); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentStatus(string(PaymentStatusFailed))
	}
	if s.bus != nil {
		s.bus.Publish(events.NewPaymentFailedEvent(
			payment.ID, payment.ReservationID, payment.UserID, reason,
		))
	}
	return nil
}

// HandleIntentCanceled applies a payment_intent.canceled event.
func (s *Service) HandleIntentCanceled(ctx context.Context, intentID string) error {
	payment, err := s.repo.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil
		}
		return err
	}
	if payment.Status == PaymentStatusCanceled {
		return nil
	}
	payment.Status = PaymentStatusCanceled
	if err := s.repo.Update(ctx, payment); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordPaymentStatus(string(PaymentStatusCanceled))
	}
	return nil
}

// HandleChargeRefunded applies a charge.refunded event issued outside
// our own refund endpoint, e.g. from the Stripe dashboard.
func (s *Service) HandleChargeRefunded(ctx context.Context, intentID string, amountRefunded int64) error {
	payment, err := s.repo.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			s.logger.Warn("charge.refunded for unknown intent",
				zap.String("payment_intent_id", intentID))
			return nil
		}
		return err
	}

	refunded := majorUnits(amountRefunded)
	if payment.Status == PaymentStatusRefunded && payment.RefundedAmount >= refunded {
		return nil
	}

	now := time.Now()
	payment.RefundedAmount = refunded
	payment.Status = PaymentStatusRefunded
	payment.RefundedAt = &now
	if err := s.repo.Update(ctx, payment); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentStatus(string(PaymentStatusRefunded))
	}
	if s.bus != nil {
		s.bus.Publish(events.NewPaymentRefundedEvent(
			payment.ID, payment.ReservationID, payment.UserID, refunded, payment.Currency,
		))
	}
	return nil
}

// HandleDisputeCreated flags a payment for manual review.
func (s *Service) HandleDisputeCreated(ctx context.Context, intentID string) error {
	payment, err := s.repo.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			s.logger.Warn("dispute for unknown intent",
				zap.String("payment_intent_id", intentID))
			return nil
		}
		return err
	}
	if payment.DisputedAt != nil {
		return nil
	}
	now := time.Now()
	payment.DisputedAt = &now
	if err := s.repo.Update(ctx, payment); err != nil {
		return err
	}
	s.logger.Warn("payment disputed, flagged for manual review",
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_intent_id", intentID),
	)
	return nil
}

func (s *Service) recordCompleted(payment *Payment) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordPaymentStatus(string(PaymentStatusCompleted))
	s.metrics.RecordPaymentAmount(payment.Currency, payment.Amount)
}

// VerifyWebhookSignature verifies a provider webhook signature.
func (s *Service) VerifyWebhookSignature(payload []byte, signature string) error {
	return s.provider.VerifyWebhookSignature(payload, signature)
}

// WebhookEventProcessed reports whether a webhook event was already
// processed successfully. An event whose handler failed is not counted:
// the provider's redelivery must get another dispatch.
func (s *Service) WebhookEventProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.repo.WebhookEventProcessed(ctx, eventID)
}

// RecordWebhookEvent stores a received webhook event.
func (s *Service) RecordWebhookEvent(ctx context.Context, eventID, eventType, payload string) error {
	return s.repo.CreateWebhookEvent(ctx, &WebhookEvent{
		EventID: eventID,
		Type:    eventType,
		Payload: payload,
	})
}

// MarkWebhookEventProcessed records the processing outcome on the event row.
func (s *Service) MarkWebhookEventProcessed(ctx context.Context, eventID string, processErr error) error {
	return s.repo.MarkWebhookEventProcessed(ctx, eventID, processErr)
}

func (s *Service) publishSucceeded(payment *Payment, hotelName string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.NewPaymentSucceededEvent(
		payment.ID, payment.ReservationID, payment.UserID,
		payment.Amount, payment.Currency, hotelName,
	))
}
