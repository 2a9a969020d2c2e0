package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/roamstay/server/internal/module/payment/provider"
	"github.com/roamstay/server/internal/shared/metrics"
	"github.com/roamstay/server/internal/shared/response"
)

// WebhookHandler receives Stripe webhook events. Signature
// verification fails closed: an event with a bad signature never
// reaches dispatch.
type WebhookHandler struct {
	service *Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. metrics may be nil.
func NewWebhookHandler(service *Service, m *metrics.Metrics, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook handles an incoming Stripe webhook event.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		response.BadRequest(c, "failed to read body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.service.VerifyWebhookSignature(payload, signature); err != nil {
		h.logger.Warn("invalid webhook signature", zap.Error(err))
		response.BadRequest(c, "invalid signature")
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to parse webhook event", zap.Error(err))
		response.BadRequest(c, "invalid event")
		return
	}

	ctx := c.Request.Context()

	done, err := h.service.WebhookEventProcessed(ctx, event.ID)
	if err != nil {
		h.logger.Error("failed to check event state", zap.Error(err))
		// Processing twice is recoverable, dropping an event is not.
	}
	if done {
		h.logger.Info("webhook event already processed", zap.String("event_id", event.ID))
		if h.metrics != nil {
			h.metrics.RecordWebhookDuplicate()
		}
		c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
		return
	}

	if err := h.service.RecordWebhookEvent(ctx, event.ID, string(event.Type), string(payload)); err != nil {
		h.logger.Error("failed to store webhook event", zap.Error(err))
	}

	processErr, handled := h.dispatch(ctx, &event)

	if err := h.service.MarkWebhookEventProcessed(ctx, event.ID, processErr); err != nil {
		h.logger.Error("failed to mark event processed", zap.Error(err))
	}

	if h.metrics != nil {
		outcome := "processed"
		switch {
		case processErr != nil:
			outcome = "error"
		case !handled:
			outcome = "ignored"
		}
		h.metrics.RecordWebhookEvent(string(event.Type), outcome)
	}

	if processErr != nil {
		h.logger.Error("failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(processErr),
		)
		response.InternalError(c, "processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// dispatch routes an event to its handler. handled is false for event
// types we only log.
func (h *WebhookHandler) dispatch(ctx context.Context, event *stripe.Event) (processErr error, handled bool) {
	switch {
	case event.Type == "payment_intent.succeeded":
		return h.handleIntentSucceeded(ctx, event), true
	case event.Type == "payment_intent.payment_failed":
		return h.handleIntentFailed(ctx, event), true
	case event.Type == "payment_intent.canceled":
		return h.handleIntentCanceled(ctx, event), true
	case event.Type == "payment_intent.requires_action":
		h.logger.Info("payment intent requires action, awaiting customer",
			zap.String("event_id", event.ID))
		return nil, false
	case event.Type == "payment_intent.processing":
		h.logger.Info("payment intent processing",
			zap.String("event_id", event.ID))
		return nil, false
	case event.Type == "charge.refunded":
		return h.handleChargeRefunded(ctx, event), true
	case event.Type == "charge.dispute.created":
		return h.handleDisputeCreated(ctx, event), true
	case strings.HasPrefix(string(event.Type), "charge.dispute."):
		h.logger.Info("charge dispute update",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
		return nil, false
	case event.Type == "charge.captured", event.Type == "charge.failed":
		h.logger.Info("charge event received",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
		return nil, false
	default:
		h.logger.Debug("unhandled webhook event type",
			zap.String("type", string(event.Type)))
		return nil, false
	}
}

func (h *WebhookHandler) handleIntentSucceeded(ctx context.Context, event *stripe.Event) error {
	pi, err := unmarshalIntent(event)
	if err != nil {
		return err
	}

	h.logger.Info("payment intent succeeded",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount),
	)

	return h.service.HandleIntentSucceeded(ctx, toProviderIntent(pi))
}

func (h *WebhookHandler) handleIntentFailed(ctx context.Context, event *stripe.Event) error {
	pi, err := unmarshalIntent(event)
	if err != nil {
		return err
	}

	var failureCode, failureMessage string
	if pi.LastPaymentError != nil {
		failureCode = string(pi.LastPaymentError.Code)
		failureMessage = pi.LastPaymentError.Msg
	}

	h.logger.Warn("payment intent failed",
		zap.String("payment_intent_id", pi.ID),
		zap.String("failure_code", failureCode),
	)

	return h.service.HandleIntentFailed(ctx, pi.ID, failureCode, failureMessage)
}

func (h *WebhookHandler) handleIntentCanceled(ctx context.Context, event *stripe.Event) error {
	pi, err := unmarshalIntent(event)
	if err != nil {
		return err
	}
	return h.service.HandleIntentCanceled(ctx, pi.ID)
}

func (h *WebhookHandler) handleChargeRefunded(ctx context.Context, event *stripe.Event) error {
	var ch stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
		return fmt.Errorf("unmarshal charge: %w", err)
	}
	if ch.PaymentIntent == nil {
		h.logger.Warn("charge.refunded without payment intent",
			zap.String("charge_id", ch.ID))
		return nil
	}
	return h.service.HandleChargeRefunded(ctx, ch.PaymentIntent.ID, ch.AmountRefunded)
}

func (h *WebhookHandler) handleDisputeCreated(ctx context.Context, event *stripe.Event) error {
	var dp stripe.Dispute
	if err := json.Unmarshal(event.Data.Raw, &dp); err != nil {
		return fmt.Errorf("unmarshal dispute: %w", err)
	}
	if dp.PaymentIntent == nil {
		h.logger.Warn("dispute without payment intent",
			zap.String("dispute_id", dp.ID))
		return nil
	}
	return h.service.HandleDisputeCreated(ctx, dp.PaymentIntent.ID)
}

func unmarshalIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("unmarshal payment intent: %w", err)
	}
	return &pi, nil
}

func toProviderIntent(pi *stripe.PaymentIntent) *provider.Intent {
	intent := &provider.Intent{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
		Status:   string(pi.Status),
		Metadata: pi.Metadata,
	}
	if pi.LatestCharge != nil {
		intent.LatestChargeID = pi.LatestCharge.ID
	}
	return intent
}
