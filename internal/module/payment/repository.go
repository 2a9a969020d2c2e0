package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roamstay/server/internal/module/reservation"
)

// Repository defines the interface for payment data access.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID, p *Pagination) ([]*Payment, int64, error)
	List(ctx context.Context, p *Pagination) ([]*Payment, int64, error)

	// ConfirmPayment persists the payment, its billing address snapshot
	// and the confirmed reservation in a single transaction. A row
	// already holding the same intent id aborts with ErrDuplicateIntent.
	ConfirmPayment(ctx context.Context, payment *Payment, billing *BillingAddress, res *reservation.Reservation) error

	CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error
	WebhookEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkWebhookEventProcessed(ctx context.Context, eventID string, processErr error) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &payment, nil
}

func (r *repository) GetByIntentID(ctx context.Context, intentID string) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ? AND active = true", intentID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment by intent id: %w", err)
	}
	return &payment, nil
}

func (r *repository) Update(ctx context.Context, payment *Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, p *Pagination) ([]*Payment, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&Payment{}).Where("user_id = ? AND active = true", userID), p)
}

func (r *repository) List(ctx context.Context, p *Pagination) ([]*Payment, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&Payment{}).Where("active = true"), p)
}

func (r *repository) list(ctx context.Context, query *gorm.DB, p *Pagination) ([]*Payment, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	var payments []*Payment
	err := query.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&payments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, total, nil
}

func (r *repository) ConfirmPayment(ctx context.Context, payment *Payment, billing *BillingAddress, res *reservation.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&Payment{}).
			Where("stripe_payment_intent_id = ?", payment.StripePaymentIntentID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check duplicate intent: %w", err)
		}
		if count > 0 {
			return ErrDuplicateIntent
		}

		if err := tx.Create(payment).Error; err != nil {
			return translateCreatePaymentErr(err)
		}

		billing.PaymentID = payment.ID
		if err := tx.Create(billing).Error; err != nil {
			return fmt.Errorf("create billing address: %w", err)
		}

		if res != nil {
			if err := tx.Save(res).Error; err != nil {
				return fmt.Errorf("confirm reservation: %w", err)
			}
		}

		return nil
	})
}

// translateCreatePaymentErr maps a unique index violation on
// stripe_payment_intent_id to ErrDuplicateIntent. Two concurrent
// writers can both pass the count check; the index rejects the loser.
func translateCreatePaymentErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateIntent
	}
	return fmt.Errorf("create payment: %w", err)
}

func (r *repository) CreateWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	// Stripe redelivers an event under the same id after a processing
	// failure; the existing row is kept.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(event).Error
	if err != nil {
		return fmt.Errorf("create webhook event: %w", err)
	}
	return nil
}

func (r *repository) WebhookEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&WebhookEvent{}).
		Where("event_id = ? AND processed = true", eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check webhook event processed: %w", err)
	}
	return count > 0, nil
}

// MarkWebhookEventProcessed records the outcome on the event row. A
// failed event stays processed = false so Stripe's redelivery gets
// dispatched again instead of being dropped as a duplicate.
func (r *repository) MarkWebhookEventProcessed(ctx context.Context, eventID string, processErr error) error {
	updates := map[string]interface{}{
		"processed":    true,
		"processed_at": time.Now(),
		"error":        nil,
	}
	if processErr != nil {
		updates["processed"] = false
		updates["error"] = processErr.Error()
	}
	err := r.db.WithContext(ctx).
		Model(&WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}
