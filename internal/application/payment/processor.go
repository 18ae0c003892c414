package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	apporder "github.com/mak6096-commits/orders-inventory/internal/application/order"
	domain "github.com/mak6096-commits/orders-inventory/internal/domain/order"
	"github.com/mak6096-commits/orders-inventory/internal/metrics"
	"github.com/mak6096-commits/orders-inventory/internal/pkg/logging"
	"go.uber.org/zap"
)

const EventPaymentSucceeded = "payment.succeeded"

const (
	StatusProcessed = "processed"
	StatusIgnored   = "ignored"
)

const (
	resultProcessed = "processed"
	resultDuplicate = "duplicate"
	resultIgnored   = "ignored"
	resultRejected  = "rejected"
)

// Event is the payment webhook body. Timestamp is optional on the wire and
// defaults to processing time.
type Event struct {
	EventType string     `json:"event_type"`
	OrderID   int64      `json:"order_id"`
	PaymentID string     `json:"payment_id"`
	Amount    float64    `json:"amount"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// dedupKey identifies a delivery for replay protection.
func (e Event) dedupKey() string {
	return fmt.Sprintf("%s_%s_%d", e.EventType, e.PaymentID, e.OrderID)
}

type Result struct {
	Status    string        `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	OrderID   int64         `json:"order_id,omitempty"`
	NewStatus domain.Status `json:"new_status,omitempty"`
}

// Processor authenticates payment webhooks and applies the PAID transition
// through the order service. The dedup set is process-local and unbounded for
// the process lifetime.
type Processor struct {
	secret []byte
	orders *apporder.Service
	mx     *metrics.Metrics

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewProcessor(secret string, orders *apporder.Service, mx *metrics.Metrics) *Processor {
	return &Processor{
		secret: []byte(secret),
		orders: orders,
		mx:     mx,
		seen:   make(map[string]struct{}),
	}
}

// Process verifies the raw body against the signature header, suppresses
// duplicate deliveries, and advances a PENDING order to PAID on
// payment.succeeded. Every other outcome is reported as ignored with a reason
// rather than an error.
func (p *Processor) Process(ctx context.Context, body []byte, signature string) (*Result, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "webhook_processor"))

	if err := VerifySignature(p.secret, body, signature); err != nil {
		logger.Warn("webhook_rejected", zap.Error(err))
		p.mx.WebhookEvent(resultRejected)
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		p.mx.WebhookEvent(resultRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if event.Timestamp == nil {
		now := time.Now().UTC()
		event.Timestamp = &now
	}

	if p.replayed(event.dedupKey()) {
		logger.Info("webhook_duplicate",
			zap.String("event_type", event.EventType),
			zap.String("payment_id", event.PaymentID),
			zap.Int64("order_id", event.OrderID),
		)
		p.mx.WebhookEvent(resultDuplicate)
		return &Result{Status: StatusIgnored, Reason: "duplicate_event"}, nil
	}

	if event.EventType != EventPaymentSucceeded {
		logger.Info("webhook_unhandled", zap.String("event_type", event.EventType))
		p.mx.WebhookEvent(resultIgnored)
		return &Result{
			Status: StatusIgnored,
			Reason: fmt.Sprintf("unhandled event type: %s", event.EventType),
		}, nil
	}

	current, err := p.orders.GetOrder(ctx, event.OrderID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusPending {
		logger.Info("webhook_ignored_status",
			zap.Int64("order_id", event.OrderID),
			zap.String("order_status", string(current.Status)),
		)
		p.mx.WebhookEvent(resultIgnored)
		return &Result{
			Status: StatusIgnored,
			Reason: fmt.Sprintf("order status is %s, expected %s", current.Status, domain.StatusPending),
		}, nil
	}

	updated, err := p.orders.UpdateStatus(ctx, event.OrderID, domain.StatusPaid)
	if err != nil {
		return nil, err
	}

	logger.Info("webhook_processed",
		zap.Int64("order_id", updated.ID),
		zap.String("payment_id", event.PaymentID),
	)
	p.mx.WebhookEvent(resultProcessed)
	return &Result{
		Status:    StatusProcessed,
		OrderID:   updated.ID,
		NewStatus: updated.Status,
	}, nil
}

// replayed records the key on first sight and reports whether it was already
// present.
func (p *Processor) replayed(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[key]; ok {
		return true
	}
	p.seen[key] = struct{}{}
	return false
}
