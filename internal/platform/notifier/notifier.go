// Package notifier delivers fire-and-forget account notifications over a
// webhook. Events are queued on a bounded channel and drained by a single
// background worker so ledger operations never block on delivery.
package notifier

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bankops/ledgercore/internal/core/domain"
)

const (
	maxDeliveryAttempts = 3
	retryBackoff        = 2 * time.Second
)

// Dispatcher implements services.NotificationSink.
type Dispatcher struct {
	webhookURL string
	queue      chan domain.NotificationRequest
	client     *http.Client
	logger     *slog.Logger
	done       chan struct{}
}

// NewDispatcher creates a dispatcher with a bounded queue of the given size.
// An empty webhookURL disables delivery; events are still accepted and logged.
func NewDispatcher(webhookURL string, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		webhookURL: webhookURL,
		queue:      make(chan domain.NotificationRequest, queueSize),
		client:     &http.Client{},
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Enqueue hands off an event without blocking. When the queue is full the
// event is dropped and counted in the logs; notification delivery is best
// effort and must never stall a ledger mutation.
func (d *Dispatcher) Enqueue(event domain.NotificationRequest) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("notification queue full, dropping event",
			slog.String("event_type", string(event.EventType)),
			slog.String("account_number", event.AccountNumber))
	}
}

// Start runs the delivery worker until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Done is closed once the worker has drained and exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

// drain flushes whatever is still queued at shutdown using a short grace
// window per event.
func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			d.deliver(ctx, event)
			cancel()
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event domain.NotificationRequest) {
	if d.webhookURL == "" {
		d.logger.Info("notification (no webhook configured)",
			slog.String("event_type", string(event.EventType)),
			slog.String("account_number", event.AccountNumber))
		return
	}

	var err error
	for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
		err = SendWebhook(ctx, d.client, d.webhookURL, event)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < maxDeliveryAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryBackoff):
			}
		}
	}
	d.logger.Error("notification delivery failed",
		slog.String("event_type", string(event.EventType)),
		slog.String("account_number", event.AccountNumber),
		slog.String("error", err.Error()))
}
