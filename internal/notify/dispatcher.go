package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/logger"
	"github.com/distributech/distributech-backend/pkg/mail"
	"github.com/distributech/distributech-backend/pkg/metrics"
)

// Notification kinds used for logging and metric labels.
const (
	KindOrderCreated = "order_created"
	KindLowStock     = "low_stock"
	KindStatusChange = "status_change"
	KindTest         = "test"
)

// Notification pairs a rendered message with its kind label.
type Notification struct {
	Kind    string
	Message mail.Message
}

// Dispatcher funnels notifications through a bounded queue served by a fixed
// worker pool. Enqueue never blocks the caller; a full queue drops the
// notification.
type Dispatcher struct {
	sender      mail.Sender
	logg        *logger.Logger
	metrics     *metrics.MailMetrics
	queue       chan Notification
	sendTimeout time.Duration
	workers     int

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher wires the dispatcher dependencies.
func NewDispatcher(sender mail.Sender, logg *logger.Logger, m *metrics.MailMetrics, cfg config.MailConfig) (*Dispatcher, error) {
	if sender == nil {
		return nil, errors.New("mail sender is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 128
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	return &Dispatcher{
		sender:      sender,
		logg:        logg,
		metrics:     m,
		queue:       make(chan Notification, queueSize),
		sendTimeout: sendTimeout,
		workers:     workers,
	}, nil
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Close stops accepting new notifications and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

// Enqueue offers the notification to the queue without blocking. It reports
// whether the notification was accepted.
func (d *Dispatcher) Enqueue(ctx context.Context, n Notification) bool {
	select {
	case d.queue <- n:
		d.metrics.IncEnqueued(n.Kind)
		d.metrics.SetQueueDepth(len(d.queue))
		return true
	default:
		d.metrics.IncDropped(n.Kind)
		d.logg.Warn(d.logg.WithFields(ctx, map[string]any{
			"kind":    n.Kind,
			"subject": n.Message.Subject,
		}), "mail queue full, notification dropped")
		return false
	}
}

// SendSync delivers the notification on the caller's goroutine and reports
// success. Delivery failures are logged, never returned.
func (d *Dispatcher) SendSync(ctx context.Context, n Notification) bool {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, n.Message); err != nil {
		d.metrics.IncFailed(n.Kind)
		d.logg.Error(d.logg.WithField(ctx, "kind", n.Kind), "notification send failed", err)
		return false
	}
	d.metrics.IncSent(n.Kind)
	return true
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		d.SendSync(context.Background(), n)
	}
}
