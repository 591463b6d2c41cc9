package notify

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Dispatcher decouples notification delivery from the routing operations that
// emit events. Events are queued after the routing write has committed and
// drained by worker goroutines; a failed or dropped delivery is logged and
// counted but never surfaces to the caller that enqueued it.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	queue    chan Event
	timeout  time.Duration
	wg       sync.WaitGroup

	closeOnce sync.Once

	delivered prometheus.Counter
	failed    prometheus.Counter
	dropped   prometheus.Counter
}

// DispatcherOptions configure queue depth, worker count and per-event timeout.
type DispatcherOptions struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

// NewDispatcher creates a Dispatcher and starts its workers.
func NewDispatcher(notifier Notifier, log *zap.Logger, reg prometheus.Registerer, opts DispatcherOptions) (*Dispatcher, error) {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	d := &Dispatcher{
		notifier: notifier,
		log:      log,
		queue:    make(chan Event, opts.QueueSize),
		timeout:  opts.Timeout,
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Total number of notifications delivered.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notification deliveries that returned an error.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Total number of notifications dropped because the queue was full.",
		}),
	}

	for _, c := range []prometheus.Counter{d.delivered, d.failed, d.dropped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d, nil
}

// Enqueue hands an event to the dispatch queue without blocking. A full queue
// drops the event; the routing operation that emitted it already committed
// and must not be held up by a slow notification backend.
func (d *Dispatcher) Enqueue(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.dropped.Inc()
		d.log.Warn("notification dropped, queue full",
			zap.String("recipient_id", ev.RecipientID),
			zap.String("kind", string(ev.Kind)),
		)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.failed.Inc()
			d.log.Error("notifier panicked",
				zap.Any("panic", r),
				zap.String("kind", string(ev.Kind)),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	ctx, span := otel.Tracer("notify").Start(ctx, "notify.deliver",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("notify.kind", string(ev.Kind)),
			attribute.String("notify.recipient_id", ev.RecipientID),
		),
	)
	defer span.End()

	if err := d.notifier.Notify(ctx, ev.RecipientID, ev.Kind, ev.Payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		d.failed.Inc()
		d.log.Warn("notification delivery failed",
			zap.String("recipient_id", ev.RecipientID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
		return
	}
	d.delivered.Inc()
}
