package eventbus

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/authcrest/session-engine/internal/api/metrics"
	"github.com/authcrest/session-engine/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Handler consumes one domain event. Handlers run on the worker
// goroutine for the event's aggregate shard, so they must not block
// indefinitely.
type Handler func(ctx context.Context, event domain.DomainEvent) error

// Bus is an in-process event bus. Events are routed to a fixed set of
// workers by consistent hashing on the aggregate id, which keeps
// events for one user in publish order while different users fan out
// across workers.
type Bus struct {
	workers []chan domain.DomainEvent
	log     zerolog.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates a Bus with numWorkers sharded workers. If
// numWorkers <= 0, defaultWorkers is used.
func NewBus(numWorkers int, log zerolog.Logger) *Bus {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	b := &Bus{
		workers:  make([]chan domain.DomainEvent, numWorkers),
		log:      log,
		handlers: make(map[string][]Handler),
	}
	for i := range b.workers {
		b.workers[i] = make(chan domain.DomainEvent, channelBuffer)
	}
	return b
}

// Subscribe registers a handler for an event name. Handlers registered
// after Start still receive subsequent events.
func (b *Bus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Start launches all worker goroutines. Workers stop when ctx is
// cancelled.
func (b *Bus) Start(ctx context.Context) {
	for i, ch := range b.workers {
		go b.runWorker(ctx, i, ch)
	}
}

// Publish enqueues one event to the worker responsible for its
// aggregate. Non-blocking up to channelBuffer capacity.
func (b *Bus) Publish(ctx context.Context, event domain.DomainEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case b.workers[b.shardIndex(event.AggregateID())] <- event:
		metrics.EventsPublished.WithLabelValues(event.EventName()).Inc()
		return nil
	}
}

// PublishMany enqueues events preserving per-aggregate ordering.
func (b *Bus) PublishMany(ctx context.Context, events []domain.DomainEvent) error {
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32()) % len(b.workers)
}

func (b *Bus) runWorker(ctx context.Context, id int, ch <-chan domain.DomainEvent) {
	worker := strconv.Itoa(id)
	for {
		metrics.EventQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.dispatch(ctx, id, event)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, workerID int, event domain.DomainEvent) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			b.log.Error().Err(err).
				Str("event", event.EventName()).
				Str("event_id", event.EventID()).
				Str("aggregate_id", event.AggregateID()).
				Int("worker_id", workerID).
				Msg("event handler failed")
		}
	}
}
