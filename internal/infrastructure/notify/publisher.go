package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// Sink delivers one event to its destination.
type Sink interface {
	Send(ctx context.Context, ev entity.OrderEvent) error
}

// AsyncPublisher hands events to a single worker through a bounded queue.
// Publish never blocks; events are dropped when the queue is full or the
// publisher is closed.
type AsyncPublisher struct {
	sink        Sink
	log         *slog.Logger
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan entity.OrderEvent
	done   chan struct{}

	dropped atomic.Int64
}

func NewAsyncPublisher(sink Sink, size int, log *slog.Logger) *AsyncPublisher {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}
	p := &AsyncPublisher{
		sink:        sink,
		log:         log,
		sendTimeout: 5 * time.Second,
		queue:       make(chan entity.OrderEvent, size),
		done:        make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) Publish(_ context.Context, ev entity.OrderEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.drop(ev, "publisher closed")
		return
	}
	select {
	case p.queue <- ev:
	default:
		p.drop(ev, "queue full")
	}
}

// Dropped reports how many events were discarded.
func (p *AsyncPublisher) Dropped() int64 { return p.dropped.Load() }

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.sendTimeout)
		if err := p.sink.Send(ctx, ev); err != nil {
			p.log.Error("order event delivery failed",
				"type", ev.Type, "order_number", ev.OrderNumber, "err", err)
		}
		cancel()
	}
}

func (p *AsyncPublisher) drop(ev entity.OrderEvent, reason string) {
	p.dropped.Add(1)
	p.log.Warn("order event dropped", "type", ev.Type, "order_number", ev.OrderNumber, "reason", reason)
}
