package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type collectSink struct {
	mu     sync.Mutex
	events []entity.OrderEvent
	gate   chan struct{}
}

func (s *collectSink) Send(ctx context.Context, ev entity.OrderEvent) error {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *collectSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func event(number string) entity.OrderEvent {
	return entity.OrderEvent{Type: entity.EventOrderPlaced, OrderNumber: number, Status: entity.StatusPending}
}

func TestAsyncPublisher_DeliversAndDrains(t *testing.T) {
	sink := &collectSink{}
	p := NewAsyncPublisher(sink, 8, quietLogger())

	for _, n := range []string{"A", "B", "C"} {
		p.Publish(context.Background(), event(n))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if sink.count() != 3 {
		t.Fatalf("expected 3 delivered events, got %d", sink.count())
	}
	if sink.events[0].OrderNumber != "A" || sink.events[2].OrderNumber != "C" {
		t.Fatalf("events out of order: %+v", sink.events)
	}
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	sink := &collectSink{gate: make(chan struct{})}
	p := NewAsyncPublisher(sink, 1, quietLogger())

	// the worker takes the first event and blocks on the gate; the queue
	// then holds one more and everything after that is dropped
	p.Publish(context.Background(), event("A"))
	deadline := time.Now().Add(time.Second)
	for len(p.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	p.Publish(context.Background(), event("B"))
	p.Publish(context.Background(), event("C"))
	p.Publish(context.Background(), event("D"))

	if p.Dropped() != 2 {
		t.Fatalf("expected 2 dropped events, got %d", p.Dropped())
	}

	close(sink.gate)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if sink.count() != 2 {
		t.Fatalf("expected 2 delivered events, got %d", sink.count())
	}

	p.Publish(context.Background(), event("E"))
	if p.Dropped() != 3 {
		t.Fatalf("publish after close should drop, dropped=%d", p.Dropped())
	}
}

type fakeProducer struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaSink_Send(t *testing.T) {
	prod := &fakeProducer{}
	sink := NewKafkaSink(prod)

	ev := entity.OrderEvent{
		Type:        entity.EventOrderStatusChanged,
		OrderID:     7,
		OrderNumber: "ABC",
		Status:      entity.StatusDelivered,
		Previous:    entity.StatusShipped,
		TotalAmount: decimal.RequireFromString("2300.00"),
		OccurredAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := sink.Send(context.Background(), ev); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(prod.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(prod.msgs))
	}
	msg := prod.msgs[0]
	if string(msg.Key) != "ABC" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "order.status_changed" {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}

	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["status"] != "DELIVERED" || decoded["previous_status"] != "SHIPPED" || decoded["total_amount"] != "2300" {
		t.Fatalf("unexpected payload %v", decoded)
	}
}

func TestKafkaSink_SendError(t *testing.T) {
	brokerErr := errors.New("broker down")
	sink := NewKafkaSink(&fakeProducer{err: brokerErr})
	if err := sink.Send(context.Background(), event("A")); !errors.Is(err, brokerErr) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}
