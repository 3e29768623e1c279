package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter returns a writer that keys messages to partitions by hash.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// KafkaSink writes events as JSON keyed by order number, so all events of
// one order land on the same partition in order.
type KafkaSink struct {
	producer Producer
}

func NewKafkaSink(p Producer) *KafkaSink {
	return &KafkaSink{producer: p}
}

func (s *KafkaSink) Send(ctx context.Context, ev entity.OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.OrderNumber),
		Value: payload,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	if err := s.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}
