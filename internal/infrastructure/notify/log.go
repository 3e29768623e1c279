package notify

import (
	"context"
	"log/slog"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// LogSink records events in the log when no broker is configured.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(ctx context.Context, ev entity.OrderEvent) error {
	s.log.InfoContext(ctx, "order event",
		"type", ev.Type,
		"order_id", ev.OrderID,
		"order_number", ev.OrderNumber,
		"user_id", ev.UserID,
		"status", ev.Status,
		"total", ev.TotalAmount.StringFixed(2),
	)
	return nil
}
