package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/CameronXie/grubdash/internal/domain"
)

type Type string

const (
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
	OrderDeleted Type = "order.deleted"
)

// OrderEvent describes a completed change to an order. Type doubles as the routing key.
type OrderEvent struct {
	Type       Type         `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Order      domain.Order `json:"order"`
}

// Publisher delivers order events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, event *OrderEvent) error
}

type logPublisher struct {
	logger *slog.Logger
}

// Publish writes the event to the log.
func (p *logPublisher) Publish(ctx context.Context, event *OrderEvent) error {
	p.logger.InfoContext(
		ctx,
		"order event",
		"type", event.Type,
		"order_id", event.Order.ID,
		"status", event.Order.Status,
	)

	return nil
}

// NewLogPublisher returns a Publisher that only logs events. It is used when no broker is configured.
func NewLogPublisher(logger *slog.Logger) Publisher {
	return &logPublisher{logger: logger}
}
