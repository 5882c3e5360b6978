package services

import (
	"context"
	"log/slog"

	"pembukuan/internal/amqp"
)

// EventPublisher receives committed ledger changes. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

// Invalidator is told whenever an owner's ledger state changed.
type Invalidator interface {
	Invalidate(owner string)
}

// publish never fails the caller: the local write already succeeded.
func publish(ctx context.Context, p EventPublisher, event *amqp.LedgerEvent) {
	if p == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping ledger event", "type", event.Type)
		return
	}
	if err := p.PublishLedgerEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", event.Type,
			"owner", event.Owner,
			"error", err)
	}
}
