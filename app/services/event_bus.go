package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/km-arc/go-modular/app/contracts"
	"github.com/km-arc/go-modular/framework/container"
)

// MemoryEventBus delivers events in-process, synchronously, to every active
// EventHandler that handles the event's name, in activation order.
type MemoryEventBus struct {
	c      *container.Container
	logger *slog.Logger
}

// NewMemoryEventBus keeps c to look handlers up at publish time.
func NewMemoryEventBus(c *container.Container, logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{c: c, logger: logger}
}

func (b *MemoryEventBus) ModuleName() string { return "memory-event-bus" }

// Publish stops at the first handler error.
func (b *MemoryEventBus) Publish(ctx context.Context, event contracts.Event) error {
	handlers, err := container.GetAll[contracts.EventHandler](b.c)
	if err != nil {
		return fmt.Errorf("resolving event handlers: %w", err)
	}

	delivered := 0
	for _, h := range handlers {
		if !slices.Contains(h.Handles(), event.EventName()) {
			continue
		}
		if err := h.Handle(ctx, event); err != nil {
			return fmt.Errorf("handler %s: %w", h.ModuleName(), err)
		}
		delivered++
	}

	if delivered == 0 {
		b.logger.Warn("no handlers registered for event", "event", event.EventName())
	}
	return nil
}
