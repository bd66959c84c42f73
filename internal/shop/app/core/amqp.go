package core

import (
	"context"

	"naikai-shop/internal/xpkg/events"
)

type IPublisher interface {
	Close() error
	PublishOrderEvent(ctx context.Context, event events.OrderEvent) error
}
