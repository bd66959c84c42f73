package brokermessage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/events"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/rabbitmq"
)

// Publisher sends order events to the notifications exchange.
type Publisher struct {
	conn  *rabbitmq.Conn
	mylog logger.Logger
}

func New(ctx context.Context, cfg *config.RabbitMQ, mylog logger.Logger) (*Publisher, error) {
	conn, err := rabbitmq.Dial(ctx, cfg, mylog,
		rabbitmq.WithReconnectInterval(core.MBReconnInterval*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRMQConn, err)
	}
	return &Publisher{conn: conn, mylog: mylog}, nil
}

func (p *Publisher) PublishOrderEvent(ctx context.Context, event events.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	if err := p.conn.Publish(ctx, event.RoutingKey(), body); err != nil {
		return err
	}

	p.mylog.Action("order_event_published").Debug("Published order event",
		"order_id", event.OrderID, "routing_key", event.RoutingKey(), "new_status", event.NewStatus)
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// Nop drops every event. It stands in when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderEvent(context.Context, events.OrderEvent) error { return nil }
func (Nop) Close() error                                                { return nil }

var (
	_ core.IPublisher = (*Publisher)(nil)
	_ core.IPublisher = Nop{}
)
