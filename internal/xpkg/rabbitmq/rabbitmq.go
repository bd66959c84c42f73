// Package rabbitmq owns the broker connection shared by the order event
// publisher and the notification subscriber: dialing, topology, liveness and
// background reconnects.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/events"
	"naikai-shop/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrConnClosed = errors.New("rabbitmq connection is closed")
	ErrNotAcked   = errors.New("rabbitmq did not ack the message")
)

type Conn struct {
	ctx          context.Context
	cfg          *config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           sync.Mutex

	prefetch int
	interval time.Duration
	// declareQueue also declares and binds the notifications queue.
	declareQueue bool
}

type Option func(*Conn)

func WithPrefetch(n int) Option {
	return func(c *Conn) { c.prefetch = n }
}

// WithQueue makes the connection declare the notifications queue on top of
// the exchange.
func WithQueue() Option {
	return func(c *Conn) { c.declareQueue = true }
}

func WithReconnectInterval(d time.Duration) Option {
	return func(c *Conn) { c.interval = d }
}

// Dial connects and declares the topology. ctx bounds background reconnects.
func Dial(ctx context.Context, cfg *config.RabbitMQ, mylog logger.Logger, opts ...Option) (*Conn, error) {
	c := &Conn{
		ctx:      ctx,
		cfg:      cfg,
		mylog:    mylog,
		interval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// URL builds the amqp URL for cfg.
func URL(cfg *config.RabbitMQ) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.VHost,
	}
	return u.String()
}

func (c *Conn) connect() error {
	conn, err := amqp.Dial(URL(c.cfg))
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return err
	}

	if c.prefetch > 0 {
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			_ = conn.Close()
			return err
		}
	}

	if err := declare(ch, c.declareQueue); err != nil {
		_ = conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	c.mu.Unlock()
	return nil
}

func declare(ch *amqp.Channel, withQueue bool) error {
	if err := ch.ExchangeDeclare(events.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", events.Exchange, err)
	}
	if !withQueue {
		return nil
	}

	if _, err := ch.QueueDeclare(events.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", events.Queue, err)
	}
	if err := ch.QueueBind(events.Queue, events.BindingOrders, events.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", events.Queue, err)
	}
	return nil
}

func (c *Conn) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() {
		return false
	}
	return c.ch != nil && !c.ch.IsClosed()
}

// Publish sends body to the exchange and waits for the broker confirm. A
// closed connection starts a background reconnect and fails fast.
func (c *Conn) Publish(ctx context.Context, routingKey string, body []byte) error {
	if !c.IsAlive() {
		c.mylog.Action("publish").Error("Connection to rabbitmq is closed", ErrConnClosed)
		go c.reconnect()
		return ErrConnClosed
	}

	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	conf, err := ch.PublishWithDeferredConfirmWithContext(ctx, events.Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	ok, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	if !ok {
		return fmt.Errorf("publish %s: %w", routingKey, ErrNotAcked)
	}
	return nil
}

// Consume starts delivering from the notifications queue with manual acks.
func (c *Conn) Consume(ctx context.Context, consumer string) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	if ch == nil || ch.IsClosed() {
		return nil, ErrConnClosed
	}
	return ch.ConsumeWithContext(ctx, events.Queue, consumer, false, false, false, false, nil)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

func (c *Conn) reconnect() {
	c.mu.Lock()
	if c.reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	t := time.NewTicker(c.interval)
	defer t.Stop()
	mylog := c.mylog.Action("rabbitmq_reconnecting")

	for {
		select {
		case <-t.C:
			if err := c.connect(); err != nil {
				mylog.Warn("rabbitmq failed to reconnect", "error", err.Error())
				continue
			}
			mylog.Info("rabbitmq reconnected")
			return

		case <-c.ctx.Done():
			return
		}
	}
}
