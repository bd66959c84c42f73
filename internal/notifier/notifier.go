package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/events"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	consumerTag = "notification-subscriber"
	prefetch    = 10
)

// ErrDeliveriesClosed is returned by Run when the broker closes the consumer
// channel while the notifier is still meant to be running.
var ErrDeliveriesClosed = errors.New("delivery channel closed by broker")

// Notifier prints a line for every order event on the notifications queue.
type Notifier struct {
	cfg    *config.Config
	mylog  logger.Logger
	mb     *rabbitmq.Conn
	out    io.Writer
	ctx    context.Context
	appCtx context.Context

	mu    sync.Mutex
	outMu sync.Mutex
	wg    sync.WaitGroup
}

func NewNotifier(ctx, appCtx context.Context, cfg *config.Config, mylog logger.Logger) *Notifier {
	return &Notifier{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		out:    os.Stdout,
	}
}

// Run connects, starts consuming and blocks until ctx is cancelled. It
// returns ErrDeliveriesClosed if the broker ends the consumer first.
func (n *Notifier) Run() error {
	mylog := n.mylog.Action("notifier_run")

	mb, err := rabbitmq.Dial(n.appCtx, n.cfg.RMQ, n.mylog, rabbitmq.WithQueue(), rabbitmq.WithPrefetch(prefetch))
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	n.mu.Lock()
	n.mb = mb
	n.mu.Unlock()
	mylog.Action("mb_connected").Info("Successful message broker connection")

	deliveries, err := mb.Consume(n.appCtx, consumerTag)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", events.Queue, err)
	}

	return n.work(deliveries)
}

func (n *Notifier) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.mylog.Action("graceful_shutdown_started").Info("Shutting down")

	n.wg.Wait()

	if n.mb != nil {
		if err := n.mb.Close(); err != nil {
			n.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
	}

	n.mylog.Action("graceful_shutdown_completed").Info("Notifier stopped")
	return nil
}

func (n *Notifier) work(deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-n.ctx.Done():
			n.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return nil

		case msg, ok := <-deliveries:
			if !ok {
				if n.ctx.Err() != nil {
					return nil
				}
				n.mylog.Action("deliveries_closed").Error("Consumer channel closed", ErrDeliveriesClosed)
				return ErrDeliveriesClosed
			}
			n.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer n.wg.Done()
				n.handle(msg)
			}(msg)
		}
	}
}

// handle acks a printed event. Undecodable bodies are dropped without requeue
// since redelivering them cannot succeed.
func (n *Notifier) handle(msg amqp.Delivery) {
	event, err := events.Decode(msg.Body)
	if err != nil {
		n.mylog.Action("decode_failed").Error("Dropping malformed order event", err, "routing_key", msg.RoutingKey)
		if err := msg.Nack(false, false); err != nil {
			n.mylog.Action("nack_failed").Error("Failed to nack", err)
		}
		return
	}

	n.mylog.Action("notification_received").Debug("Received order event",
		"order_id", event.OrderID, "routing_key", msg.RoutingKey)

	n.print(event)

	if err := msg.Ack(false); err != nil {
		n.mylog.Action("ack_failed").Error("Failed to ack", err, "order_id", event.OrderID)
	}
}

func (n *Notifier) print(event events.OrderEvent) {
	n.outMu.Lock()
	defer n.outMu.Unlock()
	fmt.Fprintln(n.out, event.String())
}
