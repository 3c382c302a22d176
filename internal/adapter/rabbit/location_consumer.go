package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/Temutjin2k/navigator/pkg/metrics"
	"github.com/Temutjin2k/navigator/pkg/rabbit"
	amqp "github.com/rabbitmq/amqp091-go"
)

const serviceName = "navigator"

type LocationHandler func(ctx context.Context, msg models.LocationUpdateMessage) error

// LocationConsumer feeds location samples published to location_fanout into the navigator.
type LocationConsumer struct {
	client *rabbit.RabbitMQ
	queue  string
	l      logger.Logger
}

func NewLocationConsumer(client *rabbit.RabbitMQ, queue string, l logger.Logger) *LocationConsumer {
	if queue == "" {
		queue = QueueNavigatorLocations
	}
	return &LocationConsumer{client: client, queue: queue, l: l}
}

// Consume blocks until ctx is done, re-establishing the subscription whenever the broker goes away.
func (c *LocationConsumer) Consume(ctx context.Context, fn LocationHandler) error {
	const op = "LocationConsumer.Consume"
	ctx = wrap.WithAction(ctx, "consume_locations")

	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "location consumer stopped by context")
			return nil
		}

		msgs, err := c.subscribe(ctx)
		if err != nil {
			c.l.Error(ctx, "subscribe failed", err, "op", op)
			pause(ctx, 2*time.Second)
			continue
		}

		c.l.Info(ctx, "start consuming locations", "queue", c.queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				c.l.Info(ctx, "location consumer shutting down", "op", op)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					c.l.Warn(ctx, "message channel closed, resubscribing", "op", op)
					pause(ctx, 2*time.Second)
					break consumeLoop
				}

				// samples are applied in delivery order; a newer one supersedes an older one
				c.handleMessage(ctx, fn, msg)
			}
		}
	}
}

func (c *LocationConsumer) subscribe(ctx context.Context) (<-chan amqp.Delivery, error) {
	ch, err := c.client.EnsureConnection(ctx)
	if err != nil {
		return nil, err
	}

	if err := declareExchange(ctx, ch, ExchangeLocationFanout); err != nil {
		return nil, err
	}

	q, err := declareAndBindQueue(ctx, ch, c.queue, "", ExchangeLocationFanout)
	if err != nil {
		return nil, err
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("register consumer: %w", err))
	}
	return msgs, nil
}

func (c *LocationConsumer) handleMessage(ctx context.Context, fn LocationHandler, msg amqp.Delivery) {
	const op = "LocationConsumer.handleMessage"

	var req models.LocationUpdateMessage
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		metrics.RecordRabbitMQConsume(serviceName, c.queue, err)
		c.l.Error(ctx, "decode failed", err, "op", op)
		_ = msg.Nack(false, false)
		return
	}

	if req.UserID != "" {
		ctx = wrap.WithUserID(ctx, req.UserID)
	}

	err := fn(ctx, req)
	metrics.RecordRabbitMQConsume(serviceName, c.queue, err)
	if err != nil {
		if isDroppable(err) {
			c.l.Warn(ctx, "dropping location", "reason", err.Error())
			_ = msg.Reject(false)
			return
		}

		c.l.Error(wrap.ErrorCtx(ctx, err), "handler failed", err, "op", op)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	if err := msg.Ack(false); err != nil {
		c.l.Warn(ctx, "ack failed", "error", err.Error(), "op", op)
	}
}
