package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	"github.com/Temutjin2k/navigator/pkg/metrics"
	"github.com/Temutjin2k/navigator/pkg/rabbit"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishAttempts = 3

// StatePublisher publishes loading and route changes to navigation_topic.
type StatePublisher struct {
	client   *rabbit.RabbitMQ
	exchange string
	l        logger.Logger

	mu       sync.Mutex
	declared *amqp.Channel

	now func() time.Time
}

func NewStatePublisher(client *rabbit.RabbitMQ, l logger.Logger) *StatePublisher {
	return &StatePublisher{
		client:   client,
		exchange: ExchangeNavigation,
		l:        l,
		now:      time.Now,
	}
}

func (p *StatePublisher) OnLoading(ctx context.Context, loading bool) error {
	return p.publish(ctx, KeyNavigationLoading, loadingEvent(ctx, loading, p.now()))
}

func (p *StatePublisher) OnRoute(ctx context.Context, route models.RouteUpdate) error {
	return p.publish(ctx, KeyNavigationRoute, routeEvent(route, p.now()))
}

func loadingEvent(ctx context.Context, loading bool, at time.Time) models.NavigationEventMessage {
	kind := types.NavLoadingStopped
	if loading {
		kind = types.NavLoadingStarted
	}

	return models.NavigationEventMessage{
		Type:      kind.String(),
		UserID:    wrap.FromContext(ctx).UserID,
		Loading:   &loading,
		Timestamp: at,
	}
}

func routeEvent(route models.RouteUpdate, at time.Time) models.NavigationEventMessage {
	return models.NavigationEventMessage{
		Type:      types.NavRouteReceived.String(),
		UserID:    route.UserID,
		Route:     route.Payload,
		Timestamp: at,
	}
}

func (p *StatePublisher) publish(ctx context.Context, key string, msg models.NavigationEventMessage) error {
	const op = "StatePublisher.publish"

	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_navigation_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	err = retry(ctx, publishAttempts, 200*time.Millisecond, func() error {
		ch, err := p.client.EnsureConnection(ctx)
		if err != nil {
			return err
		}

		if err := p.ensureExchange(ctx, ch); err != nil {
			return err
		}

		return ch.PublishWithContext(
			ctx,
			p.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
				Timestamp:   msg.Timestamp,
			},
		)
	})
	metrics.RecordRabbitMQPublish(serviceName, key, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish %s: %w", op, msg.Type, err))
	}

	p.l.Debug(ctx, "navigation event published", "type", msg.Type, "key", key)
	return nil
}

// ensureExchange declares the exchange once per channel.
func (p *StatePublisher) ensureExchange(ctx context.Context, ch *amqp.Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.declared == ch {
		return nil
	}
	if err := declareExchange(ctx, ch, p.exchange); err != nil {
		return err
	}
	p.declared = ch
	return nil
}
