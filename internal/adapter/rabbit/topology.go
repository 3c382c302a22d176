package rabbit

import (
	"context"
	"fmt"

	wrap "github.com/Temutjin2k/navigator/pkg/logger/wrapper"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeLocationFanout = "location_fanout"
	ExchangeNavigation     = "navigation_topic"

	QueueNavigatorLocations = "navigator_locations"

	KeyNavigationLoading = "navigation.loading"
	KeyNavigationRoute   = "navigation.route"
)

var exchangeKinds = map[string]string{
	ExchangeLocationFanout: amqp.ExchangeFanout,
	ExchangeNavigation:     amqp.ExchangeTopic,
}

func exchangeKind(name string) string {
	if kind, ok := exchangeKinds[name]; ok {
		return kind
	}
	return amqp.ExchangeTopic
}

func declareExchange(ctx context.Context, ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(name, exchangeKind(name), true, false, false, false, nil); err != nil {
		return wrap.Error(ctx, fmt.Errorf("declare exchange %q: %w", name, err))
	}
	return nil
}

// declareAndBindQueue declares a durable queue and binds it to exchange.
func declareAndBindQueue(ctx context.Context, ch *amqp.Channel, queueName, bindingKey, exchange string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("declare queue %q: %w", queueName, err))
	}

	if err := ch.QueueBind(q.Name, bindingKey, exchange, false, nil); err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("bind queue %q: %w", queueName, err))
	}

	return q, nil
}
