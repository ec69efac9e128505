package notify

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/model"
)

const routingKeyPrefix = "notification."

// Publisher is implemented by amqp.Broker.
type Publisher interface {
	Publish(ctx context.Context, message any, key string) error
}

type amqpNotifier struct {
	pub Publisher
}

func NewAMQP(pub Publisher) Notifier {
	return &amqpNotifier{pub: pub}
}

func RoutingKey(kind model.NotificationKind) string {
	return routingKeyPrefix + string(kind)
}

func (a *amqpNotifier) Notify(ctx context.Context, _ string, n model.Notification) error {
	return a.pub.Publish(ctx, n, RoutingKey(n.Kind))
}
