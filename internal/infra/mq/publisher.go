package mq

import (
	"context"
	"encoding/json"
	"sync"

	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher fans derived events out on a topic exchange. Consumers bind
// their own queues with the routing keys they care about.
type Publisher struct {
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(cfg config.MQConfig) (*Publisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to message broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open broker channel")
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare exchange")
	}

	p := &Publisher{exchange: cfg.Exchange, conn: conn, ch: ch}
	cleanup := func() {
		_ = p.ch.Close()
		_ = p.conn.Close()
	}
	return p, cleanup, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode event payload")
	}

	// amqp channels are not safe for concurrent publish.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return errs.Wrap(err, "failed to publish event")
	}
	return nil
}

var _ commands.EventPublisher = (*Publisher)(nil)
