package audit

import (
	"context"
	"encoding/json"

	"github.com/farm2school/order/internal/dal/rabbitmq"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// OrderCreatedQueue is the queue the audit consumer reads from.
const OrderCreatedQueue = "f2s.order.created"

// AuditRabbitMQRepository publishes order lifecycle events to RabbitMQ.
type AuditRabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

// NewAuditRabbitMQRepository declares the audit queue and returns the repository.
func NewAuditRabbitMQRepository(client *rabbitmq.Client) (*AuditRabbitMQRepository, error) {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       OrderCreatedQueue,
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		return nil, err
	}

	return &AuditRabbitMQRepository{
		client: client,
		queue:  queue,
	}, nil
}

// LogOrderCreated publishes the created order to the audit queue.
func (r *AuditRabbitMQRepository) LogOrderCreated(_ context.Context, o order.Order) error {
	orderData, err := json.Marshal(o)
	if err != nil {
		return err
	}

	return r.client.Channel().Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			MessageId:   uuid.NewString(),
			ContentType: "application/json",
			Body:        orderData,
		},
	)
}
