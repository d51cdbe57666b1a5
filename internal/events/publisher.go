// Package events публикует события жизненного цикла пользователей в RabbitMQ.
package events

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/clipstream/user-service/internal/models"
	"github.com/clipstream/user-service/internal/rabbitmq"
)

// Publisher отправляет события пользователей в exchange "users".
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishUserRegistered публикует событие о регистрации нового пользователя.
func (p *Publisher) PublishUserRegistered(_ context.Context, event models.UserRegisteredEvent) error {
	const op = "events.PublishUserRegistered"
	if err := rabbitmq.PublishMessage(p.ch, rabbitmq.UsersExchange, "registered", event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
