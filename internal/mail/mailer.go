package mail

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bazario/api/internal/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer hands a message to the delivery collaborator. Implementations do
// not guarantee delivery, only acceptance.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// RedisOutbox appends messages to a redis stream consumed by the delivery
// worker. An enqueue failure is the caller's failure; there is no retry
// here.
type RedisOutbox struct {
	client *redis.Client
	cfg    config.MailConfig
}

func NewRedisOutbox(client *redis.Client, cfg config.MailConfig) *RedisOutbox {
	return &RedisOutbox{
		client: client,
		cfg:    cfg,
	}
}

func (o *RedisOutbox) Send(ctx context.Context, msg Message) error {
	_, err := o.client.XAdd(ctx, &redis.XAddArgs{
		Stream: o.cfg.OutboxStream,
		Values: map[string]any{
			"from":    o.cfg.FromAddress,
			"to":      msg.To,
			"subject": msg.Subject,
			"body":    msg.Body,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}
