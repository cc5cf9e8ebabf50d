package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type DefaultKafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return k.writer.WriteMessages(ctx, km...)
}

// PublishRefresh sends one refresh event keyed by its run id.
func (k *DefaultKafkaPublisher) PublishRefresh(ctx context.Context, event domain.RefreshEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh event: %w", err)
	}

	return k.Publish(ctx, k.topic, domain.Message{Key: []byte(event.RunID), Value: v})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
