package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type RefreshEvent struct {
	RunID           string    `json:"run_id"`
	Processed       int       `json:"processed"`
	Created         int       `json:"created"`
	Updated         int       `json:"updated"`
	Skipped         int       `json:"skipped"`
	SummaryRendered bool      `json:"summary_rendered"`
	RefreshedAt     time.Time `json:"refreshed_at"`
}

type RefreshEventPublisher interface {
	PublishRefresh(ctx context.Context, event RefreshEvent) error
}

type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}
