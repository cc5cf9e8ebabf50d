package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestDefaultKafkaPublisher_PublishRefresh(t *testing.T) {
	writer := &recordingWriter{}
	pub := &DefaultKafkaPublisher{writer: writer, topic: "country-events"}

	event := domain.RefreshEvent{
		RunID:           "run-1",
		Processed:       3,
		Created:         2,
		Updated:         1,
		SummaryRendered: true,
		RefreshedAt:     time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishRefresh(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "country-events", msg.Topic)
	assert.Equal(t, []byte("run-1"), msg.Key)

	var decoded domain.RefreshEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}
