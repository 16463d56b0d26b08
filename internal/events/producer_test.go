package events

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_WriterSettings(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"localhost:9092"})
	t.Cleanup(func() { _ = p.Close() })

	w := p.writer
	assert.Equal(t, "localhost:9092", w.Addr.String())
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.Equal(t, writeTimeout, w.WriteTimeout)
	assert.True(t, w.AllowAutoTopicCreation)

	// an unset BatchTimeout makes every synchronous publish wait a full second
	require.NotZero(t, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var pub Publisher = Noop{}
	assert.NoError(t, pub.PublishEvent(context.Background(), TopicBooks, "1", BookChanged{Type: TypeBookCreated}))
	assert.NoError(t, pub.Close())
}
