package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"voice-intake-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherServiceEnvelope(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "ASSISTANT_DIRECTIVES")
	require.NoError(t, err)

	publisher := NewPublisherService("ASSISTANT_DIRECTIVES", pubSub)
	require.NoError(t, publisher.Publish(ctx, events.NewSpeak("conv-1", "Hello!")))

	select {
	case msg := <-messages:
		msg.Ack()

		var envelope eventEnvelope
		require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
		assert.Equal(t, events.TypeSpeak, envelope.Type)
		assert.Equal(t, "conv-1", envelope.Data["conversation_id"])
		assert.Equal(t, "Hello!", envelope.Data["text"])
		assert.False(t, envelope.OccurredAt.IsZero())
	case <-ctx.Done():
		t.Fatal("no message received on the bus")
	}
}
