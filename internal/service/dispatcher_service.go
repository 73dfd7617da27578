package service

import (
	"context"
	"encoding/json"

	"voice-intake-be/internal/pkg/logger"
	"voice-intake-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IDispatcherService interface {
	Consume(ctx context.Context) error
}

// dispatcherService forwards assistant side-effect events from the bus to
// the websocket client attached to each conversation. Decoupling the engine
// from delivery this way keeps the side effects observable: a test can
// subscribe to the same topic and count exactly what was requested.
type dispatcherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewDispatcherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) IDispatcherService {
	return &dispatcherService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (ds *dispatcherService) Consume(ctx context.Context) error {
	messages, err := ds.pubSub.Subscribe(ctx, ds.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ds.processMessage(msg)
		}
	}()

	return nil
}

func (ds *dispatcherService) processMessage(msg *message.Message) {
	// Ack unconditionally: directives are fire-and-forget, a client that is
	// not connected right now simply misses them.
	defer msg.Ack()

	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		ds.logger.Error("Dispatcher", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	rawID, ok := envelope.Data["conversation_id"].(string)
	if !ok {
		ds.logger.Warn("Dispatcher", "Event without conversation_id", map[string]interface{}{"type": envelope.Type})
		return
	}
	conversationID, err := uuid.Parse(rawID)
	if err != nil {
		ds.logger.Warn("Dispatcher", "Event with malformed conversation_id", map[string]interface{}{"type": envelope.Type, "id": rawID})
		return
	}

	directive, err := json.Marshal(map[string]interface{}{
		"type": envelope.Type,
		"data": envelope.Data,
	})
	if err != nil {
		ds.logger.Error("Dispatcher", "Failed to marshal directive", map[string]interface{}{"error": err.Error()})
		return
	}

	ds.hub.SendToConversation(conversationID, directive)
}
