package speech

import (
	"context"
	"log"

	"voice-intake-be/pkg/events"
)

// BusChannel relays speech directives to the client over the event bus.
// Publish failures are logged and swallowed: synthesis is advisory and must
// never fail a turn.
type BusChannel struct {
	publisher events.Publisher
	logger    *log.Logger
}

func NewBusChannel(publisher events.Publisher, logger *log.Logger) *BusChannel {
	return &BusChannel{publisher: publisher, logger: logger}
}

func (c *BusChannel) Speak(conversationID, text string) {
	c.emit(events.NewSpeak(conversationID, text))
}

func (c *BusChannel) StartListening(conversationID string) {
	c.emit(events.NewListen(conversationID, true))
}

func (c *BusChannel) StopListening(conversationID string) {
	c.emit(events.NewListen(conversationID, false))
}

func (c *BusChannel) CancelSpeech(conversationID string) {
	c.emit(events.NewCancelSpeech(conversationID))
}

func (c *BusChannel) emit(event events.Event) {
	if err := c.publisher.Publish(context.Background(), event); err != nil {
		c.logger.Printf("[WARN] speech directive %s dropped: %v", event.EventType(), err)
	}
}
