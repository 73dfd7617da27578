package events

import "time"

// Assistant event codes. The dialogue engine emits side effects as named
// event requests on the bus instead of calling collaborators inline, so a
// consumer (or a test) can observe exactly which effects were requested.
const (
	TypeSpeak        = "assistant.speak"
	TypeListen       = "assistant.listen"
	TypeCancelSpeech = "assistant.cancel_speech"
	TypeNavigate     = "assistant.navigate"
	TypeNotification = "assistant.notification"
	TypeOrderCreated = "assistant.order_created"
	TypeState        = "assistant.state"
	TypeDismissed    = "assistant.dismissed"
)

// Notification severity levels understood by the embedding application.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationWarning = "warning"
)

// NewSpeak requests speech synthesis of text on the conversation's client.
func NewSpeak(conversationID, text string) Event {
	return BaseEvent{
		Type:       TypeSpeak,
		Data:       map[string]interface{}{"conversation_id": conversationID, "text": text},
		OccurredAt: time.Now(),
	}
}

// NewListen toggles the client's speech recognizer.
func NewListen(conversationID string, enabled bool) Event {
	return BaseEvent{
		Type:       TypeListen,
		Data:       map[string]interface{}{"conversation_id": conversationID, "enabled": enabled},
		OccurredAt: time.Now(),
	}
}

// NewCancelSpeech cancels any in-progress synthesis on the client.
func NewCancelSpeech(conversationID string) Event {
	return BaseEvent{
		Type:       TypeCancelSpeech,
		Data:       map[string]interface{}{"conversation_id": conversationID},
		OccurredAt: time.Now(),
	}
}

// NewNavigate requests opening url in a new browsing context. Fire-and-forget.
func NewNavigate(conversationID, url string) Event {
	return BaseEvent{
		Type:       TypeNavigate,
		Data:       map[string]interface{}{"conversation_id": conversationID, "url": url},
		OccurredAt: time.Now(),
	}
}

// NewNotification surfaces an outcome through the embedding application.
func NewNotification(conversationID, level, header, content string) Event {
	return BaseEvent{
		Type: TypeNotification,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"level":           level,
			"header":          header,
			"content":         content,
		},
		OccurredAt: time.Now(),
	}
}

// NewOrderCreated announces a successful submission with the backend order id.
func NewOrderCreated(conversationID, orderID string) Event {
	return BaseEvent{
		Type:       TypeOrderCreated,
		Data:       map[string]interface{}{"conversation_id": conversationID, "order_id": orderID},
		OccurredAt: time.Now(),
	}
}

// NewState mirrors the conversation state to the client after every turn.
func NewState(conversationID, state string, slots map[string]interface{}) Event {
	return BaseEvent{
		Type: TypeState,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"state":           state,
			"slots":           slots,
		},
		OccurredAt: time.Now(),
	}
}

// NewDismissed tells the client the conversation has been closed server-side.
func NewDismissed(conversationID string) Event {
	return BaseEvent{
		Type:       TypeDismissed,
		Data:       map[string]interface{}{"conversation_id": conversationID},
		OccurredAt: time.Now(),
	}
}
