package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartConversationResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	State          string    `json:"state"`
	Greeting       string    `json:"greeting"`
	CreatedAt      time.Time `json:"created_at"`
}

type UtteranceRequest struct {
	Text string `json:"text" validate:"required"`
}

type SlotStateDTO struct {
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Retailer    string `json:"retailer,omitempty"`
}

// TurnResponse mirrors one handled turn back to the client: the reply that
// was spoken, the updated slot chips, and the live preview link when a
// product is already known.
type TurnResponse struct {
	ConversationId  uuid.UUID    `json:"conversation_id"`
	State           string       `json:"state"`
	Reply           string       `json:"reply,omitempty"`
	LastHeard       string       `json:"last_heard,omitempty"`
	Slots           SlotStateDTO `json:"slots"`
	CollectedFields []string     `json:"collected_fields"`
	MissingFields   []string     `json:"missing_fields"`
	PreviewUrl      string       `json:"preview_url,omitempty"`
	ReadyToSubmit   bool         `json:"ready_to_submit"`
	Submitted       bool         `json:"submitted,omitempty"`
	OrderId         string       `json:"order_id,omitempty"`
	Error           string       `json:"error,omitempty"`
}

type TurnDTO struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
