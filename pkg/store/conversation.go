package store

import "time"

// SlotState holds the partially-filled order intent collected so far.
// Zero values mean "unset": the dialogue engine prompts until every
// required slot is filled. Once a slot is set it is never overwritten
// by later extraction passes; only a conversation restart clears it.
type SlotState struct {
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Retailer    string `json:"retailer,omitempty"`
}

// HasProductName reports whether the product slot is filled.
func (s SlotState) HasProductName() bool { return s.ProductName != "" }

// HasQuantity reports whether the quantity slot is filled.
func (s SlotState) HasQuantity() bool { return s.Quantity > 0 }

// HasRetailer reports whether the retailer slot is filled.
func (s SlotState) HasRetailer() bool { return s.Retailer != "" }

// Complete reports whether all required slots are filled.
func (s SlotState) Complete() bool {
	return s.HasProductName() && s.HasQuantity() && s.HasRetailer()
}

// Turn is one contribution to the conversation. Immutable once appended.
type Turn struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation represents the active assistant session state in memory.
// This is the single authoritative copy per conversation; handlers load
// it fresh from the repository at the top of every event.
type Conversation struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	State  string `json:"state"`

	Slots   SlotState `json:"slots"`
	History []Turn    `json:"history"`

	// AutomationMethod is carried into the order payload ("strands" by default).
	AutomationMethod string `json:"automation_method"`

	// LastHeard echoes the most recent accepted utterance back to the client.
	LastHeard string `json:"last_heard"`

	// OrderID is set once a submission has succeeded.
	OrderID string `json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Dialogue states
const (
	StateGreeting       = "GREETING"
	StateAwaitingInput  = "AWAITING_INPUT"
	StateProcessing     = "PROCESSING"
	StateReadyToConfirm = "READY_TO_CONFIRM"
	StateSubmitting     = "SUBMITTING"
	StateCompleted      = "COMPLETED"
	StateErrored        = "ERRORED"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Required slot names, in prompting priority order.
const (
	SlotProductName = "product_name"
	SlotQuantity    = "quantity"
	SlotRetailer    = "retailer"
)

// RequiredSlots lists the slots the engine must fill before confirming.
var RequiredSlots = []string{SlotProductName, SlotQuantity, SlotRetailer}

// IsTerminal reports whether a state stops further utterance processing.
// Terminal conversations only leave this state through a restart.
func IsTerminal(state string) bool {
	return state == StateCompleted || state == StateErrored
}

// Collected returns the names of the filled slots, in priority order.
func (s SlotState) Collected() []string {
	out := make([]string, 0, len(RequiredSlots))
	if s.HasProductName() {
		out = append(out, SlotProductName)
	}
	if s.HasQuantity() {
		out = append(out, SlotQuantity)
	}
	if s.HasRetailer() {
		out = append(out, SlotRetailer)
	}
	return out
}

// Missing returns the names of the unfilled slots, in priority order.
func (s SlotState) Missing() []string {
	out := make([]string, 0, len(RequiredSlots))
	if !s.HasProductName() {
		out = append(out, SlotProductName)
	}
	if !s.HasQuantity() {
		out = append(out, SlotQuantity)
	}
	if !s.HasRetailer() {
		out = append(out, SlotRetailer)
	}
	return out
}
