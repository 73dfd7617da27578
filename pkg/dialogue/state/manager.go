package state

import (
	"log"

	"voice-intake-be/pkg/store"
)

// Manager handles conversation state transitions
type Manager struct {
	logger *log.Logger
}

// NewManager creates a new state manager
func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// ToAwaitingInput marks the conversation ready for the next utterance
func (m *Manager) ToAwaitingInput(conv *store.Conversation) {
	conv.State = store.StateAwaitingInput
	m.logger.Printf("[STATE] %s -> AWAITING_INPUT", conv.ID)
}

// ToProcessing marks an utterance as being handled; the speak trigger is
// disabled client-side while in this state
func (m *Manager) ToProcessing(conv *store.Conversation) {
	conv.State = store.StateProcessing
	m.logger.Printf("[STATE] %s -> PROCESSING", conv.ID)
}

// ToReadyToConfirm arms the confirmation short-circuit
func (m *Manager) ToReadyToConfirm(conv *store.Conversation) {
	conv.State = store.StateReadyToConfirm
	m.logger.Printf("[STATE] %s -> READY_TO_CONFIRM (%d %s from %s)",
		conv.ID, conv.Slots.Quantity, conv.Slots.ProductName, conv.Slots.Retailer)
}

// ToSubmitting disarms the short-circuit; at most one submission attempt
// can be started per READY_TO_CONFIRM episode
func (m *Manager) ToSubmitting(conv *store.Conversation) {
	conv.State = store.StateSubmitting
	m.logger.Printf("[STATE] %s -> SUBMITTING", conv.ID)
}

// ToCompleted terminates the conversation after a successful submission
func (m *Manager) ToCompleted(conv *store.Conversation, orderID string) {
	conv.State = store.StateCompleted
	conv.OrderID = orderID
	m.logger.Printf("[STATE] %s -> COMPLETED (order %s)", conv.ID, orderID)
}

// ToErrored terminates the conversation; only a restart leaves this state
func (m *Manager) ToErrored(conv *store.Conversation, reason string) {
	conv.State = store.StateErrored
	m.logger.Printf("[STATE] %s -> ERRORED: %s", conv.ID, reason)
}
