package session

import (
	"sync"
	"time"

	"voice-intake-be/internal/constant"
	"voice-intake-be/internal/repository/memory"
	"voice-intake-be/pkg/store"
)

// Manager handles conversation lifecycle against the in-memory repository.
// It also owns the per-conversation locks that serialize turn handling:
// two utterances for the same conversation can never interleave, which is
// what prevents lost slot updates across rapid repeated voice turns.
type Manager struct {
	repo             *memory.ConversationRepository
	automationMethod string
	locks            sync.Map // conversation id -> *sync.Mutex
}

// NewManager creates a new session manager
func NewManager(repo *memory.ConversationRepository, automationMethod string) *Manager {
	if automationMethod == "" {
		automationMethod = constant.DefaultAutomationMethod
	}
	return &Manager{repo: repo, automationMethod: automationMethod}
}

// Create initializes an empty conversation owned by userID.
func (m *Manager) Create(conversationID, userID string) *store.Conversation {
	conv := &store.Conversation{
		ID:               conversationID,
		UserID:           userID,
		State:            store.StateGreeting,
		AutomationMethod: m.automationMethod,
		CreatedAt:        time.Now(),
	}
	m.repo.Save(conv)
	return conv
}

// Get loads the authoritative conversation copy. Handlers must call this at
// the top of every event instead of holding on to earlier snapshots.
func (m *Manager) Get(conversationID string) (*store.Conversation, bool) {
	return m.repo.Get(conversationID)
}

// Save persists conversation state back to the repository.
func (m *Manager) Save(conv *store.Conversation) {
	m.repo.Save(conv)
}

// Delete drops the conversation and its lock.
func (m *Manager) Delete(conversationID string) {
	m.repo.Delete(conversationID)
	m.locks.Delete(conversationID)
}

// Reset clears slots, history and confirmation flags in place, keeping the
// conversation id and owner. Used by the explicit restart command.
func (m *Manager) Reset(conv *store.Conversation) {
	conv.Slots = store.SlotState{}
	conv.History = nil
	conv.LastHeard = ""
	conv.OrderID = ""
	conv.State = store.StateGreeting
	m.repo.Save(conv)
}

// Lock returns the mutex serializing event handling for one conversation.
func (m *Manager) Lock(conversationID string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(conversationID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
