package session

import (
	"testing"
	"time"

	"voice-intake-be/internal/constant"
	"voice-intake-be/internal/repository/memory"
	"voice-intake-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(memory.NewConversationRepository(time.Hour), "")
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager()

	conv := m.Create("conv-1", "user-1")

	assert.Equal(t, store.StateGreeting, conv.State)
	assert.Equal(t, constant.DefaultAutomationMethod, conv.AutomationMethod)
	assert.False(t, conv.CreatedAt.IsZero())

	got, ok := m.Get("conv-1")
	require.True(t, ok)
	assert.Same(t, conv, got)
}

func TestReset(t *testing.T) {
	m := newTestManager()
	conv := m.Create("conv-1", "user-1")

	conv.Slots = store.SlotState{ProductName: "olive oil", Quantity: 2, Retailer: "Amazon"}
	conv.History = []store.Turn{{Role: store.RoleUser, Text: "hi"}}
	conv.LastHeard = "hi"
	conv.OrderID = "ord_123"
	conv.State = store.StateErrored
	m.Save(conv)

	m.Reset(conv)

	assert.Equal(t, store.StateGreeting, conv.State)
	assert.Equal(t, store.SlotState{}, conv.Slots)
	assert.Empty(t, conv.History)
	assert.Empty(t, conv.LastHeard)
	assert.Empty(t, conv.OrderID)
	assert.Equal(t, "user-1", conv.UserID)
}

func TestDelete(t *testing.T) {
	m := newTestManager()
	m.Create("conv-1", "user-1")

	m.Delete("conv-1")

	_, ok := m.Get("conv-1")
	assert.False(t, ok)
}

func TestLockIsStablePerConversation(t *testing.T) {
	m := newTestManager()

	first := m.Lock("conv-1")
	second := m.Lock("conv-1")
	other := m.Lock("conv-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}
