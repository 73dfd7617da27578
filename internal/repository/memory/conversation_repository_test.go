package memory

import (
	"testing"
	"time"

	"voice-intake-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRepository(t *testing.T) {
	repo := NewConversationRepository(time.Hour)

	conv := &store.Conversation{ID: "conv-1", UserID: "user-1", State: store.StateGreeting}
	repo.Save(conv)

	got, ok := repo.Get("conv-1")
	require.True(t, ok)
	assert.Same(t, conv, got)

	_, ok = repo.Get("missing")
	assert.False(t, ok)

	repo.Delete("conv-1")
	_, ok = repo.Get("conv-1")
	assert.False(t, ok)
}

func TestConversationRepositoryTTL(t *testing.T) {
	repo := NewConversationRepository(20 * time.Millisecond)

	repo.Save(&store.Conversation{ID: "conv-1"})

	require.Eventually(t, func() bool {
		_, ok := repo.Get("conv-1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
