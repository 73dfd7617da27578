package memory

import (
	"time"

	"voice-intake-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps active conversations in process memory.
// Nothing is persisted: a conversation vanishes when it ends, when the
// assistant is dismissed, or when the TTL expires on an abandoned session.
type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository(ttl time.Duration) *ConversationRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// Purge abandoned conversations every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conv *store.Conversation) {
	r.cache.Set(conv.ID, conv, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(conversationID string) (*store.Conversation, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*store.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}
