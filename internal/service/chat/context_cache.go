package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"moodmix/internal/models"
	"moodmix/internal/redis"
)

const (
	contextKeyPrefix = "moodmix:context:"
	contextTTL       = 30 * time.Minute
)

// SaveContext caches the end-of-turn conversation context for a session.
// Best effort, last write wins; cache errors only get logged.
func (s *Service) SaveContext(ctx context.Context, sessionID int64, cc *models.ConversationContext) {
	if s.cache == nil || sessionID <= 0 || cc == nil {
		return
	}
	data, err := json.Marshal(cc)
	if err != nil {
		log.Printf("marshal context for session %d failed: %v", sessionID, err)
		return
	}
	if err := s.cache.Set(ctx, contextKey(sessionID), data, contextTTL); err != nil {
		log.Printf("cache context for session %d failed: %v", sessionID, err)
	}
}

// LoadContext fetches the cached context for a session. A miss is not an
// error: the turn simply runs without prior context.
func (s *Service) LoadContext(ctx context.Context, sessionID int64) (*models.ConversationContext, bool) {
	if s.cache == nil || sessionID <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, contextKey(sessionID))
	if err != nil {
		if err != redis.ErrCacheMiss {
			log.Printf("load context for session %d failed: %v", sessionID, err)
		}
		return nil, false
	}
	var cc models.ConversationContext
	if err := json.Unmarshal([]byte(raw), &cc); err != nil {
		log.Printf("decode context for session %d failed: %v", sessionID, err)
		return nil, false
	}
	return &cc, true
}

// InvalidateContext drops the cached context for a session.
func (s *Service) InvalidateContext(ctx context.Context, sessionID int64) {
	if s.cache == nil || sessionID <= 0 {
		return
	}
	if err := s.cache.Del(ctx, contextKey(sessionID)); err != nil && err != redis.ErrCacheMiss {
		log.Printf("invalidate context for session %d failed: %v", sessionID, err)
	}
}

func contextKey(sessionID int64) string {
	return fmt.Sprintf("%s%d", contextKeyPrefix, sessionID)
}
