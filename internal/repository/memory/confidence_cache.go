package memory

import (
	"time"

	"idea-board-be/pkg/dedupe/confidence"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ConfidenceCache holds computed scores for a short TTL. Merges invalidate
// the keeper's entry so the next read reflects inherited votes.
type ConfidenceCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewConfidenceCache(ttl time.Duration) *ConfidenceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ConfidenceCache{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (c *ConfidenceCache) Get(ideaId uuid.UUID) (*confidence.Score, bool) {
	if x, found := c.cache.Get(ideaId.String()); found {
		return x.(*confidence.Score), true
	}
	return nil, false
}

func (c *ConfidenceCache) Set(ideaId uuid.UUID, score *confidence.Score) {
	c.cache.Set(ideaId.String(), score, c.ttl)
}

func (c *ConfidenceCache) Invalidate(ideaId uuid.UUID) {
	c.cache.Delete(ideaId.String())
}
