package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ProvisionedUserCache short-circuits user provisioning for callers already
// seen by this instance.
type ProvisionedUserCache struct {
	cache *cache.Cache
}

func NewProvisionedUserCache() *ProvisionedUserCache {
	// Purge expired items every 10 minutes
	return &ProvisionedUserCache{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *ProvisionedUserCache) IsProvisioned(userId uuid.UUID) bool {
	_, found := r.cache.Get(userId.String())
	return found
}

func (r *ProvisionedUserCache) MarkProvisioned(userId uuid.UUID) {
	r.cache.Set(userId.String(), true, cache.DefaultExpiration)
}

func (r *ProvisionedUserCache) Forget(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
