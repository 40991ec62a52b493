package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// BillingEventCache remembers recently processed billing event ids so repeated
// webhook deliveries can be acknowledged without touching the database. The
// durable processed_billing_events table stays the source of truth.
type BillingEventCache struct {
	cache *cache.Cache
}

func NewBillingEventCache() *BillingEventCache {
	return &BillingEventCache{
		cache: cache.New(24*time.Hour, 30*time.Minute),
	}
}

func (r *BillingEventCache) Seen(eventId string) bool {
	_, found := r.cache.Get(eventId)
	return found
}

func (r *BillingEventCache) Remember(eventId string) {
	r.cache.Set(eventId, struct{}{}, cache.DefaultExpiration)
}
