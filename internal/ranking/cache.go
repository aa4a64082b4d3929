package ranking

import (
	"context"
	"sync"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 5 * time.Minute

// Cache holds the ranked catalog for the browsing session. It refreshes
// lazily after the TTL and is invalidated by any workflow that changes what
// the ranking is derived from (checkout, admin catalog edits, account
// deletion). A store read failure degrades to the empty catalog with a
// logged warning rather than surfacing an error to the page.
type Cache struct {
	catalog  store.CatalogStore
	accounts store.AccountStore
	ttl      time.Duration

	mu      sync.RWMutex
	ranked  []domain.RankedGame
	expires time.Time
}

func NewCache(catalog store.CatalogStore, accounts store.AccountStore, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{catalog: catalog, accounts: accounts, ttl: ttl}
}

// Ranked returns the current ranking, refreshing it when stale.
func (c *Cache) Ranked(ctx context.Context) []domain.RankedGame {
	c.mu.RLock()
	if time.Now().Before(c.expires) {
		ranked := c.ranked
		c.mu.RUnlock()
		return ranked
	}
	c.mu.RUnlock()
	return c.Refresh(ctx)
}

// Refresh recomputes the ranking from both stores immediately.
func (c *Cache) Refresh(ctx context.Context) []domain.RankedGame {
	games, err := c.catalog.List(ctx)
	if err != nil {
		zap.L().Warn("catalog read failed, serving empty listing", zap.Error(err))
		games = nil
	}
	accounts, err := c.accounts.List(ctx)
	if err != nil {
		zap.L().Warn("account read failed, ranking without sales data", zap.Error(err))
		accounts = nil
	}

	ranked := Rank(games, accounts)

	c.mu.Lock()
	c.ranked = ranked
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return ranked
}

// Invalidate drops the cached ranking so the next read recomputes it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.expires = time.Time{}
	c.mu.Unlock()
}
