package prices

import (
	"sync"

	"miningdash/internal/models"

	"github.com/shopspring/decimal"
)

// FallbackSnapshot is served until the first successful fetch.
func FallbackSnapshot() models.PriceSnapshot {
	return models.PriceSnapshot{
		Bitcoin: models.AssetPrice{
			USD:          decimal.RequireFromString("43287.50"),
			USD24hChange: decimal.RequireFromString("2.45"),
		},
		Ethereum: models.AssetPrice{
			USD:          decimal.RequireFromString("2834.21"),
			USD24hChange: decimal.RequireFromString("-1.23"),
		},
	}
}

// Cache holds the latest snapshot. The poller is its only writer.
type Cache struct {
	mu       sync.RWMutex
	snapshot models.PriceSnapshot
}

func NewCache(initial models.PriceSnapshot) *Cache {
	return &Cache{snapshot: initial}
}

func (c *Cache) Latest() models.PriceSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Cache) Store(snapshot models.PriceSnapshot) {
	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()
}
