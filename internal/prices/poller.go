package prices

import (
	"context"
	"time"

	"miningdash/internal/logger"
	"miningdash/internal/models"
	"miningdash/internal/websocket"
)

type Fetcher interface {
	Fetch(ctx context.Context) (models.PriceSnapshot, error)
}

type Broadcaster interface {
	Publish(msg websocket.Message)
}

type Poller struct {
	fetcher  Fetcher
	cache    *Cache
	hub      Broadcaster
	interval time.Duration
}

func NewPoller(fetcher Fetcher, cache *Cache, hub Broadcaster, interval time.Duration) *Poller {
	return &Poller{fetcher: fetcher, cache: cache, hub: hub, interval: interval}
}

// Run fetches once immediately, then on every interval until ctx is done.
// Failed fetches keep the previous snapshot; the next tick is the retry.
func (p *Poller) Run(ctx context.Context) {
	p.Poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("price poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs a single fetch-store-publish cycle. It reports whether the snapshot was replaced.
func (p *Poller) Poll(ctx context.Context) (updated bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("price poll panic recovered: %v", r)
			updated = false
		}
	}()
	snapshot, err := p.fetcher.Fetch(ctx)
	if err != nil {
		logger.Warnf("price fetch failed, keeping previous snapshot: %v", err)
		return false
	}
	p.cache.Store(snapshot)
	p.hub.Publish(websocket.PriceUpdate(snapshot))
	logger.WithFields(map[string]any{
		"btc_usd": snapshot.Bitcoin.USD.String(),
		"eth_usd": snapshot.Ethereum.USD.String(),
	}).Debug("prices updated")
	return true
}
