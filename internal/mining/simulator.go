package mining

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"miningdash/internal/logger"
	"miningdash/internal/models"
	"miningdash/internal/services"
	"miningdash/internal/websocket"

	"github.com/shopspring/decimal"
)

const (
	// A rig mints on a tick when its draw exceeds rewardThreshold.
	rewardThreshold = 0.7
	maxRewardAmount = 0.001
	amountPlaces    = 8
	usdPlaces       = 2
)

type RigStore interface {
	ListOwners(ctx context.Context) ([]string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.MiningRig, error)
}

type BalanceStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.PortfolioBalance, error)
}

type RewardCrediter interface {
	Credit(ctx context.Context, reward services.Reward) (services.RewardResult, error)
}

type PriceSource interface {
	Latest() models.PriceSnapshot
}

type Publisher interface {
	PublishTo(ownerID string, msg websocket.Message)
}

// RandomSource yields values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

func NewRandomSource(seed int64) RandomSource {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

type Simulator struct {
	rigs     RigStore
	balances BalanceStore
	rewards  RewardCrediter
	prices   PriceSource
	hub      Publisher
	locker   Locker
	random   RandomSource
	interval time.Duration
}

func NewSimulator(rigs RigStore, balances BalanceStore, rewards RewardCrediter, prices PriceSource, hub Publisher, locker Locker, random RandomSource, interval time.Duration) *Simulator {
	return &Simulator{
		rigs:     rigs,
		balances: balances,
		rewards:  rewards,
		prices:   prices,
		hub:      hub,
		locker:   locker,
		random:   random,
		interval: interval,
	}
}

// Run ticks until ctx is done. The first tick happens one interval after start.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("mining simulator stopped")
			return
		case <-ticker.C:
			s.safeTick(ctx)
		}
	}
}

func (s *Simulator) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("mining tick panic recovered: %v", r)
		}
	}()
	if err := s.Tick(ctx); err != nil {
		logger.Errorf("mining tick: %v", err)
	}
}

// Tick simulates every owner that has rigs. A failing owner is logged and skipped.
func (s *Simulator) Tick(ctx context.Context) error {
	owners, err := s.rigs.ListOwners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}
	for _, ownerID := range owners {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.SimulateOwner(ctx, ownerID); err != nil {
			logger.WithField("owner_id", ownerID).Errorf("simulate owner: %v", err)
		}
	}
	return nil
}

// SimulateOwner publishes the owner's stats and rolls rewards for each active rig.
// It returns the number of rewards minted.
func (s *Simulator) SimulateOwner(ctx context.Context, ownerID string) (int, error) {
	unlock, err := s.locker.Lock(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("lock owner: %w", err)
	}
	defer unlock()

	rigs, err := s.rigs.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list rigs: %w", err)
	}
	s.hub.PublishTo(ownerID, websocket.MiningUpdate(Aggregate(rigs)))

	snapshot := s.prices.Latest()
	minted := 0
	for _, rig := range rigs {
		if !rig.IsActive {
			continue
		}
		if s.random.Float64() <= rewardThreshold {
			continue
		}
		amount := decimal.NewFromFloat(s.random.Float64() * maxRewardAmount).Round(amountPlaces)
		usdValue := amount.Mul(snapshot.USDFor(rig.Cryptocurrency)).Round(usdPlaces)
		if _, err := s.rewards.Credit(ctx, services.Reward{
			OwnerID:        ownerID,
			RigID:          rig.ID,
			Cryptocurrency: rig.Cryptocurrency,
			Amount:         amount,
			USDValue:       usdValue,
		}); err != nil {
			logger.WithFields(map[string]any{"owner_id": ownerID, "rig_id": rig.ID}).Errorf("credit reward: %v", err)
			continue
		}
		minted++
	}
	if minted == 0 {
		return 0, nil
	}

	balances, err := s.balances.ListByOwner(ctx, ownerID)
	if err != nil {
		return minted, fmt.Errorf("list balances: %w", err)
	}
	s.hub.PublishTo(ownerID, websocket.PortfolioUpdate(balances))
	return minted, nil
}
