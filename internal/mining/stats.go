package mining

import (
	"miningdash/internal/models"

	"github.com/shopspring/decimal"
)

// Aggregate sums the dashboard totals over active rigs only.
func Aggregate(rigs []models.MiningRig) models.MiningStats {
	stats := models.MiningStats{TotalDailyEarnings: decimal.Zero}
	for _, rig := range rigs {
		if !rig.IsActive {
			continue
		}
		stats.ActiveMinerCount++
		stats.TotalHashRate += rig.HashRate
		stats.TotalPowerConsumption += rig.PowerConsumption
		stats.TotalDailyEarnings = stats.TotalDailyEarnings.Add(rig.DailyEarnings)
	}
	return stats
}
