package models

import "github.com/shopspring/decimal"

type AssetPrice struct {
	USD          decimal.Decimal `json:"usd"`
	USD24hChange decimal.Decimal `json:"usd_24h_change"`
}

type PriceSnapshot struct {
	Bitcoin  AssetPrice `json:"bitcoin"`
	Ethereum AssetPrice `json:"ethereum"`
}

// USDFor returns the spot price for BTC or ETH; other symbols price at zero.
func (p PriceSnapshot) USDFor(crypto string) decimal.Decimal {
	switch crypto {
	case CryptoBTC:
		return p.Bitcoin.USD
	case CryptoETH:
		return p.Ethereum.USD
	}
	return decimal.Zero
}

type MiningStats struct {
	TotalHashRate         float64         `json:"totalHashRate"`
	ActiveMinerCount      int             `json:"activeMinerCount"`
	TotalDailyEarnings    decimal.Decimal `json:"totalDailyEarnings"`
	TotalPowerConsumption int64           `json:"totalPowerConsumption"`
}
