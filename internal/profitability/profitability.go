package profitability

import (
	"errors"

	"miningdash/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingParameters = errors.New("missing required parameters")
	ErrUnsupportedCrypto = errors.New("unsupported cryptocurrency")
)

// Daily coin output per unit of hash rate: BTC per TH/s, ETH per MH/s.
var (
	btcPerTH = decimal.RequireFromString("0.000015")
	ethPerMH = decimal.RequireFromString("0.00005")
)

type Input struct {
	Cryptocurrency   string
	HashRate         decimal.Decimal
	HashRateUnit     string
	PowerConsumption decimal.Decimal // watts
	ElectricityCost  decimal.Decimal // USD per kWh
}

type Result struct {
	Revenue      decimal.Decimal `json:"revenue"`
	Costs        decimal.Decimal `json:"costs"`
	Profit       decimal.Decimal `json:"profit"`
	CryptoAmount decimal.Decimal `json:"cryptoAmount"`
}

// NormalizeHashRate converts rate to TH/s for BTC and MH/s for ETH. Other pairs pass through.
func NormalizeHashRate(crypto, unit string, rate decimal.Decimal) decimal.Decimal {
	switch {
	case crypto == models.CryptoBTC && unit == "GH/s":
		return rate.Div(decimal.NewFromInt(1000))
	case crypto == models.CryptoBTC && unit == "MH/s":
		return rate.Div(decimal.NewFromInt(1000000))
	case crypto == models.CryptoETH && unit == "TH/s":
		return rate.Mul(decimal.NewFromInt(1000))
	}
	return rate
}

// Calculate estimates one day of mining at price USD per coin.
func Calculate(in Input, price decimal.Decimal) (Result, error) {
	if in.Cryptocurrency == "" || in.HashRate.IsZero() || in.PowerConsumption.IsZero() || in.ElectricityCost.IsZero() {
		return Result{}, ErrMissingParameters
	}
	var base decimal.Decimal
	switch in.Cryptocurrency {
	case models.CryptoBTC:
		base = btcPerTH
	case models.CryptoETH:
		base = ethPerMH
	default:
		return Result{}, ErrUnsupportedCrypto
	}

	cryptoAmount := NormalizeHashRate(in.Cryptocurrency, in.HashRateUnit, in.HashRate).Mul(base)
	revenue := cryptoAmount.Mul(price)
	kwhPerDay := in.PowerConsumption.Mul(decimal.NewFromInt(24)).Div(decimal.NewFromInt(1000))
	costs := kwhPerDay.Mul(in.ElectricityCost)
	return Result{
		Revenue:      revenue,
		Costs:        costs,
		Profit:       revenue.Sub(costs),
		CryptoAmount: cryptoAmount,
	}, nil
}
