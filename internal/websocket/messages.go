package websocket

import "miningdash/internal/models"

const (
	TypePriceUpdate     = "price_update"
	TypeMiningUpdate    = "mining_update"
	TypePortfolioUpdate = "portfolio_update"
)

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func PriceUpdate(snapshot models.PriceSnapshot) Message {
	return Message{Type: TypePriceUpdate, Data: snapshot}
}

func MiningUpdate(stats models.MiningStats) Message {
	return Message{Type: TypeMiningUpdate, Data: stats}
}

func PortfolioUpdate(balances []models.PortfolioBalance) Message {
	return Message{Type: TypePortfolioUpdate, Data: balances}
}
