package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Dashboard clients read amounts and prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	CryptoBTC = "BTC"
	CryptoETH = "ETH"

	TxTypeMiningReward = "mining_reward"
	TxTypeExchangeSale = "exchange_sale"

	NetworkEthereum = "ethereum"
	NetworkPolygon  = "polygon"

	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentFailed    = "failed"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    *string   `db:"first_name" json:"firstName"`
	LastName     *string   `db:"last_name" json:"lastName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type MiningRig struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"userId"`
	Name             string          `db:"name" json:"name"`
	Model            string          `db:"model" json:"model"`
	Cryptocurrency   string          `db:"cryptocurrency" json:"cryptocurrency"`
	HashRate         float64         `db:"hash_rate" json:"hashRate"`
	HashRateUnit     string          `db:"hash_rate_unit" json:"hashRateUnit"`
	PowerConsumption int64           `db:"power_consumption" json:"powerConsumption"`
	IsActive         bool            `db:"is_active" json:"isActive"`
	DailyEarnings    decimal.Decimal `db:"daily_earnings" json:"dailyEarnings"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
}

// RigPatch carries the fields of a partial rig update; nil fields are left untouched.
type RigPatch struct {
	Name             *string
	Model            *string
	Cryptocurrency   *string
	HashRate         *float64
	HashRateUnit     *string
	PowerConsumption *int64
	IsActive         *bool
	DailyEarnings    *decimal.Decimal
}

func (p RigPatch) Empty() bool {
	return p.Name == nil && p.Model == nil && p.Cryptocurrency == nil && p.HashRate == nil &&
		p.HashRateUnit == nil && p.PowerConsumption == nil && p.IsActive == nil && p.DailyEarnings == nil
}

type PortfolioBalance struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"userId"`
	Cryptocurrency string          `db:"cryptocurrency" json:"cryptocurrency"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	LastUpdated    time.Time       `db:"last_updated" json:"lastUpdated"`
}

type MiningTransaction struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"userId"`
	RigID          *string         `db:"rig_id" json:"rigId"`
	Type           string          `db:"type" json:"type"`
	Cryptocurrency string          `db:"cryptocurrency" json:"cryptocurrency"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	USDValue       decimal.Decimal `db:"usd_value" json:"usdValue"`
	Timestamp      time.Time       `db:"timestamp" json:"timestamp"`
}

type ExchangeConnection struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Exchange    string     `db:"exchange" json:"exchange"`
	IsConnected bool       `db:"is_connected" json:"isConnected"`
	APIKeyID    *string    `db:"api_key_id" json:"apiKeyId"`
	Settings    Settings   `db:"settings" json:"settings"`
	LastSync    *time.Time `db:"last_sync" json:"lastSync"`
}

type Payment struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"userId"`
	Network         string          `db:"network" json:"network"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Currency        string          `db:"currency" json:"currency"`
	ToAddress       string          `db:"to_address" json:"toAddress"`
	FromAddress     *string         `db:"from_address" json:"fromAddress"`
	TransactionHash *string         `db:"transaction_hash" json:"transactionHash"`
	Status          string          `db:"status" json:"status"`
	Purpose         *string         `db:"purpose" json:"purpose"`
	Timestamp       time.Time       `db:"timestamp" json:"timestamp"`
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentConfirmed, PaymentFailed:
		return true
	}
	return false
}

var ErrInvalidSetting = errors.New("settings values must be boolean, number or string")

// Settings is the exchange preference blob. Values are limited to bool, float64 and string.
type Settings map[string]any

// ParseSettings converts a decoded JSON object into Settings, rejecting nested values.
func ParseSettings(raw map[string]any) (Settings, error) {
	if raw == nil {
		return Settings{}, nil
	}
	out := make(Settings, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case bool, string:
			out[key] = v
		case float64:
			out[key] = v
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidSetting, key)
			}
			out[key] = f
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidSetting, key)
		}
	}
	return out, nil
}

func (s Settings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(s))
}

func (s *Settings) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = Settings{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported settings type %T", src)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSettings(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
