package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"miningdash/internal/models"

	"github.com/shopspring/decimal"
)

var ErrIncompleteQuote = errors.New("price response missing bitcoin or ethereum usd")

type coinQuote struct {
	USD           decimal.NullDecimal `json:"usd"`
	USD24hChange  decimal.NullDecimal `json:"usd_24h_change"`
	USD24hrChange decimal.NullDecimal `json:"usd_24hr_change"`
}

func (q coinQuote) asset() models.AssetPrice {
	change := decimal.Zero
	switch {
	case q.USD24hChange.Valid:
		change = q.USD24hChange.Decimal
	case q.USD24hrChange.Valid:
		change = q.USD24hrChange.Decimal
	}
	return models.AssetPrice{USD: q.USD.Decimal, USD24hChange: change}
}

type simplePriceResponse struct {
	Bitcoin  *coinQuote `json:"bitcoin"`
	Ethereum *coinQuote `json:"ethereum"`
}

// Client reads spot prices from a CoinGecko compatible simple/price endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context) (models.PriceSnapshot, error) {
	query := url.Values{}
	query.Set("ids", "bitcoin,ethereum")
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+query.Encode(), nil)
	if err != nil {
		return models.PriceSnapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.PriceSnapshot{}, fmt.Errorf("fetch prices: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("decode prices: %w", err)
	}
	if payload.Bitcoin == nil || payload.Ethereum == nil || !payload.Bitcoin.USD.Valid || !payload.Ethereum.USD.Valid {
		return models.PriceSnapshot{}, ErrIncompleteQuote
	}
	return models.PriceSnapshot{
		Bitcoin:  payload.Bitcoin.asset(),
		Ethereum: payload.Ethereum.asset(),
	}, nil
}
