package clients

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const coinGeckoTimeout = 15 * time.Second

// NewCoinGeckoClient returns an HTTP client for the public CoinGecko API.
func NewCoinGeckoClient() *resty.Client {
	return resty.New().
		SetTimeout(coinGeckoTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "obwatch")
}
