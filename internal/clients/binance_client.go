package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient returns a client for public market data. Depth and klines
// need no API keys.
func NewBinanceClient() *binance.Client {
	return binance.NewClient("", "")
}
