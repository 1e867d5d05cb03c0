package internal

import (
	"context"
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	"github.com/go-resty/resty/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/obwatch/internal/clients"
	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/internal/services/market/collector"
	"github.com/vadiminshakov/obwatch/internal/services/market/depth"
)

type historyService interface {
	FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error)
}

type orderBookService interface {
	FetchOrderBook(ctx context.Context, pair domain.Pair) (domain.OrderBookSnapshot, error)
}

// serviceProvider creates the feeds a client can serve. Providers return
// ErrUnsupportedFeed for feeds their venue does not offer.
type serviceProvider interface {
	HistoryFeed() (historyService, error)
	OrderBookFeed(depthLimit int) (orderBookService, error)
}

// ErrUnsupportedFeed feed requested from a client that cannot serve it.
var ErrUnsupportedFeed = errors.New("feed not supported by this source")

// newServiceProvider dispatches on the client type. This is the single point
// of truth for platform-specific feed construction.
func newServiceProvider(client any) (serviceProvider, error) {
	switch c := client.(type) {
	case *binance.Client:
		return &binanceProvider{client: c}, nil
	case *bybit.Client:
		return &bybitProvider{client: c}, nil
	case *clients.HyperliquidClient:
		return &hyperliquidProvider{client: c}, nil
	case *resty.Client:
		return &coinGeckoProvider{client: c}, nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) HistoryFeed() (historyService, error) {
	return collector.NewBinanceHistoryFeed(p.client), nil
}
func (p *binanceProvider) OrderBookFeed(depthLimit int) (orderBookService, error) {
	return depth.NewBinanceOrderBookFeed(p.client, depthLimit), nil
}

type bybitProvider struct {
	client *bybit.Client
}

func (p *bybitProvider) HistoryFeed() (historyService, error) {
	return collector.NewBybitHistoryFeed(p.client), nil
}
func (p *bybitProvider) OrderBookFeed(depthLimit int) (orderBookService, error) {
	return depth.NewBybitOrderBookFeed(p.client, depthLimit), nil
}

type hyperliquidProvider struct {
	client *clients.HyperliquidClient
}

func (p *hyperliquidProvider) HistoryFeed() (historyService, error) {
	return collector.NewHyperliquidHistoryFeed(p.client.Info()), nil
}
func (p *hyperliquidProvider) OrderBookFeed(int) (orderBookService, error) {
	return nil, errors.Wrap(ErrUnsupportedFeed, "hyperliquid order book")
}

type coinGeckoProvider struct {
	client *resty.Client
}

func (p *coinGeckoProvider) HistoryFeed() (historyService, error) {
	return collector.NewCoinGeckoHistoryFeed(p.client, ""), nil
}
func (p *coinGeckoProvider) OrderBookFeed(int) (orderBookService, error) {
	return nil, errors.Wrap(ErrUnsupportedFeed, "coingecko order book")
}
