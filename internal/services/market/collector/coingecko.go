package collector

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoHistoryFeed daily close and total volume from the CoinGecko
// market_chart endpoint.
type CoinGeckoHistoryFeed struct {
	client *resty.Client
}

// NewCoinGeckoHistoryFeed creates a feed against baseURL. Empty baseURL
// selects the public API.
func NewCoinGeckoHistoryFeed(client *resty.Client, baseURL string) *CoinGeckoHistoryFeed {
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}
	return &CoinGeckoHistoryFeed{client: client.SetBaseURL(baseURL)}
}

type marketChart struct {
	Prices       [][]float64 `json:"prices"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

type apiError struct {
	Error  string `json:"error"`
	Status struct {
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

func (e apiError) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Status.ErrorMessage
}

// FetchHistory returns the daily series of req.AssetID priced in req.Currency.
func (f *CoinGeckoHistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	if req.AssetID == "" || req.Currency == "" {
		return nil, errors.New("coingecko history needs asset id and currency")
	}
	if req.Days <= 0 {
		return nil, errors.Errorf("days must be positive, got %d", req.Days)
	}

	var (
		chart  marketChart
		apiErr apiError
	)
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("id", req.AssetID).
		SetQueryParams(map[string]string{
			"vs_currency": req.Currency,
			"days":        strconv.Itoa(req.Days),
			"interval":    "daily",
		}).
		SetResult(&chart).
		SetError(&apiErr).
		Get("/coins/{id}/market_chart")
	if err != nil {
		return nil, domain.NewDataFetchError(SourceCoinGecko, errors.Wrapf(err, "market chart for %s", req.AssetID))
	}
	if resp.IsError() {
		return nil, domain.NewDataFetchError(SourceCoinGecko,
			errors.Errorf("market chart for %s: status %d: %s", req.AssetID, resp.StatusCode(), apiErr.message()))
	}

	return chartToPoints(chart)
}

// chartToPoints pairs prices[i] with total_volumes[i]. Length or timestamp
// disagreement between the two arrays is rejected, never padded.
func chartToPoints(chart marketChart) ([]domain.PricePoint, error) {
	if len(chart.Prices) == 0 {
		return nil, domain.NewMalformedDataError(SourceCoinGecko, "missing prices")
	}
	if len(chart.Prices) != len(chart.TotalVolumes) {
		return nil, domain.NewMalformedDataError(SourceCoinGecko,
			"price/volume length mismatch: %d prices, %d volumes", len(chart.Prices), len(chart.TotalVolumes))
	}

	points := make([]domain.PricePoint, len(chart.Prices))
	for i := range chart.Prices {
		price, volume := chart.Prices[i], chart.TotalVolumes[i]
		if len(price) != 2 || len(volume) != 2 {
			return nil, domain.NewMalformedDataError(SourceCoinGecko, "entry %d is not a [timestamp, value] pair", i)
		}
		if price[0] != volume[0] {
			return nil, domain.NewMalformedDataError(SourceCoinGecko,
				"timestamp mismatch at index %d: price %v, volume %v", i, price[0], volume[0])
		}
		if math.IsNaN(price[0]) || price[0] < 0 {
			return nil, domain.NewMalformedDataError(SourceCoinGecko, "bad timestamp at index %d", i)
		}
		points[i] = domain.PricePoint{
			Timestamp: time.UnixMilli(int64(price[0])).UTC(),
			Close:     price[1],
			Volume:    volume[1],
		}
	}

	if err := domain.ValidatePricePoints(SourceCoinGecko, points); err != nil {
		return nil, err
	}
	return points, nil
}
