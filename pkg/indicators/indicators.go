// Package indicators provides rolling-window statistics and smoothing filters
// over float series.
package indicators

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/montanaflynn/stats"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// RollingMin returns the trailing-window minimum at every index. The first
// period-1 entries are undefined.
func RollingMin(values []float64, period int) ([]domain.Level, error) {
	if err := checkPeriod(len(values), period); err != nil {
		return nil, err
	}

	movingMin := trend.NewMovingMinWithPeriod[float64](period)
	inputChan := helper.SliceToChan(values)
	outputChan := movingMin.Compute(inputChan)
	minFloat := helper.ChanToSlice(outputChan)

	return alignTrailing(len(values), period, minFloat)
}

// RollingMax returns the trailing-window maximum at every index. The first
// period-1 entries are undefined.
func RollingMax(values []float64, period int) ([]domain.Level, error) {
	if err := checkPeriod(len(values), period); err != nil {
		return nil, err
	}

	movingMax := trend.NewMovingMaxWithPeriod[float64](period)
	inputChan := helper.SliceToChan(values)
	outputChan := movingMax.Compute(inputChan)
	maxFloat := helper.ChanToSlice(outputChan)

	return alignTrailing(len(values), period, maxFloat)
}

// RollingMean returns the trailing-window arithmetic mean at every index.
// Each window is summed from scratch so no drift accumulates along the series.
func RollingMean(values []float64, period int) ([]domain.Level, error) {
	if err := checkPeriod(len(values), period); err != nil {
		return nil, err
	}

	result := make([]domain.Level, len(values))
	for i := period - 1; i < len(values); i++ {
		mean, err := stats.Mean(values[i-period+1 : i+1])
		if err != nil {
			return nil, fmt.Errorf("mean of window ending at %d: %w", i, err)
		}
		result[i] = domain.DefinedLevel(mean)
	}

	return result, nil
}

func checkPeriod(n, period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if n < period {
		return &domain.InsufficientHistoryError{Have: n, Need: period}
	}
	return nil
}

// alignTrailing maps indicator output onto input indices counting from the
// end, so it works whether or not the indicator skipped its idle period.
func alignTrailing(n, period int, out []float64) ([]domain.Level, error) {
	defined := n - period + 1
	if len(out) < defined {
		return nil, fmt.Errorf("indicator returned %d values, need at least %d", len(out), defined)
	}

	result := make([]domain.Level, n)
	for i := period - 1; i < n; i++ {
		result[i] = domain.DefinedLevel(out[len(out)-(n-i)])
	}

	return result, nil
}
