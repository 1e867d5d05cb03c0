package domain

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: ""},
		{name: "fetch", err: NewDataFetchError("binance", fmt.Errorf("dial tcp: timeout")), expected: KindDataFetch},
		{name: "malformed", err: NewMalformedDataError("coingecko", "prices and volumes differ: %d vs %d", 3, 2), expected: KindMalformedData},
		{name: "degenerate", err: NewDegenerateInputError("zero price range"), expected: KindDegenerateInput},
		{name: "insufficient", err: &InsufficientHistoryError{Have: 3, Need: 15}, expected: KindInsufficientHistory},
		{name: "wrapped degenerate", err: errors.Wrap(NewDegenerateInputError("no bids"), "compute clusters"), expected: KindDegenerateInput},
		{name: "deadline", err: errors.Wrap(context.DeadlineExceeded, "tick"), expected: KindTimeout},
		{name: "canceled", err: context.Canceled, expected: KindCanceled},
		{name: "other", err: fmt.Errorf("boom"), expected: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorKind(tt.err))
		})
	}
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	cause := fmt.Errorf("503 Service Unavailable")
	err := errors.Wrap(NewDataFetchError("bybit", cause), "fetch order book")

	var fetchErr *DataFetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "bybit", fetchErr.Source)
	assert.ErrorIs(t, err, ErrDataFetch)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMalformedData)

	var histErr *InsufficientHistoryError
	err = errors.Wrap(&InsufficientHistoryError{Have: 10, Need: 15}, "detect")
	assert.True(t, errors.As(err, &histErr))
	assert.Equal(t, 10, histErr.Have)
	assert.Contains(t, err.Error(), "have 10 points, need at least 15")
}
