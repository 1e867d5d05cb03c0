package domain

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel kinds. Typed errors below match them with errors.Is.
var (
	ErrDataFetch           = errors.New("data fetch failed")
	ErrMalformedData       = errors.New("malformed data")
	ErrDegenerateInput     = errors.New("degenerate input")
	ErrInsufficientHistory = errors.New("insufficient history")
)

// Error kind labels used in logs and metrics.
const (
	KindDataFetch           = "data_fetch"
	KindMalformedData       = "malformed_data"
	KindDegenerateInput     = "degenerate_input"
	KindInsufficientHistory = "insufficient_history"
	KindTimeout             = "timeout"
	KindCanceled            = "canceled"
	KindUnknown             = "unknown"
)

// DataFetchError network, HTTP or exchange API failure of a feed.
type DataFetchError struct {
	Source string
	Err    error
}

// NewDataFetchError wraps err as a fetch failure of source.
func NewDataFetchError(source string, err error) error {
	return &DataFetchError{Source: source, Err: err}
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataFetch, e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

func (e *DataFetchError) Is(target error) bool { return target == ErrDataFetch }

// MalformedDataError feed payload with missing fields, unparsable numbers or
// mismatched array lengths.
type MalformedDataError struct {
	Source string
	Reason string
}

// NewMalformedDataError builds a MalformedDataError with a formatted reason.
func NewMalformedDataError(source, format string, args ...any) error {
	return &MalformedDataError{Source: source, Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMalformedData, e.Source, e.Reason)
}

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

// DegenerateInputError empty order book side or a zero-width price range.
type DegenerateInputError struct {
	Reason string
}

// NewDegenerateInputError builds a DegenerateInputError with a formatted reason.
func NewDegenerateInputError(format string, args ...any) error {
	return &DegenerateInputError{Reason: fmt.Sprintf(format, args...)}
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDegenerateInput, e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// InsufficientHistoryError series shorter than the rolling window.
type InsufficientHistoryError struct {
	Have int
	Need int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: have %d points, need at least %d", ErrInsufficientHistory, e.Have, e.Need)
}

func (e *InsufficientHistoryError) Is(target error) bool { return target == ErrInsufficientHistory }

// ErrorKind classifies err into one of the Kind* labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDataFetch):
		return KindDataFetch
	case errors.Is(err, ErrMalformedData):
		return KindMalformedData
	case errors.Is(err, ErrDegenerateInput):
		return KindDegenerateInput
	case errors.Is(err, ErrInsufficientHistory):
		return KindInsufficientHistory
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindUnknown
	}
}
