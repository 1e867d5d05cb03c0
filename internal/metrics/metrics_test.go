package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

func TestObserveSignal(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSignal(domain.Signal{Action: domain.ActionLong, BidPct: 70, AskPct: 30, IsAccumulating: true}, time.Second)
	m.ObserveSignal(domain.Signal{Action: domain.ActionNeutral, BidPct: 55, AskPct: 45}, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicksTotal.WithLabelValues("LONG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TicksTotal.WithLabelValues("NEUTRAL")))
	assert.Equal(t, 55.0, testutil.ToFloat64(m.BidPct))
	assert.Equal(t, 45.0, testutil.ToFloat64(m.AskPct))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Accumulating))
}

func TestObserveFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFailure(domain.NewDataFetchError("binance", errors.New("timeout")), time.Millisecond)
	m.ObserveFailure(domain.NewDegenerateInputError("empty"), time.Millisecond)
	m.ObserveFailure(domain.NewDataFetchError("binance", errors.New("reset")), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TickFailuresTotal.WithLabelValues(domain.KindDataFetch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TickFailuresTotal.WithLabelValues(domain.KindDegenerateInput)))
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSignal(domain.Signal{Action: domain.ActionShort}, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `obwatch_ticks_total{action="SHORT"} 1`)
	assert.Contains(t, rec.Body.String(), "obwatch_tick_duration_seconds_count 1")
}
