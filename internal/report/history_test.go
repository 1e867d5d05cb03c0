package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

func testSeries() *domain.HistoricalSeries {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.HistoricalSeries{
		Points: []domain.PricePoint{
			{Timestamp: day, Close: 100, Volume: 10},
			{Timestamp: day.Add(24 * time.Hour), Close: 101.5, Volume: 40},
		},
		Window:       2,
		Multiplier:   1.5,
		Support:      []domain.Level{{}, domain.DefinedLevel(100)},
		Resistance:   []domain.Level{{}, domain.DefinedLevel(101.5)},
		AvgVolume:    []domain.Level{{}, domain.DefinedLevel(25)},
		Sideways:     []domain.Flag{domain.FlagUndefined, domain.FlagFalse},
		HighVolume:   []domain.Flag{domain.FlagUndefined, domain.FlagTrue},
		Accumulation: []domain.Flag{domain.FlagUndefined, domain.FlagFalse},
	}
}

func TestHistoryRows(t *testing.T) {
	rows := HistoryRows(testSeries())
	require.Len(t, rows, 2)

	assert.Equal(t, HistoryRow{Index: 0, Date: "2024-03-01", Close: 100, Volume: 10}, rows[0])
	assert.Equal(t, HistoryRow{
		Index: 1, Date: "2024-03-02", Close: 101.5, Volume: 40,
		Support: "100.00", Resistance: "101.50", AvgVolume: "25.00",
		Sideways: "false", HighVolume: "true", Accumulation: "false",
	}, rows[1])

	assert.Empty(t, HistoryRows(nil))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, HistoryRows(testSeries())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "index,date,close,volume,support,resistance,avg_volume,sideways,high_volume,accumulation", lines[0])
	assert.Equal(t, "0,2024-03-01,100,10,,,,,,", lines[1])
	assert.Equal(t, "1,2024-03-02,101.5,40,100.00,101.50,25.00,false,true,false", lines[2])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, HistoryRows(testSeries()))

	out := buf.String()
	assert.Contains(t, out, "ACCUMULATION")
	assert.Contains(t, out, "2024-03-02")
	assert.Contains(t, out, "101.50")
}
