// Package report renders the rolling history diagnostics as a table or CSV.
package report

import (
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

// HistoryRow one index of a HistoricalSeries. Undefined statistics are
// left empty.
type HistoryRow struct {
	Index        int     `csv:"index"`
	Date         string  `csv:"date"`
	Close        float64 `csv:"close"`
	Volume       float64 `csv:"volume"`
	Support      string  `csv:"support"`
	Resistance   string  `csv:"resistance"`
	AvgVolume    string  `csv:"avg_volume"`
	Sideways     string  `csv:"sideways"`
	HighVolume   string  `csv:"high_volume"`
	Accumulation string  `csv:"accumulation"`
}

// HistoryRows flattens series into rows in index order.
func HistoryRows(series *domain.HistoricalSeries) []HistoryRow {
	rows := make([]HistoryRow, 0, series.Len())
	for i := 0; i < series.Len(); i++ {
		p := series.Points[i]
		rows = append(rows, HistoryRow{
			Index:        i,
			Date:         p.Timestamp.UTC().Format(time.DateOnly),
			Close:        p.Close,
			Volume:       p.Volume,
			Support:      level(series.Support[i]),
			Resistance:   level(series.Resistance[i]),
			AvgVolume:    level(series.AvgVolume[i]),
			Sideways:     flag(series.Sideways[i]),
			HighVolume:   flag(series.HighVolume[i]),
			Accumulation: flag(series.Accumulation[i]),
		})
	}
	return rows
}

// WriteTable prints rows as an aligned text table.
func WriteTable(w io.Writer, rows []HistoryRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Date", "Close", "Volume", "Support", "Resistance", "Avg Volume", "Accumulation"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(r.Index),
			r.Date,
			strconv.FormatFloat(r.Close, 'f', 2, 64),
			strconv.FormatFloat(r.Volume, 'f', 0, 64),
			r.Support,
			r.Resistance,
			r.AvgVolume,
			r.Accumulation,
		})
	}
	table.Render()
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []HistoryRow) error {
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "write history csv")
	}
	return nil
}

func level(l domain.Level) string {
	if !l.Defined {
		return ""
	}
	return strconv.FormatFloat(l.Value, 'f', 2, 64)
}

func flag(f domain.Flag) string {
	if !f.Defined() {
		return ""
	}
	return f.String()
}
