// Package export writes price history for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"TickerLens/internal/model"
)

var header = []string{"date", "open", "high", "low", "close", "volume"}

// WriteCSV writes bars with the columns date, open, high, low, close, volume.
// Dates are the trading day in loc, the listing exchange's timezone; nil is UTC.
func WriteCSV(w io.Writer, bars []model.OHLCV, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range bars {
		row := []string{
			b.Time.In(loc).Format("2006-01-02"),
			num(b.Open),
			num(b.High),
			num(b.Low),
			num(b.Close),
			strconv.FormatFloat(b.Volume, 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the history of rec as CSV bytes.
func CSV(rec *model.StockRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rec.History, rec.Location); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the download name for symbol's history.
func FileName(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + "_historical_data.csv"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
