package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// The JHU CSSE layout leads with Province/State, Country/Region, Lat
// and Long before the per-date columns.
const metaColumns = 4

// dateLayout matches the JHU header date format, e.g. "1/22/20".
const dateLayout = "1/2/06"

// TimeSeries is a single cumulative count series indexed by date,
// summed across all reporting regions.
type TimeSeries struct {
	Dates      []time.Time
	Cumulative []float64
}

// ReadTimeSeries parses a region-per-row, date-per-column CSV and sums
// the region rows into one cumulative series. The leading metadata
// columns are dropped. Empty cells count as zero.
func ReadTimeSeries(r io.Reader) (*TimeSeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) <= metaColumns {
		return nil, fmt.Errorf("header has %d columns, need more than %d", len(header), metaColumns)
	}

	dates := make([]time.Time, len(header)-metaColumns)
	for i, field := range header[metaColumns:] {
		d, err := time.Parse(dateLayout, field)
		if err != nil {
			return nil, fmt.Errorf("parse date column %q: %w", field, err)
		}
		dates[i] = d
	}

	totals := make([]float64, len(dates))
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		for i, field := range record[metaColumns:] {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row+1, metaColumns+i+1, err)
			}
			totals[i] += v
		}
		row++
	}

	return &TimeSeries{Dates: dates, Cumulative: totals}, nil
}

// Fetch retrieves the CSV at url and parses it with ReadTimeSeries.
func Fetch(url string) (*TimeSeries, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return ReadTimeSeries(resp.Body)
}
