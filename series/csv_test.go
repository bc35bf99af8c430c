package series

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20
,Afghanistan,33.0,65.0,0,0,1
,Albania,41.1533,20.1683,2,3,4
`

func TestReadTimeSeries(t *testing.T) {
	ts, err := ReadTimeSeries(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadTimeSeries: %v", err)
	}

	if len(ts.Dates) != 3 || len(ts.Cumulative) != 3 {
		t.Fatalf("got %d dates and %d values, want 3 and 3", len(ts.Dates), len(ts.Cumulative))
	}

	want := time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)
	if !ts.Dates[0].Equal(want) {
		t.Errorf("first date = %v, want %v", ts.Dates[0], want)
	}

	// Region rows summed column-wise.
	if !floatsEqual(ts.Cumulative, []float64{2, 3, 5}) {
		t.Errorf("cumulative = %v, want [2 3 5]", ts.Cumulative)
	}
}

func TestReadTimeSeriesEmptyCell(t *testing.T) {
	csv := "Province/State,Country/Region,Lat,Long,1/22/20\n,Somewhere,0,0,\n"
	ts, err := ReadTimeSeries(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadTimeSeries: %v", err)
	}
	if ts.Cumulative[0] != 0 {
		t.Errorf("empty cell should count as zero, got %v", ts.Cumulative[0])
	}
}

func TestReadTimeSeriesBadValue(t *testing.T) {
	csv := "Province/State,Country/Region,Lat,Long,1/22/20\n,Somewhere,0,0,oops\n"
	if _, err := ReadTimeSeries(strings.NewReader(csv)); err == nil {
		t.Error("expected an error for a non-numeric cell")
	}
}

func TestReadTimeSeriesNoDateColumns(t *testing.T) {
	csv := "Province/State,Country/Region,Lat,Long\n"
	if _, err := ReadTimeSeries(strings.NewReader(csv)); err == nil {
		t.Error("expected an error for a header without date columns")
	}
}
