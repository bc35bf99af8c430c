package series

import (
	"math"
	"testing"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			return false
		}
	}
	return true
}

func TestDiff(t *testing.T) {
	cumulative := []float64{0, 1, 3, 6, 10}
	daily := Diff(cumulative)

	if len(daily) != len(cumulative) {
		t.Errorf("Diff changed length: got %d, want %d", len(daily), len(cumulative))
	}
	if daily[0] != cumulative[0] {
		t.Errorf("Diff first element = %v, want %v", daily[0], cumulative[0])
	}
	if !floatsEqual(daily, []float64{0, 1, 2, 3, 4}) {
		t.Errorf("Diff = %v, want [0 1 2 3 4]", daily)
	}
}

func TestDiffEmpty(t *testing.T) {
	if got := Diff(nil); len(got) != 0 {
		t.Errorf("Diff(nil) = %v, want empty", got)
	}
}

func TestDiffRoundTrip(t *testing.T) {
	// Includes a downward data correction, which Diff must pass
	// through as a negative value.
	cases := [][]float64{
		{5},
		{5, 7, 6, 9},
		{0, 0, 0},
		{3, 10, 10, 25, 24, 100},
	}
	for _, cumulative := range cases {
		if got := CumSum(Diff(cumulative)); !floatsEqual(got, cumulative) {
			t.Errorf("CumSum(Diff(%v)) = %v, want the input back", cumulative, got)
		}
	}
}

func TestSplit(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4}

	train, test := Split(vals, 2)
	if !floatsEqual(train, []float64{0, 1, 2}) || !floatsEqual(test, []float64{3, 4}) {
		t.Errorf("Split(vals, 2) = %v, %v", train, test)
	}

	train, test = Split(vals, 10)
	if len(train) != 0 || len(test) != 5 {
		t.Errorf("Split with oversized testSize = %v, %v", train, test)
	}

	train, test = Split(vals, 0)
	if len(train) != 5 || len(test) != 0 {
		t.Errorf("Split with zero testSize = %v, %v", train, test)
	}
}

func TestFitMinMax(t *testing.T) {
	s := FitMinMax([]float64{0, 1, 2})
	if s.Min != 0 || s.Max != 2 {
		t.Fatalf("FitMinMax: got min=%v max=%v, want 0 and 2", s.Min, s.Max)
	}

	got := s.Transform([]float64{0, 1, 2})
	if !floatsEqual(got, []float64{0, 0.5, 1}) {
		t.Errorf("Transform = %v, want [0 0.5 1]", got)
	}

	// Fitted on train only: test values may leave [0, 1].
	got = s.Transform([]float64{3, 4})
	if !floatsEqual(got, []float64{1.5, 2}) {
		t.Errorf("Transform out-of-range = %v, want [1.5 2]", got)
	}
}

func TestMinMaxInverse(t *testing.T) {
	s := FitMinMax([]float64{10, 20, 50})
	vals := []float64{10, 25, 50, 60}
	if got := s.Inverse(s.Transform(vals)); !floatsEqual(got, vals) {
		t.Errorf("Inverse(Transform(%v)) = %v", vals, got)
	}
}

func TestMinMaxConstantSeries(t *testing.T) {
	s := FitMinMax([]float64{7, 7, 7})
	got := s.Transform([]float64{7, 7})
	if !floatsEqual(got, []float64{0, 0}) {
		t.Errorf("constant series Transform = %v, want zeros", got)
	}
}

func TestWindows(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := Windows(vals, 5)

	if b.Len() != 4 {
		t.Fatalf("Windows(len 10, L=5) produced %d pairs, want 4", b.Len())
	}

	// Pair 0: context = elements [0, 5), target = element 5.
	for j := 0; j < 5; j++ {
		if b.X.At(0, j) != vals[j] {
			t.Errorf("pair 0 context[%d] = %v, want %v", j, b.X.At(0, j), vals[j])
		}
	}
	if b.Y.AtVec(0) != vals[5] {
		t.Errorf("pair 0 target = %v, want %v", b.Y.AtVec(0), vals[5])
	}

	// Last pair: context = elements [3, 8), target = element 8.
	if b.X.At(3, 0) != vals[3] || b.Y.AtVec(3) != vals[8] {
		t.Errorf("pair 3 = context starting %v target %v, want 3 and 8", b.X.At(3, 0), b.Y.AtVec(3))
	}
}

func TestWindowsTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6} {
		vals := make([]float64, n)
		if got := Windows(vals, 5).Len(); got != 0 {
			t.Errorf("Windows(len %d, L=5).Len() = %d, want 0", n, got)
		}
	}
	if got := Windows([]float64{1, 2, 3}, 0).Len(); got != 0 {
		t.Errorf("Windows with L=0 produced %d pairs, want 0", got)
	}
}

func TestWindowsTargets(t *testing.T) {
	b := Windows([]float64{0, 1, 2, 3, 4, 5}, 2)
	if !floatsEqual(b.Targets(), []float64{2, 3, 4}) {
		t.Errorf("Targets = %v, want [2 3 4]", b.Targets())
	}
}

// The end-to-end scenario: cumulative [0 1 3 6 10] differenced, split
// with test size 2, scaled on the training split only.
func TestBuilderScenario(t *testing.T) {
	daily := Diff([]float64{0, 1, 3, 6, 10})
	if !floatsEqual(daily, []float64{0, 1, 2, 3, 4}) {
		t.Fatalf("daily = %v", daily)
	}

	train, test := Split(daily, 2)
	if !floatsEqual(train, []float64{0, 1, 2}) || !floatsEqual(test, []float64{3, 4}) {
		t.Fatalf("split = %v, %v", train, test)
	}

	scaler := FitMinMax(train)
	if scaler.Min != 0 || scaler.Max != 2 {
		t.Fatalf("scaler fit = %+v", scaler)
	}
	if got := scaler.Transform(train); !floatsEqual(got, []float64{0, 0.5, 1}) {
		t.Errorf("normalized train = %v, want [0 0.5 1]", got)
	}
}
