// Package series builds univariate sequence-prediction datasets from
// cumulative count time series: differencing, train/test splitting,
// min-max scaling, and fixed-length windowing.
package series

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Diff converts a cumulative series into a daily series. The first
// element is seeded with the first cumulative value so the result has
// the same length as the input. Negative differences (data
// corrections) pass through unmodified.
func Diff(cumulative []float64) []float64 {
	daily := make([]float64, len(cumulative))
	for i, v := range cumulative {
		if i == 0 {
			daily[i] = v
		} else {
			daily[i] = v - cumulative[i-1]
		}
	}
	return daily
}

// CumSum is the inverse of Diff: running totals of a daily series
// reproduce the cumulative series it was derived from.
func CumSum(daily []float64) []float64 {
	cumulative := make([]float64, len(daily))
	total := 0.0
	for i, v := range daily {
		total += v
		cumulative[i] = total
	}
	return cumulative
}

// Split partitions a series into a training prefix and a test suffix
// of exactly testSize elements, preserving temporal order. If testSize
// meets or exceeds the series length the training split is empty.
func Split(vals []float64, testSize int) (train, test []float64) {
	cut := len(vals) - testSize
	if cut < 0 {
		cut = 0
	}
	return vals[:cut], vals[cut:]
}

// MinMaxScaler is an affine transform fit on one split and applied
// unchanged to others. Values outside the fitted range map outside
// [0, 1], which is expected for test splits.
type MinMaxScaler struct {
	Min float64
	Max float64
}

// FitMinMax computes scaler parameters from the observed range of
// vals. An empty or constant input yields a degenerate scaler that
// only shifts.
func FitMinMax(vals []float64) *MinMaxScaler {
	if len(vals) == 0 {
		return &MinMaxScaler{}
	}
	return &MinMaxScaler{
		Min: floats.Min(vals),
		Max: floats.Max(vals),
	}
}

func (s *MinMaxScaler) scale() float64 {
	if s.Max == s.Min {
		return 1
	}
	return s.Max - s.Min
}

// Transform maps vals elementwise to (x - min) / (max - min).
func (s *MinMaxScaler) Transform(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - s.Min) / s.scale()
	}
	return out
}

// Inverse maps normalized values back to the original units.
func (s *MinMaxScaler) Inverse(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v*s.scale() + s.Min
	}
	return out
}

// Batch is a windowed dataset: row i of X is the context
// vals[i : i+L] and Y[i] is the target vals[i+L].
type Batch struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Len returns the number of windows in the batch.
func (b *Batch) Len() int {
	if b == nil || b.X == nil {
		return 0
	}
	r, _ := b.X.Dims()
	return r
}

// Targets returns the target values as a plain slice.
func (b *Batch) Targets() []float64 {
	out := make([]float64, b.Len())
	for i := range out {
		out[i] = b.Y.AtVec(i)
	}
	return out
}

// Windows slides a window of length seqLen over vals and emits
// exactly max(len(vals)-seqLen-1, 0) context/target pairs. A series
// too short to window produces an empty batch, not an error.
func Windows(vals []float64, seqLen int) *Batch {
	n := len(vals) - seqLen - 1
	if seqLen <= 0 || n <= 0 {
		return &Batch{}
	}
	x := mat.NewDense(n, seqLen, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < seqLen; j++ {
			x.Set(i, j, vals[i+j])
		}
		y.SetVec(i, vals[i+seqLen])
	}
	return &Batch{X: x, Y: y}
}
