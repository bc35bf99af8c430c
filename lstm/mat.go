package lstm

import (
	"fmt"
	"math"
	"math/rand"
)

func assert(condition bool, message string) {
	if !condition {
		panic(message)
	}
}

// Mat is a row-major matrix carrying both values and the gradient
// accumulated by a backward pass.
type Mat struct {
	N  int // rows
	D  int // cols
	W  []float64
	Dw []float64
}

// NewMat returns a zero-filled n x d matrix.
func NewMat(n, d int) *Mat {
	assert(n >= 0 && d >= 0, "matrix dimensions must be non-negative")
	return &Mat{
		N:  n,
		D:  d,
		W:  make([]float64, n*d),
		Dw: make([]float64, n*d),
	}
}

// NewRandMat returns an n x d matrix with values drawn from a normal
// distribution with the given standard deviation.
func NewRandMat(n, d int, rng *rand.Rand, stddev float64) *Mat {
	m := NewMat(n, d)
	for i := range m.W {
		m.W[i] = rng.NormFloat64() * stddev
	}
	return m
}

func (m *Mat) Get(row, col int) float64 {
	assert(row >= 0 && row < m.N && col >= 0 && col < m.D,
		fmt.Sprintf("Mat.Get (%d,%d) out of bounds for %dx%d matrix", row, col, m.N, m.D))
	return m.W[row*m.D+col]
}

func (m *Mat) Set(row, col int, v float64) {
	assert(row >= 0 && row < m.N && col >= 0 && col < m.D,
		fmt.Sprintf("Mat.Set (%d,%d) out of bounds for %dx%d matrix", row, col, m.N, m.D))
	m.W[row*m.D+col] = v
}

// ZeroGrads clears the accumulated gradient.
func (m *Mat) ZeroGrads() {
	for i := range m.Dw {
		m.Dw[i] = 0
	}
}

// Clone copies values only; the gradient of the clone starts at zero.
func (m *Mat) Clone() *Mat {
	out := NewMat(m.N, m.D)
	copy(out.W, m.W)
	return out
}

// Graph records a tape of backward closures as forward operations run.
// Calling Backward replays the tape in reverse, accumulating gradients
// into the Dw buffers of every matrix that took part.
type Graph struct {
	needsBackprop bool
	tape          []func()
}

// NewGraph returns a graph; pass false to skip gradient tracking
// entirely (evaluation passes).
func NewGraph(needsBackprop bool) *Graph {
	return &Graph{needsBackprop: needsBackprop}
}

// Backward replays the recorded tape in reverse order.
func (g *Graph) Backward() {
	for i := len(g.tape) - 1; i >= 0; i-- {
		g.tape[i]()
	}
}

func (g *Graph) record(f func()) {
	if g.needsBackprop {
		g.tape = append(g.tape, f)
	}
}

// Mul is the matrix product m1 * m2.
func (g *Graph) Mul(m1, m2 *Mat) *Mat {
	assert(m1.D == m2.N, fmt.Sprintf("Mul: dimensions misaligned, %dx%d * %dx%d", m1.N, m1.D, m2.N, m2.D))
	n, k, d := m1.N, m1.D, m2.D
	out := NewMat(n, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			dot := 0.0
			for l := 0; l < k; l++ {
				dot += m1.W[i*k+l] * m2.W[l*d+j]
			}
			out.W[i*d+j] = dot
		}
	}
	g.record(func() {
		for i := 0; i < n; i++ {
			for j := 0; j < d; j++ {
				grad := out.Dw[i*d+j]
				if grad == 0 {
					continue
				}
				for l := 0; l < k; l++ {
					m1.Dw[i*k+l] += m2.W[l*d+j] * grad
					m2.Dw[l*d+j] += m1.W[i*k+l] * grad
				}
			}
		}
	})
	return out
}

// Add is the elementwise sum of two same-shaped matrices.
func (g *Graph) Add(m1, m2 *Mat) *Mat {
	assert(m1.N == m2.N && m1.D == m2.D, fmt.Sprintf("Add: shape mismatch, %dx%d + %dx%d", m1.N, m1.D, m2.N, m2.D))
	out := NewMat(m1.N, m1.D)
	for i := range m1.W {
		out.W[i] = m1.W[i] + m2.W[i]
	}
	g.record(func() {
		for i := range m1.W {
			m1.Dw[i] += out.Dw[i]
			m2.Dw[i] += out.Dw[i]
		}
	})
	return out
}

// AddBroadcastCol adds a column vector to every column of m1.
func (g *Graph) AddBroadcastCol(m1, col *Mat) *Mat {
	assert(m1.N == col.N && col.D == 1,
		fmt.Sprintf("AddBroadcastCol: %dx%d + %dx%d", m1.N, m1.D, col.N, col.D))
	n, d := m1.N, m1.D
	out := NewMat(n, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			out.W[i*d+j] = m1.W[i*d+j] + col.W[i]
		}
	}
	g.record(func() {
		for i := 0; i < n; i++ {
			for j := 0; j < d; j++ {
				grad := out.Dw[i*d+j]
				m1.Dw[i*d+j] += grad
				col.Dw[i] += grad
			}
		}
	})
	return out
}

// Eltmul is the elementwise (Hadamard) product.
func (g *Graph) Eltmul(m1, m2 *Mat) *Mat {
	assert(m1.N == m2.N && m1.D == m2.D, fmt.Sprintf("Eltmul: shape mismatch, %dx%d . %dx%d", m1.N, m1.D, m2.N, m2.D))
	out := NewMat(m1.N, m1.D)
	for i := range m1.W {
		out.W[i] = m1.W[i] * m2.W[i]
	}
	g.record(func() {
		for i := range m1.W {
			m1.Dw[i] += m2.W[i] * out.Dw[i]
			m2.Dw[i] += m1.W[i] * out.Dw[i]
		}
	})
	return out
}

func (g *Graph) apply(m *Mat, fn func(float64) float64, deriv func(in, out float64) float64) *Mat {
	out := NewMat(m.N, m.D)
	for i := range m.W {
		out.W[i] = fn(m.W[i])
	}
	g.record(func() {
		for i := range m.W {
			m.Dw[i] += deriv(m.W[i], out.W[i]) * out.Dw[i]
		}
	})
	return out
}

// Sigmoid applies the logistic function elementwise.
func (g *Graph) Sigmoid(m *Mat) *Mat {
	return g.apply(m,
		func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) },
		func(in, out float64) float64 { return out * (1.0 - out) })
}

// Tanh applies the hyperbolic tangent elementwise.
func (g *Graph) Tanh(m *Mat) *Mat {
	return g.apply(m, math.Tanh,
		func(in, out float64) float64 { return 1.0 - out*out })
}
