// Package lstm implements a small stacked LSTM regressor over
// fixed-length scalar windows, built on a tape-based reverse-mode
// autodiff core. Recurrent memory is not hidden inside the network:
// Forward takes the starting state as an argument and returns the
// final state, so independent batches simply start from nil.
package lstm

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// State is the recurrent memory of a Network: one hidden and one cell
// matrix per layer, each nHidden x batch. It is distinct from the
// learned parameters.
type State struct {
	H []*Mat
	C []*Mat
}

// Network is a stack of LSTM layers followed by a single linear
// projection to one scalar per sequence.
type Network struct {
	NFeatures int
	NHidden   int
	SeqLen    int
	NLayers   int

	// Params maps per-layer gate weights ("Wxi0", "Whf1", "bo0", ...)
	// and the output projection ("Wy", "by") to their matrices.
	Params map[string]*Mat
}

// The four LSTM gates: input, forget, output, candidate.
var gateNames = []string{"i", "f", "o", "g"}

// NewNetwork builds a network with normally-distributed initial
// weights drawn from a seeded source, so identical seeds give
// identical models.
func NewNetwork(nFeatures, nHidden, seqLen, nLayers int, seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	params := make(map[string]*Mat)
	for d := 0; d < nLayers; d++ {
		inSize := nFeatures
		if d > 0 {
			inSize = nHidden
		}
		for _, gate := range gateNames {
			params[fmt.Sprintf("Wx%s%d", gate, d)] = NewRandMat(nHidden, inSize, rng, 0.08)
			params[fmt.Sprintf("Wh%s%d", gate, d)] = NewRandMat(nHidden, nHidden, rng, 0.08)
			params[fmt.Sprintf("b%s%d", gate, d)] = NewMat(nHidden, 1)
		}
	}
	params["Wy"] = NewRandMat(1, nHidden, rng, 0.08)
	params["by"] = NewMat(1, 1)

	return &Network{
		NFeatures: nFeatures,
		NHidden:   nHidden,
		SeqLen:    seqLen,
		NLayers:   nLayers,
		Params:    params,
	}
}

// NewState returns zero-filled recurrent memory for a batch of the
// given size.
func (n *Network) NewState(batch int) *State {
	st := &State{
		H: make([]*Mat, n.NLayers),
		C: make([]*Mat, n.NLayers),
	}
	for d := 0; d < n.NLayers; d++ {
		st.H[d] = NewMat(n.NHidden, batch)
		st.C[d] = NewMat(n.NHidden, batch)
	}
	return st
}

// ZeroGrads clears the gradients of every parameter.
func (n *Network) ZeroGrads() {
	for _, p := range n.Params {
		p.ZeroGrads()
	}
}

// Forward runs a full batch of windows through the stacked LSTM,
// carrying memory across time steps within each window, and projects
// the final time step of the last layer to one scalar per window.
//
// batch is (windows x SeqLen); st is the starting memory, nil for
// zeros. It returns the predictions (1 x windows) and the memory after
// the final time step.
func (n *Network) Forward(g *Graph, batch *mat.Dense, st *State) (*Mat, *State) {
	rows, cols := batch.Dims()
	assert(cols == n.SeqLen, fmt.Sprintf("Forward: batch has %d columns, window length is %d", cols, n.SeqLen))
	assert(n.NFeatures == 1, "Forward: only scalar-valued windows are supported")

	if st == nil {
		st = n.NewState(rows)
	}
	h := make([]*Mat, n.NLayers)
	c := make([]*Mat, n.NLayers)
	copy(h, st.H)
	copy(c, st.C)

	for t := 0; t < n.SeqLen; t++ {
		x := NewMat(n.NFeatures, rows)
		for j := 0; j < rows; j++ {
			x.W[j] = batch.At(j, t)
		}
		in := x
		for d := 0; d < n.NLayers; d++ {
			h[d], c[d] = n.step(g, d, in, h[d], c[d])
			in = h[d]
		}
	}

	out := g.AddBroadcastCol(g.Mul(n.Params["Wy"], h[n.NLayers-1]), n.Params["by"])
	return out, &State{H: h, C: c}
}

// step advances one LSTM layer by one time step.
func (n *Network) step(g *Graph, d int, x, hPrev, cPrev *Mat) (*Mat, *Mat) {
	gate := func(name string) *Mat {
		wx := n.Params[fmt.Sprintf("Wx%s%d", name, d)]
		wh := n.Params[fmt.Sprintf("Wh%s%d", name, d)]
		b := n.Params[fmt.Sprintf("b%s%d", name, d)]
		return g.AddBroadcastCol(g.Add(g.Mul(wx, x), g.Mul(wh, hPrev)), b)
	}

	i := g.Sigmoid(gate("i"))
	f := g.Sigmoid(gate("f"))
	o := g.Sigmoid(gate("o"))
	cand := g.Tanh(gate("g"))

	c := g.Add(g.Eltmul(f, cPrev), g.Eltmul(i, cand))
	h := g.Eltmul(o, g.Tanh(c))
	return h, c
}

// Predict runs batch from the zero state with no gradient tracking and
// returns one prediction per window.
func (n *Network) Predict(batch *mat.Dense) []float64 {
	g := NewGraph(false)
	out, _ := n.Forward(g, batch, nil)
	res := make([]float64, len(out.W))
	copy(res, out.W)
	return res
}
