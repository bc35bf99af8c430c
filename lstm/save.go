package lstm

import (
	"encoding/gob"
	"fmt"
	"os"
)

// checkpoint is the on-disk form of a trained network: the learned
// parameter values plus the dimensions needed to rebuild the layout.
type checkpoint struct {
	NFeatures int
	NHidden   int
	SeqLen    int
	NLayers   int
	Params    map[string][]float64
}

// Save writes the learned parameters to path with encoding/gob,
// silently overwriting any existing file.
func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	ck := checkpoint{
		NFeatures: n.NFeatures,
		NHidden:   n.NHidden,
		SeqLen:    n.SeqLen,
		NLayers:   n.NLayers,
		Params:    make(map[string][]float64, len(n.Params)),
	}
	for k, p := range n.Params {
		ck.Params[k] = p.W
	}
	if err := gob.NewEncoder(f).Encode(&ck); err != nil {
		f.Close()
		return fmt.Errorf("encode weights: %w", err)
	}
	return f.Close()
}

// Load restores a network written by Save.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	defer f.Close()

	var ck checkpoint
	if err := gob.NewDecoder(f).Decode(&ck); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}

	n := NewNetwork(ck.NFeatures, ck.NHidden, ck.SeqLen, ck.NLayers, 0)
	for k, p := range n.Params {
		w, ok := ck.Params[k]
		if !ok || len(w) != len(p.W) {
			return nil, fmt.Errorf("weights file missing parameter %q", k)
		}
		copy(p.W, w)
	}
	return n, nil
}
