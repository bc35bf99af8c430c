package train

import (
	"math"
	"sort"

	"github.com/epilab/coronacast/lstm"
)

// SolverAdam is a first-order adaptive optimizer (Adam) with a fixed
// learning rate: no schedule, no weight decay, no gradient clipping.
type SolverAdam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
	T     int

	m map[string][]float64
	v map[string][]float64
}

func NewSolverAdam(lr, beta1, beta2, eps float64) *SolverAdam {
	return &SolverAdam{
		LR:    lr,
		Beta1: beta1,
		Beta2: beta2,
		Eps:   eps,
		m:     make(map[string][]float64),
		v:     make(map[string][]float64),
	}
}

// Step applies one bias-corrected Adam update to every parameter and
// clears its gradient. Parameters are visited in sorted key order so
// the update sequence is deterministic.
func (s *SolverAdam) Step(params map[string]*lstm.Mat) {
	s.T++
	t := float64(s.T)
	lrT := s.LR * math.Sqrt(1.0-math.Pow(s.Beta2, t)) / (1.0 - math.Pow(s.Beta1, t))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := params[k]
		if _, ok := s.m[k]; !ok {
			s.m[k] = make([]float64, len(p.W))
			s.v[k] = make([]float64, len(p.W))
		}
		mK, vK := s.m[k], s.v[k]
		for i := range p.W {
			grad := p.Dw[i]
			mK[i] = s.Beta1*mK[i] + (1.0-s.Beta1)*grad
			vK[i] = s.Beta2*vK[i] + (1.0-s.Beta2)*grad*grad
			p.W[i] -= lrT * mK[i] / (math.Sqrt(vK[i]) + s.Eps)
		}
		p.ZeroGrads()
	}
}
