// Package train runs fixed-epoch, full-batch training of the sequence
// regressor with a sum-of-squared-error loss and an Adam optimizer.
package train

import (
	"log"

	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/epilab/coronacast/lstm"
	"github.com/epilab/coronacast/series"
)

// Config controls a training run. The entire training batch is
// consumed at once every epoch; mini-batching is a caller concern.
type Config struct {
	Epochs       int
	LearningRate float64
	LogEvery     int  // epochs between loss log lines, default 10
	Progress     bool // render a progress bar over epochs
}

// History records one loss value per epoch. Test stays empty when no
// evaluation batch was supplied.
type History struct {
	Train []float64
	Test  []float64
}

// Run trains net in place for cfg.Epochs epochs and returns the loss
// histories. testBatch may be nil; it is evaluated without gradient
// tracking and never updates parameters. Zero epochs or an empty
// training batch leave the network untouched.
//
// There is no early stopping and no best-epoch checkpoint: the weights
// left in net are whatever the last epoch produced.
func Run(net *lstm.Network, trainBatch, testBatch *series.Batch, cfg Config) History {
	hist := History{Train: []float64{}, Test: []float64{}}
	if trainBatch.Len() == 0 || cfg.Epochs <= 0 {
		return hist
	}
	logEvery := cfg.LogEvery
	if logEvery <= 0 {
		logEvery = 10
	}
	haveTest := testBatch.Len() > 0

	solver := NewSolverAdam(cfg.LearningRate, 0.9, 0.999, 1e-8)

	var bar *pb.ProgressBar
	if cfg.Progress {
		bar = pb.StartNew(cfg.Epochs)
	}

	for t := 0; t < cfg.Epochs; t++ {
		// Every epoch starts from zero recurrent memory: the windows
		// are independent sequences.
		g := lstm.NewGraph(true)
		pred, _ := net.Forward(g, trainBatch.X, nil)
		loss := seedSquaredError(pred, trainBatch.Y)

		if haveTest {
			eval := lstm.NewGraph(false)
			testPred, _ := net.Forward(eval, testBatch.X, nil)
			testLoss := squaredError(testPred, testBatch.Y)
			hist.Test = append(hist.Test, testLoss)
			if t%logEvery == 0 {
				log.Printf("epoch %d train loss: %g test loss: %g", t, loss, testLoss)
			}
		} else if t%logEvery == 0 {
			log.Printf("epoch %d train loss: %g", t, loss)
		}
		hist.Train = append(hist.Train, loss)

		net.ZeroGrads()
		g.Backward()
		solver.Step(net.Params)

		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return hist
}

// squaredError is the sum (not mean) of squared errors, so its
// magnitude scales with batch size.
func squaredError(pred *lstm.Mat, y *mat.VecDense) float64 {
	sum := 0.0
	for i := 0; i < y.Len(); i++ {
		d := pred.W[i] - y.AtVec(i)
		sum += d * d
	}
	return sum
}

// seedSquaredError computes the loss and writes its gradient into
// pred, ready for a backward pass.
func seedSquaredError(pred *lstm.Mat, y *mat.VecDense) float64 {
	sum := 0.0
	for i := 0; i < y.Len(); i++ {
		d := pred.W[i] - y.AtVec(i)
		sum += d * d
		pred.Dw[i] += 2 * d
	}
	return sum
}
