package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"log"

	"github.com/akamensky/argparse"

	"github.com/herclab/wavegen/pkg/wavegen"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/epilab/coronacast/lstm"
	"github.com/epilab/coronacast/parameters"
	"github.com/epilab/coronacast/series"
	"github.com/epilab/coronacast/train"
)

func main() {
	parser := argparse.NewParser("coronacast", "daily case forecasting with a stacked LSTM")

	input := parser.String("i", "input", &argparse.Options{Help: "Cumulative-counts CSV, a file path or an http(s) URL. Defaults to the JHU confirmed-global series."})

	wavein := parser.String("w", "wavegen", &argparse.Options{Help: "Read a Wavegen JSON signal and treat its samples as the daily series (synthetic smoke-test input)."})

	saveweights := parser.String("o", "saveweights", &argparse.Options{Help: "Save the trained weights to this file."})

	plotdir := parser.String("p", "plotdir", &argparse.Options{Help: "Save series and loss plots into this directory."})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		panic("Error parsing arguments")
	}

	var cumulative, daily []float64

	if *wavein != "" {
		wf, err := wavegen.ReadJSON(*wavein)
		if err != nil {
			panic(err)
		}
		daily = wf.Signal.S
		log.Printf("loaded %d samples from %s", len(daily), *wavein)
	} else {
		source := *input
		if source == "" {
			source = parameters.DATA_URL
		}
		ts, err := loadSeries(source)
		if err != nil {
			panic(err)
		}
		cumulative = ts.Cumulative
		daily = series.Diff(cumulative)
		log.Printf("loaded %d days of cumulative counts from %s", len(cumulative), source)
	}

	mean, std := stat.MeanStdDev(daily, nil)
	log.Printf("daily series: n=%d mean=%.1f stddev=%.1f", len(daily), mean, std)

	trainRaw, testRaw := series.Split(daily, parameters.TEST_DATA_SIZE)
	scaler := series.FitMinMax(trainRaw)
	trainBatch := series.Windows(scaler.Transform(trainRaw), parameters.SEQ_LENGTH)
	testBatch := series.Windows(scaler.Transform(testRaw), parameters.SEQ_LENGTH)
	log.Printf("train windows: %d test windows: %d", trainBatch.Len(), testBatch.Len())

	net := lstm.NewNetwork(
		parameters.N_FEATURES,
		parameters.HIDDEN_SIZE,
		parameters.SEQ_LENGTH,
		parameters.NUM_LAYERS,
		parameters.RANDOM_SEED,
	)

	hist := train.Run(net, trainBatch, testBatch, train.Config{
		Epochs:       parameters.EPOCHS,
		LearningRate: parameters.LEARNING_RATE,
		LogEvery:     parameters.LOG_INTERVAL,
		Progress:     true,
	})

	if testBatch.Len() > 0 {
		pred := scaler.Inverse(net.Predict(testBatch.X))
		actual := scaler.Inverse(testBatch.Targets())
		log.Printf("test RMSE: %.2f", rmse(pred, actual))
	}

	if *saveweights != "" {
		if err := net.Save(*saveweights); err != nil {
			panic(err)
		}
		log.Printf("weights saved to %s", *saveweights)
	}

	if *plotdir != "" {
		if err := savePlots(*plotdir, cumulative, daily, hist); err != nil {
			panic(err)
		}
		log.Printf("plots saved to %s", *plotdir)
	}
}

func loadSeries(source string) (*series.TimeSeries, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return series.Fetch(source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return series.ReadTimeSeries(f)
}

func rmse(pred, actual []float64) float64 {
	return floats.Distance(pred, actual, 2) / math.Sqrt(float64(len(pred)))
}

func savePlots(dir string, cumulative, daily []float64, hist train.History) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if len(cumulative) > 0 {
		err := savePlot(filepath.Join(dir, "cumulative.png"), "Cumulative daily cases", "Day", "cases",
			"cumulative", xys(cumulative))
		if err != nil {
			return err
		}
	}

	err := savePlot(filepath.Join(dir, "daily.png"), "Daily cases", "Day", "cases",
		"daily", xys(daily))
	if err != nil {
		return err
	}

	lines := []interface{}{"Training loss", xys(hist.Train)}
	if len(hist.Test) > 0 {
		lines = append(lines, "Test loss", xys(hist.Test))
	}
	return savePlot(filepath.Join(dir, "loss.png"), "Loss", "Epoch", "sum of squared errors", lines...)
}

func savePlot(path, title, xlabel, ylabel string, lines ...interface{}) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func xys(vals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(vals))
	for i, v := range vals {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}
