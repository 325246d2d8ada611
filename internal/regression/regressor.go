package regression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyTrainingSet is returned by Fit when there is nothing to learn from.
	ErrEmptyTrainingSet = errors.New("regression: empty training set")
	// ErrMalformedInput is returned by Fit for ragged or non-finite rows.
	ErrMalformedInput = errors.New("regression: malformed training input")
	// ErrFeatureWidth is returned by Predict when the feature vector width
	// differs from the width the model was trained on.
	ErrFeatureWidth = errors.New("regression: feature width mismatch")
)

// Example is one feature vector and its target.
type Example struct {
	Features []float64
	Target   float64
}

// TrainingSet is the data a model is fitted on. It may be empty.
type TrainingSet []Example

// Predictor is satisfied by *Model and by test doubles.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Model is a fitted single hidden layer network. Its parameters never change
// after Fit returns.
type Model struct {
	width  int
	hidden int
	act    Activation

	w1 *mat.Dense    // width x hidden
	b1 []float64     // hidden
	w2 *mat.VecDense // hidden
	b2 float64

	xMean, xStd []float64
	yMean, yStd float64

	loss float64
}

// Width is the number of features the model expects.
func (m *Model) Width() int { return m.width }

// Loss is the mean squared error over the training set after the last epoch,
// in target units.
func (m *Model) Loss() float64 { return m.loss }

// Predict returns the model output for one feature vector.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != m.width {
		return 0, fmt.Errorf("predict: got %d features, model expects %d: %w", len(features), m.width, ErrFeatureWidth)
	}

	x := make([]float64, m.width)
	for i, f := range features {
		x[i] = (f - m.xMean[i]) / m.xStd[i]
	}

	z := mat.NewVecDense(m.hidden, nil)
	z.MulVec(m.w1.T(), mat.NewVecDense(m.width, x))

	a := mat.NewVecDense(m.hidden, nil)
	for j := 0; j < m.hidden; j++ {
		a.SetVec(j, m.act.apply(z.AtVec(j)+m.b1[j]))
	}

	y := mat.Dot(a, m.w2) + m.b2
	return y*m.yStd + m.yMean, nil
}

// Fit trains a new model on set. An empty set returns ErrEmptyTrainingSet
// without training. Cancellation of ctx is observed between epochs.
func Fit(ctx context.Context, set TrainingSet, cfg Config) (*Model, error) {
	if len(set) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	cfg = cfg.withDefaults()

	width := len(set[0].Features)
	if width == 0 {
		return nil, fmt.Errorf("fit: example 0 has no features: %w", ErrMalformedInput)
	}
	for i, ex := range set {
		if len(ex.Features) != width {
			return nil, fmt.Errorf("fit: example %d has %d features, want %d: %w", i, len(ex.Features), width, ErrMalformedInput)
		}
		if !finite(ex.Target) {
			return nil, fmt.Errorf("fit: example %d has non-finite target: %w", i, ErrMalformedInput)
		}
		for _, f := range ex.Features {
			if !finite(f) {
				return nil, fmt.Errorf("fit: example %d has non-finite feature: %w", i, ErrMalformedInput)
			}
		}
	}

	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	n, h := len(set), cfg.HiddenUnits
	xMean, xStd, yMean, yStd := scaling(set, width)

	// Standardized design matrix and targets.
	xs := mat.NewDense(n, width, nil)
	ys := make([]float64, n)
	for i, ex := range set {
		for j, f := range ex.Features {
			xs.Set(i, j, (f-xMean[j])/xStd[j])
		}
		ys[i] = (ex.Target - yMean) / yStd
	}

	net := newNetwork(width, h, cfg.Activation, rng)
	grads := newNetwork(width, h, cfg.Activation, nil)
	opt := newOptimizer(cfg.Optimizer, cfg.LearningRate, len(net.theta))

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fit: epoch %d: %w", epoch, err)
		}

		perm := rng.Perm(n)
		for start := 0; start < n; start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, n)
			bx, by := batch(xs, ys, perm[start:end])
			net.gradient(bx, by, grads)
			opt.step(net.theta, grads.theta)
		}
	}

	mse := net.mse(xs, ys)
	if !finite(mse) {
		return nil, fmt.Errorf("fit: training diverged: %w", ErrMalformedInput)
	}

	return &Model{
		width:  width,
		hidden: h,
		act:    cfg.Activation,
		w1:     mat.DenseCopyOf(net.w1),
		b1:     append([]float64(nil), net.b1...),
		w2:     mat.VecDenseCopyOf(net.w2),
		b2:     net.bias(),
		xMean:  xMean,
		xStd:   xStd,
		yMean:  yMean,
		yStd:   yStd,
		loss:   mse * yStd * yStd,
	}, nil
}

// scaling computes per-column mean and standard deviation. Columns with no
// spread keep a unit scale.
func scaling(set TrainingSet, width int) (xMean, xStd []float64, yMean, yStd float64) {
	col := make([]float64, len(set))
	xMean = make([]float64, width)
	xStd = make([]float64, width)
	for j := 0; j < width; j++ {
		for i, ex := range set {
			col[i] = ex.Features[j]
		}
		xMean[j], xStd[j] = meanStd(col)
	}

	for i, ex := range set {
		col[i] = ex.Target
	}
	yMean, yStd = meanStd(col)
	return xMean, xStd, yMean, yStd
}

func meanStd(x []float64) (float64, float64) {
	mean := stat.Mean(x, nil)
	if len(x) < 2 {
		return mean, 1
	}
	std := stat.StdDev(x, nil)
	if !finite(std) || std < 1e-12 {
		return mean, 1
	}
	return mean, std
}

func batch(xs *mat.Dense, ys []float64, idx []int) (*mat.Dense, *mat.VecDense) {
	_, width := xs.Dims()
	bx := mat.NewDense(len(idx), width, nil)
	by := mat.NewVecDense(len(idx), nil)
	for r, i := range idx {
		bx.SetRow(r, xs.RawRowView(i))
		by.SetVec(r, ys[i])
	}
	return bx, by
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
