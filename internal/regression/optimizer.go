package regression

import "math"

// optimizer updates a flat parameter vector in place from its gradient.
type optimizer interface {
	step(theta, grad []float64)
}

func newOptimizer(kind OptimizerKind, lr float64, size int) optimizer {
	if kind == SGD {
		return &sgd{lr: lr}
	}
	return &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-7,
		m:     make([]float64, size),
		v:     make([]float64, size),
	}
}

type sgd struct {
	lr float64
}

func (o *sgd) step(theta, grad []float64) {
	for i, g := range grad {
		theta[i] -= o.lr * g
	}
}

type adam struct {
	lr, beta1, beta2, eps float64
	m, v                  []float64
	t                     int
}

func (o *adam) step(theta, grad []float64) {
	o.t++
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))
	for i, g := range grad {
		o.m[i] = o.beta1*o.m[i] + (1-o.beta1)*g
		o.v[i] = o.beta2*o.v[i] + (1-o.beta2)*g*g
		mHat := o.m[i] / c1
		vHat := o.v[i] / c2
		theta[i] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
	}
}
