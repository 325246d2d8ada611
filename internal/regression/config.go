package regression

import (
	"fmt"
	"math"
)

// Activation selects the hidden layer nonlinearity.
type Activation int

const (
	ReLU Activation = iota
	Tanh
)

func (a Activation) String() string {
	switch a {
	case ReLU:
		return "relu"
	case Tanh:
		return "tanh"
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// apply returns the activation of z.
func (a Activation) apply(z float64) float64 {
	switch a {
	case Tanh:
		return math.Tanh(z)
	default:
		if z > 0 {
			return z
		}
		return 0
	}
}

// derivative returns d(activation)/dz given the pre-activation z and the
// activation output out.
func (a Activation) derivative(z, out float64) float64 {
	switch a {
	case Tanh:
		return 1 - out*out
	default:
		if z > 0 {
			return 1
		}
		return 0
	}
}

// OptimizerKind selects the parameter update rule.
type OptimizerKind int

const (
	Adam OptimizerKind = iota
	SGD
)

func (o OptimizerKind) String() string {
	switch o {
	case Adam:
		return "adam"
	case SGD:
		return "sgd"
	}
	return fmt.Sprintf("optimizer(%d)", int(o))
}

// Config fixes the architecture and training schedule. Zero values are
// replaced by the defaults from DefaultConfig.
type Config struct {
	HiddenUnits  int
	Activation   Activation
	Epochs       int
	Optimizer    OptimizerKind
	LearningRate float64
	BatchSize    int
	// Seed makes parameter initialization and shuffling reproducible.
	// Zero seeds from the clock.
	Seed int64
}

// DefaultConfig is 8 ReLU hidden units trained with Adam for 100 epochs.
func DefaultConfig() Config {
	return Config{
		HiddenUnits:  8,
		Activation:   ReLU,
		Epochs:       100,
		Optimizer:    Adam,
		LearningRate: 0.01,
		BatchSize:    32,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HiddenUnits <= 0 {
		c.HiddenUnits = d.HiddenUnits
	}
	if c.Epochs <= 0 {
		c.Epochs = d.Epochs
	}
	if c.LearningRate <= 0 {
		c.LearningRate = d.LearningRate
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	return c
}
