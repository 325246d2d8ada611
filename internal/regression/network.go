package regression

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// network holds all trainable parameters in one flat slice so optimizers can
// treat them uniformly. w1, b1 and w2 are views into theta; the output bias
// is the last element.
type network struct {
	width, hidden int
	act           Activation

	theta []float64
	w1    *mat.Dense
	b1    []float64
	w2    *mat.VecDense
}

// newNetwork allocates parameters. When rng is non-nil the weights get a
// Glorot uniform initialization; biases start at zero.
func newNetwork(width, hidden int, act Activation, rng *rand.Rand) *network {
	nw1 := width * hidden
	theta := make([]float64, nw1+2*hidden+1)

	n := &network{
		width:  width,
		hidden: hidden,
		act:    act,
		theta:  theta,
		w1:     mat.NewDense(width, hidden, theta[:nw1]),
		b1:     theta[nw1 : nw1+hidden],
		w2:     mat.NewVecDense(hidden, theta[nw1+hidden:nw1+2*hidden]),
	}

	if rng != nil {
		glorot(theta[:nw1], width, hidden, rng)
		glorot(theta[nw1+hidden:nw1+2*hidden], hidden, 1, rng)
	}
	return n
}

func glorot(w []float64, fanIn, fanOut int, rng *rand.Rand) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range w {
		w[i] = (2*rng.Float64() - 1) * limit
	}
}

func (n *network) bias() float64 { return n.theta[len(n.theta)-1] }

func (n *network) forward(x *mat.Dense) (z, a *mat.Dense, out *mat.VecDense) {
	m, _ := x.Dims()

	z = mat.NewDense(m, n.hidden, nil)
	z.Mul(x, n.w1)
	z.Apply(func(_, j int, v float64) float64 { return v + n.b1[j] }, z)

	a = mat.NewDense(m, n.hidden, nil)
	a.Apply(func(_, _ int, v float64) float64 { return n.act.apply(v) }, z)

	out = mat.NewVecDense(m, nil)
	out.MulVec(a, n.w2)
	b := n.bias()
	for i := 0; i < m; i++ {
		out.SetVec(i, out.AtVec(i)+b)
	}
	return z, a, out
}

// gradient writes d(MSE)/d(theta) for the batch (x, y) into g.
func (n *network) gradient(x *mat.Dense, y *mat.VecDense, g *network) {
	m, _ := x.Dims()
	z, a, out := n.forward(x)

	dy := mat.NewVecDense(m, nil)
	dy.SubVec(out, y)
	dy.ScaleVec(2/float64(m), dy)

	g.w2.MulVec(a.T(), dy)
	g.theta[len(g.theta)-1] = mat.Sum(dy)

	dz := mat.NewDense(m, n.hidden, nil)
	dz.Outer(1, dy, n.w2)
	dz.Apply(func(i, j int, v float64) float64 {
		return v * n.act.derivative(z.At(i, j), a.At(i, j))
	}, dz)

	g.w1.Mul(x.T(), dz)
	for j := 0; j < n.hidden; j++ {
		g.b1[j] = mat.Sum(dz.ColView(j))
	}
}

func (n *network) mse(x *mat.Dense, y []float64) float64 {
	_, _, out := n.forward(x)
	var sum float64
	for i, t := range y {
		d := out.AtVec(i) - t
		sum += d * d
	}
	return sum / float64(len(y))
}
