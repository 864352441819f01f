// Package random fills views with samples from common distributions.
//
// A Generator wraps a seeded PCG source so every fill is reproducible for a
// given seed. Generators are not safe for concurrent use.
package random

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/strided/internal/tensor"
)

// Generator produces the random stream behind every fill.
type Generator struct {
	seed uint64
	rng  *rand.Rand
}

// New creates a generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Reset restarts the stream from the original seed.
func (g *Generator) Reset() {
	*g = *New(g.seed)
}

// Float64 returns a sample in [0, 1).
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

// NormFloat64 returns a standard normal sample.
func (g *Generator) NormFloat64() float64 {
	return g.rng.NormFloat64()
}

// ExpFloat64 returns a rate-1 exponential sample.
func (g *Generator) ExpFloat64() float64 {
	return g.rng.ExpFloat64()
}

// IntN returns a sample in [0, n).
func (g *Generator) IntN(n int) int {
	return g.rng.IntN(n)
}

// Distribution draws one sample from a generator.
type Distribution interface {
	Sample(g *Generator) float64
	Validate() error
}

// Uniform samples from [Low, High).
type Uniform struct {
	Low, High float64
}

// Sample draws one value.
func (d Uniform) Sample(g *Generator) float64 {
	return d.Low + (d.High-d.Low)*g.Float64()
}

// Validate checks Low < High.
func (d Uniform) Validate() error {
	if !(d.Low < d.High) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "uniform: low %v must be below high %v", d.Low, d.High)
	}
	return nil
}

// Normal samples from N(Mean, Std^2).
type Normal struct {
	Mean, Std float64
}

// Sample draws one value.
func (d Normal) Sample(g *Generator) float64 {
	return d.Mean + d.Std*g.NormFloat64()
}

// Validate checks Std > 0.
func (d Normal) Validate() error {
	if !(d.Std > 0) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "normal: std must be positive, got %v", d.Std)
	}
	return nil
}

// Exponential samples with rate Lambda.
type Exponential struct {
	Lambda float64
}

// Sample draws one value.
func (d Exponential) Sample(g *Generator) float64 {
	return g.ExpFloat64() / d.Lambda
}

// Validate checks Lambda > 0.
func (d Exponential) Validate() error {
	if !(d.Lambda > 0) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "exponential: lambda must be positive, got %v", d.Lambda)
	}
	return nil
}

// Cauchy samples with location Median and scale Sigma.
type Cauchy struct {
	Median, Sigma float64
}

// Sample draws one value.
func (d Cauchy) Sample(g *Generator) float64 {
	return d.Median + d.Sigma*math.Tan(math.Pi*(g.Float64()-0.5))
}

// Validate checks Sigma > 0.
func (d Cauchy) Validate() error {
	if !(d.Sigma > 0) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "cauchy: sigma must be positive, got %v", d.Sigma)
	}
	return nil
}

// LogNormal samples exp(X) with X ~ N(Mean, Std^2).
type LogNormal struct {
	Mean, Std float64
}

// Sample draws one value.
func (d LogNormal) Sample(g *Generator) float64 {
	return math.Exp(d.Mean + d.Std*g.NormFloat64())
}

// Validate checks Std > 0.
func (d LogNormal) Validate() error {
	if !(d.Std > 0) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "lognormal: std must be positive, got %v", d.Std)
	}
	return nil
}

// Geometric samples the number of trials until the first success, each
// trial succeeding with probability P.
type Geometric struct {
	P float64
}

// Sample draws one value (>= 1).
func (d Geometric) Sample(g *Generator) float64 {
	if d.P == 1 {
		return 1
	}
	u := 1 - g.Float64() // (0, 1]
	return math.Floor(math.Log(u)/math.Log1p(-d.P)) + 1
}

// Validate checks 0 < P <= 1.
func (d Geometric) Validate() error {
	if !(d.P > 0 && d.P <= 1) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "geometric: p must be in (0, 1], got %v", d.P)
	}
	return nil
}

// Bernoulli samples 1 with probability P and 0 otherwise.
type Bernoulli struct {
	P float64
}

// Sample draws one value.
func (d Bernoulli) Sample(g *Generator) float64 {
	if g.Float64() < d.P {
		return 1
	}
	return 0
}

// Validate checks 0 <= P <= 1.
func (d Bernoulli) Validate() error {
	if !(d.P >= 0 && d.P <= 1) {
		return errors.Wrapf(tensor.ErrInvalidArgument, "bernoulli: p must be in [0, 1], got %v", d.P)
	}
	return nil
}

// Standard returns the named distribution with its textbook parameters:
// uniform on [0, 1), standard normal, cauchy and lognormal, rate-1
// exponential, and p = 0.5 for geometric and bernoulli.
func Standard(name string) (Distribution, error) {
	switch strings.ToLower(name) {
	case "uniform":
		return Uniform{Low: 0, High: 1}, nil
	case "normal":
		return Normal{Mean: 0, Std: 1}, nil
	case "exponential":
		return Exponential{Lambda: 1}, nil
	case "cauchy":
		return Cauchy{Median: 0, Sigma: 1}, nil
	case "lognormal":
		return LogNormal{Mean: 0, Std: 1}, nil
	case "geometric":
		return Geometric{P: 0.5}, nil
	case "bernoulli":
		return Bernoulli{P: 0.5}, nil
	}
	return nil, errors.Wrapf(tensor.ErrInvalidArgument, "random: unknown distribution %q", name)
}

// Fill overwrites every element of v, in row-major order, with samples from
// dist. Integer element types receive truncated samples; complex types
// receive the sample in the real part.
//
// Example:
//
//	g := random.New(42)
//	v := tensor.Must(tensor.New[float64](10, 13))
//	err := random.Fill(v, g, random.Normal{Mean: 0, Std: 1})
func Fill[T tensor.Element](v *tensor.View[T], g *Generator, dist Distribution) error {
	if g == nil {
		return errors.Wrap(tensor.ErrInvalidArgument, "random: nil generator")
	}
	if err := dist.Validate(); err != nil {
		return err
	}
	c := tensor.CapabilitiesOf[T]()
	return tensor.Apply1(v, func(x *T) { *x = c.FromFloat(dist.Sample(g)) })
}

// Permutation returns a random permutation of 0..n-1 as a 1-D view.
func Permutation(g *Generator, n int) (*tensor.View[int64], error) {
	if g == nil {
		return nil, errors.Wrap(tensor.ErrInvalidArgument, "random: nil generator")
	}
	v, err := tensor.Arange[int64](n)
	if err != nil {
		return nil, err
	}
	data, err := v.Data()
	if err != nil {
		return nil, err
	}
	g.rng.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
	return v, nil
}
