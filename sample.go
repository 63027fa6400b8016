package fnplot

import (
	"context"
	"errors"
	"math"
)

// SamplePoint is the value of an expression at one point. If Err is not
// nil, Y is meaningless.
type SamplePoint struct {
	X   float64
	Y   float64
	Err *EvalError
}

// OK reports whether the point has a value.
func (p SamplePoint) OK() bool {
	return p.Err == nil
}

// Sampler evaluates expressions at evenly spaced points. The zero value
// clamps sample counts to at least one point and has no upper bound.
type Sampler struct {
	// MinSamples and MaxSamples bound the number of points in a series.
	// A MaxSamples of 0 means no bound.
	MinSamples int
	MaxSamples int
}

// DefaultSampler bounds series to between 2 and 20000 points.
var DefaultSampler = Sampler{MinSamples: 2, MaxSamples: 20000}

var (
	// ErrNoSamples is returned when the requested number of points is not
	// positive.
	ErrNoSamples = errors.New("fnplot: sample count must be positive")
	// ErrBounds is returned when a domain bound is infinite or NaN.
	ErrBounds = errors.New("fnplot: domain bounds must be finite")
)

// checkEvery is the number of points evaluated between context checks.
const checkEvery = 1024

// Clamp returns the number of points the sampler produces for a positive
// requested count over a non-degenerate domain.
func (s Sampler) Clamp(count int) int {
	lo := s.MinSamples
	if lo < 1 {
		lo = 1
	}
	if count < lo {
		count = lo
	}
	if s.MaxSamples > 0 && count > s.MaxSamples && s.MaxSamples >= lo {
		count = s.MaxSamples
	}
	return count
}

// Sample evaluates e at count evenly spaced points from xmin to xmax
// inclusive. See SampleContext.
func (s Sampler) Sample(e *Expr, xmin, xmax float64, count int) ([]SamplePoint, error) {
	return s.SampleContext(context.Background(), e, xmin, xmax, count)
}

// SampleContext evaluates e at evenly spaced points from xmin to xmax
// inclusive. count is clamped by s.Clamp; if xmin > xmax they are swapped,
// and if they are equal the series has exactly one point. Failures at
// individual points are recorded in those points' Err fields and do not stop
// sampling.
//
// The only errors are ErrNoSamples, ErrBounds, and the context's error if it
// is done before sampling finishes.
func (s Sampler) SampleContext(ctx context.Context, e *Expr, xmin, xmax float64, count int) ([]SamplePoint, error) {
	if count <= 0 {
		return nil, ErrNoSamples
	}
	if math.IsNaN(xmin) || math.IsInf(xmin, 0) || math.IsNaN(xmax) || math.IsInf(xmax, 0) {
		return nil, ErrBounds
	}
	if xmin > xmax {
		xmin, xmax = xmax, xmin
	}
	n := 1
	if xmin != xmax {
		n = s.Clamp(count)
	}
	at := spacing(xmin, xmax, n)
	pts := make([]SamplePoint, n)
	for i := range pts {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x := at(i)
		y, err := e.n.eval(x)
		pts[i] = SamplePoint{X: x, Y: y, Err: err}
	}
	return pts, nil
}

// Sample evaluates e using DefaultSampler.
func Sample(e *Expr, xmin, xmax float64, count int) ([]SamplePoint, error) {
	return DefaultSampler.Sample(e, xmin, xmax, count)
}

// spacing returns a function giving the i'th of n evenly spaced points in
// [xmin, xmax]. The points are non-decreasing, the first is xmin, and the last
// is xmax.
func spacing(xmin, xmax float64, n int) func(i int) float64 {
	if n <= 1 {
		return func(int) float64 { return xmin }
	}
	last := n - 1
	step := (xmax - xmin) / float64(last)
	if !math.IsInf(step, 0) {
		return func(i int) float64 {
			if i == last {
				return xmax
			}
			return math.Min(xmin+float64(i)*step, xmax)
		}
	}
	// The width of the domain overflows. Halving both bounds is exact, so
	// take the step in two halves.
	half := (xmax/2 - xmin/2) / float64(last)
	return func(i int) float64 {
		if i == last {
			return xmax
		}
		d := float64(i) * half
		return math.Min(xmin+d+d, xmax)
	}
}
