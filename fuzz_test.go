package fnplot_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/fnplot"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("exp(-x**2)")
	f.Add("2*x + eval('1')")
	f.Add("((((")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := fnplot.Parse(s)
		if err != nil {
			var ierr fnplot.InputError
			if !errors.As(err, &ierr) {
				t.Fatalf("%q gave %#v, which has no position", s, err)
			}
			if ierr.Pos() < 1 {
				t.Errorf("%q gave error at %d: %v", s, ierr.Pos(), err)
			}
			return
		}
		b, err := fnplot.Parse(a.Source())
		if err != nil {
			t.Fatalf("%q has source %q which fails to parse: %v", s, a.Source(), err)
		}
		if a.Source() != b.Source() {
			t.Errorf("%q has source %q which reparses as %q", s, a.Source(), b.Source())
		}
	})
}

func FuzzSample(f *testing.F) {
	f.Add("1/x", -1.0, 1.0, 3)
	f.Add("log(x)", -10.0, 10.0, 100)
	f.Add("x^x", -2.0, 2.0, 41)
	f.Fuzz(func(t *testing.T, s string, xmin, xmax float64, count int) {
		a, err := fnplot.Parse(s)
		if err != nil {
			return
		}
		if count > 1000 {
			count %= 1000
		}
		pts, err := fnplot.Sample(a, xmin, xmax, count)
		if err != nil {
			return
		}
		for i, p := range pts {
			if p.OK() && (math.IsNaN(p.Y) || math.IsInf(p.Y, 0)) {
				t.Errorf("%q at %g: non-finite value %g without error", s, p.X, p.Y)
			}
			if i > 0 && p.X < pts[i-1].X {
				t.Errorf("%q: x decreases from %g to %g", s, pts[i-1].X, p.X)
			}
		}
	})
}
