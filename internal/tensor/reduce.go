package tensor

import "math"

// Whole-view reductions fold every element in row-major order.

// Sum returns the sum of all elements, accumulated in T.
func Sum[T Element](v *View[T]) (T, error) {
	var acc T
	if err := requireView("sum", v); err != nil {
		return acc, err
	}
	c := CapabilitiesOf[T]()
	forEach(v, func(p int) { acc = c.Add(acc, v.buf.data[p]) })
	return acc, nil
}

// Prod returns the product of all elements, accumulated in T.
func Prod[T Element](v *View[T]) (T, error) {
	c := CapabilitiesOf[T]()
	acc := c.FromInt(1)
	if err := requireView("prod", v); err != nil {
		return acc, err
	}
	forEach(v, func(p int) { acc = c.Mul(acc, v.buf.data[p]) })
	return acc, nil
}

// Mean returns the arithmetic mean as float64.
// Complex elements fail with ErrDomain.
func Mean[T Element](v *View[T]) (float64, error) {
	c, err := requireReal[T]("mean")
	if err != nil {
		return 0, err
	}
	if err := requireView("mean", v); err != nil {
		return 0, err
	}
	return mean(v, c), nil
}

func mean[T Element](v *View[T], c Capabilities[T]) float64 {
	var acc float64
	forEach(v, func(p int) { acc += c.Float(v.buf.data[p]) })
	return acc / float64(v.Len())
}

// Variance returns the variance of all elements. It is computed in two
// passes: the mean first, then the mean squared deviation from it. With
// unbiased set the sum is divided by n-1; a single element then yields NaN.
func Variance[T Element](v *View[T], unbiased bool) (float64, error) {
	c, err := requireReal[T]("variance")
	if err != nil {
		return 0, err
	}
	if err := requireView("variance", v); err != nil {
		return 0, err
	}
	m := mean(v, c)
	var acc float64
	forEach(v, func(p int) {
		d := c.Float(v.buf.data[p]) - m
		acc += d * d
	})
	return acc / divisor(v.Len(), unbiased), nil
}

// Std returns the square root of Variance.
func Std[T Element](v *View[T], unbiased bool) (float64, error) {
	vr, err := Variance(v, unbiased)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(vr), nil
}

func divisor(n int, unbiased bool) float64 {
	if unbiased {
		if n < 2 {
			return math.NaN()
		}
		return float64(n - 1)
	}
	return float64(n)
}

// Max returns the largest element and its coordinate. A NaN element is
// returned as soon as it is encountered.
// Complex elements fail with ErrDomain.
func Max[T Element](v *View[T]) (T, []int, error) {
	return extreme(v, "max", func(c Capabilities[T], a, b T) bool { return c.Less(a, b) })
}

// Min returns the smallest element and its coordinate. A NaN element is
// returned as soon as it is encountered.
func Min[T Element](v *View[T]) (T, []int, error) {
	return extreme(v, "min", func(c Capabilities[T], a, b T) bool { return c.Less(b, a) })
}

// extreme scans for the element x where better(best, x) never holds.
func extreme[T Element](v *View[T], op string, better func(c Capabilities[T], best, x T) bool) (T, []int, error) {
	var zero T
	c, err := requireOrdered[T](op)
	if err != nil {
		return zero, nil, err
	}
	if err := requireView(op, v); err != nil {
		return zero, nil, err
	}
	var best T
	at, i, done := 0, 0, false
	forEach(v, func(p int) {
		if done {
			return
		}
		x := v.buf.data[p]
		switch {
		case i == 0:
			best = x
			done = c.IsNaN(x)
		case c.IsNaN(x):
			best, at, done = x, i, true
		case better(c, best, x):
			best, at = x, i
		}
		i++
	})
	coord := make([]int, v.Dim())
	unravel(at, v.shape, coord)
	return best, coord, nil
}

// extremeRun scans n elements of data starting at base with the given step
// and returns the winning value with its ordinal.
func extremeRun[T Element](c Capabilities[T], better func(Capabilities[T], T, T) bool,
	data []T, base, step, n int) (T, int) {
	best, at := data[base], 0
	if c.IsNaN(best) {
		return best, 0
	}
	for i := 1; i < n; i++ {
		x := data[base+i*step]
		if c.IsNaN(x) {
			return x, i
		}
		if better(c, best, x) {
			best, at = x, i
		}
	}
	return best, at
}
