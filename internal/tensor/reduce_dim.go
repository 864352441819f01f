package tensor

import (
	"math"

	"github.com/born-ml/strided/internal/parallel"
)

// Per-dimension reductions collapse dim to extent 1.
//
// The dimensions around dim are decomposed into left = prod(shape[:dim]) and
// right = prod(shape[dim+1:]) so the reduced dimension is visited innermost.
// When the source and every output are partially contiguous over both the
// left and the right ranges, slot (l, r) is addressed with two multiply-adds;
// otherwise an Index over the reduced shape supplies each slot's coordinate.

// geom is the type-independent geometry of a view.
type geom struct {
	shape  Shape
	stride []int
	offset int
}

func (v *View[T]) geom() geom {
	return geom{shape: v.shape, stride: v.stride, offset: v.offset}
}

// split returns the flat steps of g over [0, dim) and [dim+1, rank).
func (g geom) split(dim int) (left, right int, ok bool) {
	rank := len(g.shape)
	if dim > 0 {
		if !IsContiguousRange(g.shape, g.stride, 0, dim) {
			return 0, 0, false
		}
		left = g.stride[dim-1]
	}
	if dim < rank-1 {
		if !IsContiguousRange(g.shape, g.stride, dim+1, rank) {
			return 0, 0, false
		}
		right = g.stride[rank-1]
	}
	return left, right, true
}

func (g geom) position(coord []int) int {
	p := g.offset
	for i, c := range coord {
		p += c * g.stride[i]
	}
	return p
}

// walkDim calls fn once per reduction slot with the base position of the
// slot in src and in each output. Outputs share src's extents outside dim.
// Slots run concurrently when the parallel configuration allows it.
func walkDim(src geom, dim int, outs []geom, fn func(base int, pos []int)) {
	left := src.shape.product(0, dim)
	right := src.shape.product(dim+1, len(src.shape))

	sl, sr, ok := src.split(dim)
	ol := make([]int, len(outs))
	or := make([]int, len(outs))
	for i, o := range outs {
		if !ok {
			break
		}
		ol[i], or[i], ok = o.split(dim)
	}

	if ok {
		parallel.ForRange(left*right, func(lo, hi int) {
			pos := make([]int, len(outs))
			for k := lo; k < hi; k++ {
				l, r := k/right, k%right
				for i, o := range outs {
					pos[i] = o.offset + l*ol[i] + r*or[i]
				}
				fn(src.offset+l*sl+r*sr, pos)
			}
		}, parallel.Current())
		return
	}

	slots := src.shape.Clone()
	slots[dim] = 1
	pos := make([]int, len(outs))
	it := getIndex(slots)
	defer putIndex(it)
	for ; !it.Done(); it.Next() {
		coord := it.Coord()
		for i, o := range outs {
			pos[i] = o.position(coord)
		}
		fn(src.position(coord), pos)
	}
}

// reducedShape returns shape with dim set to 1.
func reducedShape(shape Shape, dim int) Shape {
	s := shape.Clone()
	s[dim] = 1
	return s
}

// fitOutput keeps dst when it already has the wanted shape, whatever its
// strides, and resizes it otherwise.
func fitOutput[T Element](dst *View[T], shape Shape) error {
	if dst == nil {
		return invalidArgf("nil output view")
	}
	if dst.buf != nil && dst.shape.Equal(shape) {
		return nil
	}
	return dst.Resize(shape...)
}

// checkReduceDim validates the reduction dimension. Dimensions at or past
// Dim() fail with ErrOutOfRange.
func checkReduceDim[T Element](op string, v *View[T], dim int) error {
	if err := requireView(op, v); err != nil {
		return err
	}
	if dim < 0 || dim >= v.Dim() {
		return outOfRangef("%s: dimension %d out of range for %d-D view", op, dim, v.Dim())
	}
	return nil
}

// foldDim reduces src along dim into dst with fold(base, step, n).
func foldDim[T, U Element](op string, dst *View[U], src *View[T], dim int, fold func(base, step, n int) U) error {
	if err := checkReduceDim(op, src, dim); err != nil {
		return err
	}
	if err := fitOutput(dst, reducedShape(src.shape, dim)); err != nil {
		return err
	}
	step, n := src.stride[dim], src.shape[dim]
	out := dst.buf.data
	walkDim(src.geom(), dim, []geom{dst.geom()}, func(base int, pos []int) {
		out[pos[0]] = fold(base, step, n)
	})
	return nil
}

// SumDim sums src along dim. The result has extent 1 in dim.
//
// Example:
//
//	x := tensor.Must(tensor.New[float32](2, 3, 4))
//	y := tensor.Must(tensor.SumDim(x, 2)) // (2, 3, 1)
func SumDim[T Element](src *View[T], dim int) (*View[T], error) {
	dst := &View[T]{}
	if err := SumDimInto(dst, src, dim); err != nil {
		return nil, err
	}
	return dst, nil
}

// SumDimInto writes the sums of src along dim into dst, resizing dst unless
// it already has the reduced shape.
func SumDimInto[T Element](dst, src *View[T], dim int) error {
	c := CapabilitiesOf[T]()
	return foldDim("sum", dst, src, dim, func(base, step, n int) T {
		var acc T
		for i := 0; i < n; i++ {
			acc = c.Add(acc, src.buf.data[base+i*step])
		}
		return acc
	})
}

// ProdDim multiplies src along dim.
func ProdDim[T Element](src *View[T], dim int) (*View[T], error) {
	dst := &View[T]{}
	if err := ProdDimInto(dst, src, dim); err != nil {
		return nil, err
	}
	return dst, nil
}

// ProdDimInto writes the products of src along dim into dst.
func ProdDimInto[T Element](dst, src *View[T], dim int) error {
	c := CapabilitiesOf[T]()
	return foldDim("prod", dst, src, dim, func(base, step, n int) T {
		acc := c.FromInt(1)
		for i := 0; i < n; i++ {
			acc = c.Mul(acc, src.buf.data[base+i*step])
		}
		return acc
	})
}

// MeanDim averages src along dim. Complex elements fail with ErrDomain.
func MeanDim[T Element](src *View[T], dim int) (*View[float64], error) {
	dst := &View[float64]{}
	if err := MeanDimInto(dst, src, dim); err != nil {
		return nil, err
	}
	return dst, nil
}

// MeanDimInto writes the means of src along dim into dst.
func MeanDimInto[T Element](dst *View[float64], src *View[T], dim int) error {
	c, err := requireReal[T]("mean")
	if err != nil {
		return err
	}
	return foldDim("mean", dst, src, dim, func(base, step, n int) float64 {
		return meanRun(c, src.buf.data, base, step, n)
	})
}

func meanRun[T Element](c Capabilities[T], data []T, base, step, n int) float64 {
	var acc float64
	for i := 0; i < n; i++ {
		acc += c.Float(data[base+i*step])
	}
	return acc / float64(n)
}

// VarDim computes the two-pass variance of src along dim.
func VarDim[T Element](src *View[T], dim int, unbiased bool) (*View[float64], error) {
	dst := &View[float64]{}
	if err := VarDimInto(dst, src, dim, unbiased); err != nil {
		return nil, err
	}
	return dst, nil
}

// VarDimInto writes the variances of src along dim into dst.
func VarDimInto[T Element](dst *View[float64], src *View[T], dim int, unbiased bool) error {
	c, err := requireReal[T]("variance")
	if err != nil {
		return err
	}
	return foldDim("variance", dst, src, dim, func(base, step, n int) float64 {
		return varRun(c, src.buf.data, base, step, n, unbiased)
	})
}

func varRun[T Element](c Capabilities[T], data []T, base, step, n int, unbiased bool) float64 {
	m := meanRun(c, data, base, step, n)
	var acc float64
	for i := 0; i < n; i++ {
		d := c.Float(data[base+i*step]) - m
		acc += d * d
	}
	return acc / divisor(n, unbiased)
}

// StdDim computes the standard deviation of src along dim.
func StdDim[T Element](src *View[T], dim int, unbiased bool) (*View[float64], error) {
	dst := &View[float64]{}
	if err := StdDimInto(dst, src, dim, unbiased); err != nil {
		return nil, err
	}
	return dst, nil
}

// StdDimInto writes the standard deviations of src along dim into dst.
func StdDimInto[T Element](dst *View[float64], src *View[T], dim int, unbiased bool) error {
	c, err := requireReal[T]("std")
	if err != nil {
		return err
	}
	return foldDim("std", dst, src, dim, func(base, step, n int) float64 {
		return math.Sqrt(varRun(c, src.buf.data, base, step, n, unbiased))
	})
}

// MaxDim returns the maxima of src along dim and their positions within dim.
// NaN propagates. Complex elements fail with ErrDomain.
func MaxDim[T Element](src *View[T], dim int) (*View[T], *View[int64], error) {
	vals, idx := &View[T]{}, &View[int64]{}
	if err := MaxDimInto(vals, idx, src, dim); err != nil {
		return nil, nil, err
	}
	return vals, idx, nil
}

// MaxDimInto writes maxima into vals and their positions into idx.
func MaxDimInto[T Element](vals *View[T], idx *View[int64], src *View[T], dim int) error {
	return extremeDim("max", vals, idx, src, dim, func(c Capabilities[T], a, b T) bool { return c.Less(a, b) })
}

// MinDim returns the minima of src along dim and their positions within dim.
func MinDim[T Element](src *View[T], dim int) (*View[T], *View[int64], error) {
	vals, idx := &View[T]{}, &View[int64]{}
	if err := MinDimInto(vals, idx, src, dim); err != nil {
		return nil, nil, err
	}
	return vals, idx, nil
}

// MinDimInto writes minima into vals and their positions into idx.
func MinDimInto[T Element](vals *View[T], idx *View[int64], src *View[T], dim int) error {
	return extremeDim("min", vals, idx, src, dim, func(c Capabilities[T], a, b T) bool { return c.Less(b, a) })
}

func extremeDim[T Element](op string, vals *View[T], idx *View[int64], src *View[T], dim int,
	better func(Capabilities[T], T, T) bool) error {
	c, err := requireOrdered[T](op)
	if err != nil {
		return err
	}
	if err := checkReduceDim(op, src, dim); err != nil {
		return err
	}
	shape := reducedShape(src.shape, dim)
	if err := fitOutput(vals, shape); err != nil {
		return err
	}
	if err := fitOutput(idx, shape); err != nil {
		return err
	}
	step, n := src.stride[dim], src.shape[dim]
	vd, id := vals.buf.data, idx.buf.data
	walkDim(src.geom(), dim, []geom{vals.geom(), idx.geom()}, func(base int, pos []int) {
		best, at := extremeRun(c, better, src.buf.data, base, step, n)
		vd[pos[0]] = best
		id[pos[1]] = int64(at)
	})
	return nil
}

// CumSum writes the running sums of src along dim into dst, which is resized
// to src's shape unless it already matches.
func CumSum[T Element](dst, src *View[T], dim int) error {
	c := CapabilitiesOf[T]()
	return scanDim("cumsum", dst, src, dim, c.FromInt(0), c.Add)
}

// CumProd writes the running products of src along dim into dst.
func CumProd[T Element](dst, src *View[T], dim int) error {
	c := CapabilitiesOf[T]()
	return scanDim("cumprod", dst, src, dim, c.FromInt(1), c.Mul)
}

func scanDim[T Element](op string, dst, src *View[T], dim int, init T, fn func(a, b T) T) error {
	if err := checkReduceDim(op, src, dim); err != nil {
		return err
	}
	if err := fitOutput(dst, src.shape); err != nil {
		return err
	}
	if dst.buf == src.buf && !src.SameGeometry(dst) {
		tmp := src.Clone()
		defer tmp.Release()
		src = tmp
	}
	ss, ds, n := src.stride[dim], dst.stride[dim], src.shape[dim]
	sd, dd := src.buf.data, dst.buf.data
	walkDim(src.geom(), dim, []geom{dst.geom()}, func(base int, pos []int) {
		acc := init
		for i := 0; i < n; i++ {
			acc = fn(acc, sd[base+i*ss])
			dd[pos[0]+i*ds] = acc
		}
	})
	return nil
}
