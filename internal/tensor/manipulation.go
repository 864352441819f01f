package tensor

// Aliasing operations derive a new shape/stride/offset over the same buffer
// and never copy elements. Dimensions may be negative (-1 = last).

// normalizeDim resolves a possibly negative dimension against rank.
func normalizeDim(op string, d, rank int) (int, error) {
	if d < 0 {
		d += rank
	}
	if d < 0 || d >= rank {
		return 0, outOfRangef("%s: dimension %d out of range for %d-D view", op, d, rank)
	}
	return d, nil
}

// alias creates a view over v's buffer with the given geometry.
func (v *View[T]) alias(shape Shape, stride []int, offset int) *View[T] {
	return newView(v.buf, shape, stride, offset)
}

// Select returns the slice at index i along dim, removing that dimension.
// Selecting from a 1-D view yields a single-element view.
//
// Example:
//
//	m := tensor.Must(tensor.New[float64](3, 4))
//	row := tensor.Must(m.Select(0, 1)) // shape (4), aliases m
func (v *View[T]) Select(dim, i int) (*View[T], error) {
	if err := requireView("select", v); err != nil {
		return nil, err
	}
	dim, err := normalizeDim("select", dim, v.Dim())
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= v.shape[dim] {
		return nil, outOfRangef("select: index %d out of range for dimension %d (size %d)", i, dim, v.shape[dim])
	}
	offset := v.offset + i*v.stride[dim]
	if v.Dim() == 1 {
		return v.alias(Shape{1}, []int{1}, offset), nil
	}
	stride := append(append([]int{}, v.stride[:dim]...), v.stride[dim+1:]...)
	return v.alias(v.shape.without(dim), stride, offset), nil
}

// Narrow returns the elements [start, start+size) along dim.
func (v *View[T]) Narrow(dim, start, size int) (*View[T], error) {
	if err := requireView("narrow", v); err != nil {
		return nil, err
	}
	dim, err := normalizeDim("narrow", dim, v.Dim())
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, invalidArgf("narrow: size must be positive, got %d", size)
	}
	if start < 0 || start+size > v.shape[dim] {
		return nil, outOfRangef("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+size, dim, v.shape[dim])
	}
	shape := v.shape.Clone()
	shape[dim] = size
	return v.alias(shape, v.Stride(), v.offset+start*v.stride[dim]), nil
}

// Transpose swaps dimensions d1 and d2.
func (v *View[T]) Transpose(d1, d2 int) (*View[T], error) {
	if err := requireView("transpose", v); err != nil {
		return nil, err
	}
	d1, err := normalizeDim("transpose", d1, v.Dim())
	if err != nil {
		return nil, err
	}
	d2, err = normalizeDim("transpose", d2, v.Dim())
	if err != nil {
		return nil, err
	}
	shape, stride := v.shape.Clone(), v.Stride()
	shape[d1], shape[d2] = shape[d2], shape[d1]
	stride[d1], stride[d2] = stride[d2], stride[d1]
	return v.alias(shape, stride, v.offset), nil
}

// T transposes a 2-D view. Views of other rank fail with ErrInvalidArgument.
func (v *View[T]) T() (*View[T], error) {
	if v.Dim() != 2 {
		return nil, invalidArgf("t: expected 2-D view, got %d-D", v.Dim())
	}
	return v.Transpose(0, 1)
}

// Permute reorders dimensions: result dimension i is source dimension dims[i].
func (v *View[T]) Permute(dims ...int) (*View[T], error) {
	if err := requireView("permute", v); err != nil {
		return nil, err
	}
	if len(dims) != v.Dim() {
		return nil, invalidArgf("permute: expected %d dimensions, got %d", v.Dim(), len(dims))
	}
	seen := make([]bool, v.Dim())
	shape := make(Shape, v.Dim())
	stride := make([]int, v.Dim())
	for i, d := range dims {
		d, err := normalizeDim("permute", d, v.Dim())
		if err != nil {
			return nil, err
		}
		if seen[d] {
			return nil, invalidArgf("permute: dimension %d repeated", d)
		}
		seen[d] = true
		shape[i], stride[i] = v.shape[d], v.stride[d]
	}
	return v.alias(shape, stride, v.offset), nil
}

// Unfold extracts every window of length size with the given step along dim.
// The result gains a trailing dimension of extent size and dim shrinks to the
// window count.
func (v *View[T]) Unfold(dim, size, step int) (*View[T], error) {
	if err := requireView("unfold", v); err != nil {
		return nil, err
	}
	dim, err := normalizeDim("unfold", dim, v.Dim())
	if err != nil {
		return nil, err
	}
	if size <= 0 || step <= 0 {
		return nil, invalidArgf("unfold: size and step must be positive, got %d and %d", size, step)
	}
	if size > v.shape[dim] {
		return nil, outOfRangef("unfold: window %d larger than dimension %d (size %d)", size, dim, v.shape[dim])
	}
	shape := append(v.shape.Clone(), size)
	stride := append(v.Stride(), v.stride[dim])
	shape[dim] = (v.shape[dim]-size)/step + 1
	stride[dim] *= step
	return v.alias(shape, stride, v.offset), nil
}

// inferShape resolves a single -1 extent against n elements.
func inferShape(op string, shape []int, n int) (Shape, error) {
	out := Shape(append([]int{}, shape...))
	infer := -1
	known := 1
	for i, d := range out {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d == -1:
			return nil, invalidArgf("%s: only one dimension can be inferred", op)
		case d <= 0:
			return nil, invalidArgf("%s: invalid dimension at index %d: %d", op, i, d)
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || n%known != 0 {
			return nil, invalidArgf("%s: cannot infer dimension for %d elements from %v", op, n, shape)
		}
		out[infer] = n / known
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if out.NumElements() != n {
		return nil, invalidArgf("%s: shape %v holds %d elements, view has %d", op, out, out.NumElements(), n)
	}
	return out, nil
}

// View reinterprets a contiguous view with a new shape. One extent may be -1.
// Non-contiguous views fail with ErrContiguity.
func (v *View[T]) View(shape ...int) (*View[T], error) {
	if err := requireView("view", v); err != nil {
		return nil, err
	}
	s, err := inferShape("view", shape, v.Len())
	if err != nil {
		return nil, err
	}
	if !v.IsContiguous() {
		return nil, contiguityf("view: shape %v stride %v is not contiguous", v.shape, v.stride)
	}
	return v.alias(s, s.ComputeStrides(), v.offset), nil
}

// Reshape reinterprets v with a new shape without copying. Only the groups of
// dimensions that are merged or split need to be contiguous; a layout that
// cannot be expressed with strides fails with ErrContiguity. One extent may
// be -1.
//
// Example:
//
//	x := tensor.Must(tensor.New[float32](4, 6))
//	y := tensor.Must(x.Reshape(2, 2, -1)) // (2, 2, 6)
//	t := tensor.Must(x.T())
//	_, err := t.Reshape(24)               // ErrContiguity
func (v *View[T]) Reshape(shape ...int) (*View[T], error) {
	if err := requireView("reshape", v); err != nil {
		return nil, err
	}
	s, err := inferShape("reshape", shape, v.Len())
	if err != nil {
		return nil, err
	}
	stride, ok := reshapeStride(v.shape, v.stride, s)
	if !ok {
		return nil, contiguityf("reshape: %v stride %v cannot be viewed as %v", v.shape, v.stride, s)
	}
	return v.alias(s, stride, v.offset), nil
}

// reshapeStride computes strides for viewing (shape, stride) as target.
// Old dimensions are grouped into chunks that chain into one flat stride;
// each chunk must map onto a run of target dimensions with the same element
// count.
func reshapeStride(shape Shape, stride []int, target Shape) ([]int, bool) {
	out := make([]int, len(target))
	vd := len(target) - 1
	base := stride[len(stride)-1]
	tn, vn := 1, 1
	for d := len(shape) - 1; d >= 0; d-- {
		tn *= shape[d]
		if d == 0 || (shape[d-1] != 1 && stride[d-1] != tn*base) {
			for vd >= 0 && (vn < tn || target[vd] == 1) {
				out[vd] = vn * base
				vn *= target[vd]
				vd--
			}
			if vn != tn {
				return nil, false
			}
			if d > 0 {
				base = stride[d-1]
				tn, vn = 1, 1
			}
		}
	}
	if vd != -1 {
		return nil, false
	}
	return out, true
}

// Diag on a 2-D view returns the k-th diagonal as a 1-D alias (k > 0 above
// the main diagonal, k < 0 below). On a 1-D view it returns a new square
// matrix with v on the k-th diagonal and zeros elsewhere.
func (v *View[T]) Diag(k int) (*View[T], error) {
	if err := requireView("diag", v); err != nil {
		return nil, err
	}
	switch v.Dim() {
	case 1:
		n := v.shape[0] + abs(k)
		out := newContiguous[T](Shape{n, n}, v.allocator())
		row, col := 0, k
		if k < 0 {
			row, col = -k, 0
		}
		i := 0
		forEach(v, func(p int) {
			out.buf.data[(row+i)*n+col+i] = v.buf.data[p]
			i++
		})
		return out, nil
	case 2:
		rows, cols := v.shape[0], v.shape[1]
		var n, offset int
		if k >= 0 {
			n = min(rows, cols-k)
			offset = v.offset + k*v.stride[1]
		} else {
			n = min(rows+k, cols)
			offset = v.offset - k*v.stride[0]
		}
		if n <= 0 {
			return nil, outOfRangef("diag: offset %d outside %v", k, v.shape)
		}
		return v.alias(Shape{n}, []int{v.stride[0] + v.stride[1]}, offset), nil
	default:
		return nil, invalidArgf("diag: expected 1-D or 2-D view, got %d-D", v.Dim())
	}
}

// Split divides v along dim into pieces of extent size; the last piece may
// be smaller. Every piece aliases v.
func (v *View[T]) Split(dim, size int) ([]*View[T], error) {
	if err := requireView("split", v); err != nil {
		return nil, err
	}
	dim, err := normalizeDim("split", dim, v.Dim())
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, invalidArgf("split: size must be positive, got %d", size)
	}
	n := v.shape[dim]
	parts := make([]*View[T], 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		p, err := v.Narrow(dim, start, min(size, n-start))
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// Chunk splits v into n equal parts along dim. The extent of dim must be
// divisible by n.
//
// Example:
//
//	x := tensor.Must(tensor.New[float32](2, 3, 6))
//	parts := tensor.Must(x.Chunk(3, -1)) // 3 views of shape (2, 3, 2)
func (v *View[T]) Chunk(n, dim int) ([]*View[T], error) {
	if err := requireView("chunk", v); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, invalidArgf("chunk: n must be positive, got %d", n)
	}
	d, err := normalizeDim("chunk", dim, v.Dim())
	if err != nil {
		return nil, err
	}
	if v.shape[d]%n != 0 {
		return nil, invalidArgf("chunk: dimension %d size %d not divisible by %d", d, v.shape[d], n)
	}
	return v.Split(d, v.shape[d]/n)
}

// Unsqueeze inserts a dimension of extent 1 at position dim (0..Dim()).
func (v *View[T]) Unsqueeze(dim int) (*View[T], error) {
	if err := requireView("unsqueeze", v); err != nil {
		return nil, err
	}
	if dim < 0 {
		dim += v.Dim() + 1
	}
	if dim < 0 || dim > v.Dim() {
		return nil, outOfRangef("unsqueeze: dimension %d out of range for %d-D view", dim, v.Dim())
	}
	st := 1
	if dim < v.Dim() {
		st = v.stride[dim] * v.shape[dim]
	}
	shape := make(Shape, 0, v.Dim()+1)
	shape = append(append(append(shape, v.shape[:dim]...), 1), v.shape[dim:]...)
	stride := make([]int, 0, v.Dim()+1)
	stride = append(append(append(stride, v.stride[:dim]...), st), v.stride[dim:]...)
	return v.alias(shape, stride, v.offset), nil
}

// Cat concatenates a and b along dim into a new buffer.
func Cat[T Element](a, b *View[T], dim int) (*View[T], error) {
	return CatAll([]*View[T]{a, b}, dim)
}

// CatAll concatenates views along dim into a new buffer. All views must have
// the same rank and equal extents outside dim; each operand is copied into a
// disjoint narrowed view of the result.
//
// Example:
//
//	a := tensor.Must(tensor.New[float32](3, 4))
//	b := tensor.Must(tensor.New[float32](5, 4))
//	c := tensor.Must(tensor.CatAll([]*tensor.View[float32]{a, b}, 0)) // (8, 4)
func CatAll[T Element](views []*View[T], dim int) (*View[T], error) {
	if len(views) == 0 {
		return nil, invalidArgf("cat: at least one view required")
	}
	if err := requireView("cat", views...); err != nil {
		return nil, err
	}
	first := views[0].shape
	dim, err := normalizeDim("cat", dim, len(first))
	if err != nil {
		return nil, err
	}
	total := 0
	for i, v := range views {
		if v.Dim() != len(first) {
			return nil, outOfRangef("cat: view %d has %d dimensions, expected %d", i, v.Dim(), len(first))
		}
		for d := range first {
			if d == dim {
				total += v.shape[d]
			} else if v.shape[d] != first[d] {
				return nil, outOfRangef("cat: view %d dimension %d is %d, expected %d", i, d, v.shape[d], first[d])
			}
		}
	}
	shape := first.Clone()
	shape[dim] = total
	out := newContiguous[T](shape, views[0].allocator())
	start := 0
	for _, v := range views {
		part, err := out.Narrow(dim, start, v.shape[dim])
		if err != nil {
			return nil, err
		}
		copyElements(part, v)
		part.Release()
		start += v.shape[dim]
	}
	return out, nil
}

// Tril returns a copy of a 2-D view with elements above the k-th diagonal
// set to zero.
func (v *View[T]) Tril(k int) (*View[T], error) {
	return v.triangle("tril", func(i, j int) bool { return j-i <= k })
}

// Triu returns a copy of a 2-D view with elements below the k-th diagonal
// set to zero.
func (v *View[T]) Triu(k int) (*View[T], error) {
	return v.triangle("triu", func(i, j int) bool { return j-i >= k })
}

func (v *View[T]) triangle(op string, keep func(i, j int) bool) (*View[T], error) {
	if err := requireView(op, v); err != nil {
		return nil, err
	}
	if v.Dim() != 2 {
		return nil, invalidArgf("%s: expected 2-D view, got %d-D", op, v.Dim())
	}
	out := newContiguous[T](v.shape, v.allocator())
	cols := v.shape[1]
	for i := 0; i < v.shape[0]; i++ {
		for j := 0; j < cols; j++ {
			if keep(i, j) {
				out.buf.data[i*cols+j] = v.buf.data[v.offset+i*v.stride[0]+j*v.stride[1]]
			}
		}
	}
	return out, nil
}

// Gather collects src values along dim at the positions given by index.
// The result has the shape of index; for a 2-D source and dim 0,
// out[i][j] = src[index[i][j]][j].
func Gather[T Element](src *View[T], dim int, index *View[int64]) (*View[T], error) {
	if err := requireView("gather", src); err != nil {
		return nil, err
	}
	if err := requireView("gather", index); err != nil {
		return nil, err
	}
	dim, err := normalizeDim("gather", dim, src.Dim())
	if err != nil {
		return nil, err
	}
	if index.Dim() != src.Dim() {
		return nil, outOfRangef("gather: index has %d dimensions, source %d", index.Dim(), src.Dim())
	}
	for d := range src.shape {
		if d != dim && index.shape[d] > src.shape[d] {
			return nil, outOfRangef("gather: index extent %d exceeds source extent %d in dimension %d",
				index.shape[d], src.shape[d], d)
		}
	}
	out := newContiguous[T](index.shape, src.allocator())
	coord := make([]int, src.Dim())
	i := 0
	for it := NewIndex(index.shape); !it.Done(); it.Next() {
		at := index.buf.data[it.Offset(index.stride, index.offset)]
		if at < 0 || at >= int64(src.shape[dim]) {
			out.Release()
			return nil, outOfRangef("gather: index %d out of range for dimension %d (size %d)", at, dim, src.shape[dim])
		}
		copy(coord, it.Coord())
		coord[dim] = int(at)
		out.buf.data[i] = src.buf.data[src.position(coord)]
		i++
	}
	return out, nil
}

// IndexSelect returns a new view holding the entries of src at the given
// positions along dim. indices must be 1-D.
func IndexSelect[T Element](src *View[T], dim int, indices *View[int64]) (*View[T], error) {
	if err := requireView("index select", src); err != nil {
		return nil, err
	}
	if err := requireView("index select", indices); err != nil {
		return nil, err
	}
	dim, err := normalizeDim("index select", dim, src.Dim())
	if err != nil {
		return nil, err
	}
	if indices.Dim() != 1 {
		return nil, invalidArgf("index select: indices must be 1-D, got %d-D", indices.Dim())
	}
	shape := src.shape.Clone()
	shape[dim] = indices.Len()
	out := newContiguous[T](shape, src.allocator())
	for i := 0; i < indices.Len(); i++ {
		at := indices.buf.data[indices.offset+i*indices.stride[0]]
		if at < 0 || at >= int64(src.shape[dim]) {
			out.Release()
			return nil, outOfRangef("index select: index %d out of range for dimension %d (size %d)", at, dim, src.shape[dim])
		}
		from, _ := src.Select(dim, int(at))
		to, _ := out.Select(dim, i)
		copyElements(to, from)
		from.Release()
		to.Release()
	}
	return out, nil
}

// Equal reports whether a and b have the same shape and elements.
func Equal[T Element](a, b *View[T]) bool {
	if a == nil || b == nil || a.Empty() || b.Empty() {
		return a == b || (a != nil && b != nil && a.Empty() && b.Empty())
	}
	if !a.shape.Equal(b.shape) {
		return false
	}
	eq := true
	_ = Apply2(a, b, func(x, y *T) {
		if *x != *y {
			eq = false
		}
	})
	return eq
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
