package tensor

// Sort engine.
//
// Every slice along the sorted dimension is ordered in place with a
// recursive quicksort that takes the middle element of the active range as
// pivot. The indexed variant swaps a parallel int64 permutation with its own
// stride. The sort is not stable and degrades to O(n^2) on adversarial input.
// NaN sorts last in ascending order and first in descending order.

// sorter orders one strided slice, optionally permuting an index slice.
type sorter[T Element] struct {
	c    Capabilities[T]
	desc bool

	data []T
	ds   int

	idx []int64
	is  int
}

// before is the strict ordering used by the partition.
func (s *sorter[T]) before(a, b T) bool {
	an, bn := s.c.IsNaN(a), s.c.IsNaN(b)
	if s.desc {
		if an || bn {
			return an && !bn
		}
		return s.c.Less(b, a)
	}
	if an || bn {
		return !an && bn
	}
	return s.c.Less(a, b)
}

func (s *sorter[T]) swap(db, ib, i, j int) {
	pi, pj := db+i*s.ds, db+j*s.ds
	s.data[pi], s.data[pj] = s.data[pj], s.data[pi]
	if s.idx != nil {
		qi, qj := ib+i*s.is, ib+j*s.is
		s.idx[qi], s.idx[qj] = s.idx[qj], s.idx[qi]
	}
}

// sort orders elements lo..hi (inclusive) of the slice based at db, with
// the index slice based at ib. The smaller partition is handled recursively
// and the larger one by the loop, bounding the stack depth.
func (s *sorter[T]) sort(db, ib, lo, hi int) {
	for lo < hi {
		pivot := s.data[db+((lo+hi)/2)*s.ds]
		i, j := lo, hi
		for i <= j {
			for s.before(s.data[db+i*s.ds], pivot) {
				i++
			}
			for s.before(pivot, s.data[db+j*s.ds]) {
				j--
			}
			if i <= j {
				s.swap(db, ib, i, j)
				i++
				j--
			}
		}
		if j-lo < hi-i {
			s.sort(db, ib, lo, j)
			lo = i
		} else {
			s.sort(db, ib, i, hi)
			hi = j
		}
	}
}

// Sort orders every slice of v along dim in place.
// Complex elements fail with ErrDomain.
//
// Example:
//
//	v := tensor.Must(tensor.FromSlice([]float64{3, 1, 2}, 3))
//	err := tensor.Sort(v, 0, false) // [1, 2, 3]
func Sort[T Element](v *View[T], dim int, descending bool) error {
	c, err := requireOrdered[T]("sort")
	if err != nil {
		return err
	}
	if err := checkReduceDim("sort", v, dim); err != nil {
		return err
	}
	n := v.shape[dim]
	walkDim(v.geom(), dim, nil, func(base int, _ []int) {
		s := sorter[T]{c: c, desc: descending, data: v.buf.data, ds: v.stride[dim]}
		s.sort(base, 0, 0, n-1)
	})
	return nil
}

// SortIndexed orders every slice of v along dim in place and records in idx
// the original position of each element along dim. idx is resized to v's
// shape unless it already matches, then seeded with 0..n-1 along dim.
func SortIndexed[T Element](v *View[T], idx *View[int64], dim int, descending bool) error {
	c, err := requireOrdered[T]("sort")
	if err != nil {
		return err
	}
	if err := checkReduceDim("sort", v, dim); err != nil {
		return err
	}
	if err := fitOutput(idx, v.shape); err != nil {
		return err
	}
	n := v.shape[dim]
	walkDim(v.geom(), dim, []geom{idx.geom()}, func(base int, pos []int) {
		s := sorter[T]{
			c: c, desc: descending,
			data: v.buf.data, ds: v.stride[dim],
			idx: idx.buf.data, is: idx.stride[dim],
		}
		for i := 0; i < n; i++ {
			s.idx[pos[0]+i*s.is] = int64(i)
		}
		s.sort(base, pos[0], 0, n-1)
	})
	return nil
}

// Sorted returns a sorted copy of v together with the permutation indices,
// leaving v untouched.
func Sorted[T Element](v *View[T], dim int, descending bool) (*View[T], *View[int64], error) {
	if err := requireView("sort", v); err != nil {
		return nil, nil, err
	}
	out := v.Clone()
	idx := &View[int64]{}
	if err := SortIndexed(out, idx, dim, descending); err != nil {
		out.Release()
		return nil, nil, err
	}
	return out, idx, nil
}
