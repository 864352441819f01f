package tensor

// Plan is the traversal strategy for one operand.
//
// A linear plan visits element i at offset + i*Step. Otherwise the caller
// must walk an Index and recompute the offset from the coordinate.
type Plan struct {
	Linear bool
	Step   int
	Length int
}

// PlanOf derives the traversal strategy from a geometry. It is a pure
// function: shapes and strides change under mutation, so plans are computed
// per call and never stored on a View.
func PlanOf(shape Shape, stride []int) Plan {
	p := Plan{Length: shape.NumElements()}
	if IsContiguousRange(shape, stride, 0, len(shape)) {
		p.Linear = true
		p.Step = stride[len(stride)-1]
	}
	return p
}

// linearAll reports whether every plan is linear.
func linearAll(plans ...Plan) bool {
	for _, p := range plans {
		if !p.Linear {
			return false
		}
	}
	return true
}
