package tensor

import (
	"fmt"
	"strings"
)

// Views larger than this are summarized by their edges.
const (
	printThreshold = 1000
	printEdge      = 3
)

// String renders the view as nested brackets followed by its dtype and
// shape, e.g.
//
//	[[1 2]
//	 [3 4]] float64 (2, 2)
func (v *View[T]) String() string {
	if v == nil || v.Empty() {
		return "[] (empty)"
	}
	var sb strings.Builder
	summarize := v.Len() > printThreshold
	coord := make([]int, v.Dim())
	v.format(&sb, coord, 0, summarize)
	fmt.Fprintf(&sb, " %s %s", v.DType(), v.shape)
	return sb.String()
}

func (v *View[T]) format(sb *strings.Builder, coord []int, d int, summarize bool) {
	sb.WriteByte('[')
	n := v.shape[d]
	for i := 0; i < n; i++ {
		if summarize && n > 2*printEdge && i == printEdge {
			if d == len(v.shape)-1 {
				sb.WriteString(" ...")
			} else {
				sb.WriteString("\n" + strings.Repeat(" ", d+1) + "...")
			}
			i = n - printEdge - 1
			continue
		}
		if i > 0 {
			if d == len(v.shape)-1 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(strings.Repeat("\n", len(v.shape)-d-1))
				sb.WriteString(strings.Repeat(" ", d+1))
			}
		}
		coord[d] = i
		if d == len(v.shape)-1 {
			fmt.Fprint(sb, v.buf.data[v.position(coord)])
		} else {
			v.format(sb, coord, d+1, summarize)
		}
	}
	coord[d] = 0
	sb.WriteByte(']')
}
