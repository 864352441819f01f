package serialization

import (
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/strided/internal/tensor"
)

// Entry is one named view. View holds a *tensor.View[T] for some element
// type T.
type Entry struct {
	Name string
	View any
}

// Archive is an ordered collection of named views. Views that share a
// buffer keep sharing it after a save/load round trip.
type Archive struct {
	CreatedAt time.Time
	Metadata  map[string]string

	entries []Entry
	index   map[string]int
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{
		Metadata: make(map[string]string),
		index:    make(map[string]int),
	}
}

// Add appends v under name.
func Add[T tensor.Element](a *Archive, name string, v *tensor.View[T]) error {
	if v == nil || v.Empty() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "archive: entry %q has no buffer", name)
	}
	return a.add(name, v)
}

func (a *Archive) add(name string, v any) error {
	if err := ValidateEntryName(name); err != nil {
		return err
	}
	if _, ok := a.index[name]; ok {
		return errors.Wrapf(ErrDuplicateName, "%q", name)
	}
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, Entry{Name: name, View: v})
	return nil
}

// Get returns the view stored under name.
func Get[T tensor.Element](a *Archive, name string) (*tensor.View[T], error) {
	i, ok := a.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	v, ok := a.entries[i].View.(*tensor.View[T])
	if !ok {
		return nil, errors.Wrapf(ErrDTypeMismatch, "entry %q is %s, not %s",
			name, describe(a.entries[i].View).DType, tensor.DataTypeOf[T]())
	}
	return v, nil
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Names returns the entry names in insertion order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.entries))
	for i, e := range a.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns the entries in insertion order.
func (a *Archive) Entries() []Entry {
	return append([]Entry(nil), a.entries...)
}

// EntryInfo summarizes the layout of an entry.
type EntryInfo struct {
	Name       string
	DType      tensor.DataType
	Shape      tensor.Shape
	Stride     []int
	Offset     int
	Contiguous bool
	BufferLen  int
	// BufferID is the same for entries sharing a buffer. IDs start at 1 in
	// order of first appearance.
	BufferID int
}

// Info describes every entry, grouping entries by shared buffer.
func (a *Archive) Info() []EntryInfo {
	ids := make(map[any]int)
	infos := make([]EntryInfo, len(a.entries))
	for i, e := range a.entries {
		d := describe(e.View)
		id, ok := ids[d.buffer]
		if !ok {
			id = len(ids) + 1
			ids[d.buffer] = id
		}
		infos[i] = EntryInfo{
			Name:       e.Name,
			DType:      d.DType,
			Shape:      d.Shape,
			Stride:     d.Stride,
			Offset:     d.Offset,
			Contiguous: d.Contiguous,
			BufferLen:  d.BufferLen,
			BufferID:   id,
		}
	}
	return infos
}

// Release detaches every view from its buffer.
func (a *Archive) Release() {
	for _, e := range a.entries {
		if r, ok := e.View.(interface{ Release() }); ok {
			r.Release()
		}
	}
}

type layout struct {
	DType      tensor.DataType
	Shape      tensor.Shape
	Stride     []int
	Offset     int
	Contiguous bool
	BufferLen  int
	buffer     any
}

func layoutOf[T tensor.Element](v *tensor.View[T]) layout {
	return layout{
		DType:      v.DType(),
		Shape:      v.Shape(),
		Stride:     v.Stride(),
		Offset:     v.Offset(),
		Contiguous: v.IsContiguous(),
		BufferLen:  v.Buffer().Len(),
		buffer:     v.Buffer(),
	}
}

// describe dispatches on the element type of a stored view.
func describe(v any) layout {
	switch v := v.(type) {
	case *tensor.View[int8]:
		return layoutOf(v)
	case *tensor.View[int16]:
		return layoutOf(v)
	case *tensor.View[int32]:
		return layoutOf(v)
	case *tensor.View[int64]:
		return layoutOf(v)
	case *tensor.View[uint8]:
		return layoutOf(v)
	case *tensor.View[float32]:
		return layoutOf(v)
	case *tensor.View[float64]:
		return layoutOf(v)
	case *tensor.View[complex64]:
		return layoutOf(v)
	case *tensor.View[complex128]:
		return layoutOf(v)
	default:
		panic("serialization: unsupported entry type")
	}
}
