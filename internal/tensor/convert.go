package tensor

// Convert returns a structural copy of src with elements cast to D. The
// result keeps the shape, stride and offset of src over a converted copy of
// its whole buffer, so views sharing a buffer convert consistently.
//
// Example:
//
//	f := tensor.Must(tensor.FromSlice([]float64{1.7, -2.2}, 2))
//	i := tensor.Must(tensor.Convert[int32](f)) // [1, -2]
func Convert[D, S Element](src *View[S]) (*View[D], error) {
	if err := requireView("convert", src); err != nil {
		return nil, err
	}
	buf := CastBuffer[D](src.buf)
	return newView(buf, src.shape.Clone(), src.Stride(), src.offset), nil
}

// CopyCast copies src into dst, casting each element. Both views must hold
// the same number of elements.
func CopyCast[D, S Element](dst *View[D], src *View[S]) error {
	if err := requireView("copy", dst); err != nil {
		return err
	}
	if err := requireView("copy", src); err != nil {
		return err
	}
	if dst.Len() != src.Len() {
		return lengthf("copy: destination holds %d elements, source %d", dst.Len(), src.Len())
	}
	cast := castFunc[D, S]()
	return Apply2(dst, src, func(d *D, s *S) { *d = cast(*s) })
}
