package patch

import (
	"fmt"
)

// Array is a dense, row-major N-dimensional float64 array. Views created with
// View share the backing buffer with their parent.
type Array struct {
	buf     []float64
	shape   []int
	strides []int
	offset  int
}

// NewArray wraps data as an array of the given shape. data is not copied.
func NewArray(data []float64, shape ...int) (*Array, error) {
	size := 1
	for i, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative extent %d in axis %d", ErrShapeMismatch, n, i)
		}
		size *= n
	}
	if size != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShapeMismatch, shape, size, len(data))
	}
	return &Array{
		buf:     data,
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
	}, nil
}

// Zeros allocates a zero-filled array.
func Zeros(shape ...int) *Array {
	size := 1
	for _, n := range shape {
		size *= n
	}
	a, err := NewArray(make([]float64, size), shape...)
	if err != nil {
		panic(err)
	}
	return a
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	return strides
}

// Shape returns a copy of the array extents.
func (a *Array) Shape() []int {
	out := make([]int, len(a.shape))
	copy(out, a.shape)
	return out
}

// Ndim is the number of axes.
func (a *Array) Ndim() int { return len(a.shape) }

// Size is the total number of elements.
func (a *Array) Size() int {
	size := 1
	for _, n := range a.shape {
		size *= n
	}
	return size
}

func (a *Array) index(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("patch: %d indices for %d-dimensional array", len(idx), len(a.shape)))
	}
	pos := a.offset
	for i, ix := range idx {
		if ix < 0 || ix >= a.shape[i] {
			panic(fmt.Sprintf("patch: index %d out of range for axis %d with extent %d", ix, i, a.shape[i]))
		}
		pos += ix * a.strides[i]
	}
	return pos
}

// At returns the element at idx.
func (a *Array) At(idx ...int) float64 {
	return a.buf[a.index(idx)]
}

// Set writes v at idx. Writes are visible through every view sharing the
// buffer.
func (a *Array) Set(v float64, idx ...int) {
	a.buf[a.index(idx)] = v
}

// View returns the sub-array [start[i], stop[i]) along every axis. The view
// aliases a.
func (a *Array) View(start, stop []int) (*Array, error) {
	if len(start) != len(a.shape) || len(stop) != len(a.shape) {
		return nil, fmt.Errorf("%w: view bounds need %d axes", ErrShapeMismatch, len(a.shape))
	}
	v := &Array{
		buf:     a.buf,
		shape:   make([]int, len(a.shape)),
		strides: append([]int(nil), a.strides...),
		offset:  a.offset,
	}
	for i := range a.shape {
		if start[i] < 0 || stop[i] > a.shape[i] || start[i] > stop[i] {
			return nil, fmt.Errorf("%w: bounds [%d, %d) outside axis %d with extent %d",
				ErrShapeMismatch, start[i], stop[i], i, a.shape[i])
		}
		v.shape[i] = stop[i] - start[i]
		if v.shape[i] > 0 {
			v.offset += start[i] * a.strides[i]
		}
	}
	return v, nil
}

// Copy returns a contiguous array that shares no memory with a.
func (a *Array) Copy() *Array {
	out := &Array{
		buf:     make([]float64, 0, a.Size()),
		shape:   a.Shape(),
		strides: rowMajorStrides(a.shape),
	}
	a.each(func(v float64) { out.buf = append(out.buf, v) })
	return out
}

// Values returns the elements in row-major order. For contiguous arrays the
// returned slice aliases the backing buffer.
func (a *Array) Values() []float64 {
	if a.contiguous() {
		return a.buf[a.offset : a.offset+a.Size()]
	}
	return a.Copy().buf
}

func (a *Array) contiguous() bool {
	step := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		if a.shape[i] != 1 && a.strides[i] != step {
			return false
		}
		step *= a.shape[i]
	}
	return true
}

// shares reports whether a and b are backed by the same buffer.
func (a *Array) shares(b *Array) bool {
	if cap(a.buf) == 0 || cap(b.buf) == 0 {
		return false
	}
	return &a.buf[:cap(a.buf)][cap(a.buf)-1] == &b.buf[:cap(b.buf)][cap(b.buf)-1]
}

func (a *Array) each(fn func(float64)) {
	if a.Size() == 0 {
		return
	}
	idx := make([]int, len(a.shape))
	for {
		fn(a.buf[a.index(idx)])
		ax := len(idx) - 1
		for ; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < a.shape[ax] {
				break
			}
			idx[ax] = 0
		}
		if ax < 0 {
			return
		}
	}
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
