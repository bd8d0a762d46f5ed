// Package patch implements labeled N-dimensional arrays ("patches") and
// coordinate-aware selection over them.
package patch

import (
	"fmt"
)

// Patch is a dense array with named dimensions, coordinate labels along each
// dimension and a set of attributes. Patches are immutable by convention:
// operations return new patches and never modify their input.
type Patch struct {
	data   *Array
	dims   []string
	coords map[string]Coord
	attrs  Attrs
}

// New builds a patch, checking that dims match the rank of data and that
// every dimension has a coordinate of matching length.
func New(data *Array, dims []string, coords map[string]Coord, attrs Attrs) (*Patch, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrShapeMismatch)
	}
	shape := data.Shape()
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("%w: %d dims for %d-dimensional data", ErrShapeMismatch, len(dims), len(shape))
	}
	seen := make(map[string]struct{}, len(dims))
	for i, d := range dims {
		if _, dup := seen[d]; dup {
			return nil, fmt.Errorf("%w: duplicate dimension %q", ErrShapeMismatch, d)
		}
		seen[d] = struct{}{}
		c, ok := coords[d]
		if !ok {
			return nil, fmt.Errorf("%w: dimension %q has no coordinate", ErrShapeMismatch, d)
		}
		if c.Len() != shape[i] {
			return nil, fmt.Errorf("%w: coordinate %q has %d labels, data has %d", ErrShapeMismatch, d, c.Len(), shape[i])
		}
	}

	p := &Patch{
		data:   data,
		dims:   append([]string(nil), dims...),
		coords: make(map[string]Coord, len(coords)),
		attrs:  Attrs{},
	}
	for k, c := range coords {
		p.coords[k] = c
	}
	if attrs != nil {
		p.attrs = attrs.Clone()
	}
	return p, nil
}

// Data returns the patch's array. Callers must not modify it.
func (p *Patch) Data() *Array { return p.data }

// Dims returns the dimension names in axis order.
func (p *Patch) Dims() []string { return append([]string(nil), p.dims...) }

// Shape returns the data extents.
func (p *Patch) Shape() []int { return p.data.Shape() }

// Coord returns the coordinate of dimension dim.
func (p *Patch) Coord(dim string) (Coord, bool) {
	c, ok := p.coords[dim]
	return c, ok
}

// Coords returns a copy of the coordinate map.
func (p *Patch) Coords() map[string]Coord {
	out := make(map[string]Coord, len(p.coords))
	for k, c := range p.coords {
		out[k] = c
	}
	return out
}

// Attrs returns a copy of the patch attributes.
func (p *Patch) Attrs() Attrs { return p.attrs.Clone() }

func (p *Patch) String() string {
	return fmt.Sprintf("<patch dims=%v shape=%v>", p.dims, p.data.Shape())
}

// labeled exposes the patch to an Engine.
func (p *Patch) labeled() *LabeledArray {
	return &LabeledArray{
		Data:   p.data,
		Dims:   p.Dims(),
		Coords: p.Coords(),
		Attrs:  p.attrs,
	}
}
