package patch

import (
	"fmt"
)

// LabeledArray is the engine-level view of a patch: data plus the labels and
// attributes that describe it.
type LabeledArray struct {
	Data   *Array
	Dims   []string
	Coords map[string]Coord
	Attrs  Attrs
}

// Engine performs label-based selection. Implementations must treat nil
// Range bounds as open and must not modify a.
type Engine interface {
	Select(a *LabeledArray, ranges Constraints) (*LabeledArray, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(a *LabeledArray, ranges Constraints) (*LabeledArray, error)

func (f EngineFunc) Select(a *LabeledArray, ranges Constraints) (*LabeledArray, error) {
	return f(a, ranges)
}

// LabelEngine selects inclusive label ranges from sorted coordinates. The
// returned data is a view of the input array.
type LabelEngine struct{}

var _ Engine = LabelEngine{}

func (LabelEngine) Select(a *LabeledArray, ranges Constraints) (*LabeledArray, error) {
	axes := make(map[string]int, len(a.Dims))
	for i, d := range a.Dims {
		axes[d] = i
	}

	shape := a.Data.Shape()
	start := make([]int, len(shape))
	stop := append([]int(nil), shape...)
	projections := make(map[string]dimProjection, len(ranges))

	for dim, v := range ranges {
		axis, ok := axes[dim]
		if !ok {
			return nil, fmt.Errorf("%w: %q not in %v", ErrUnknownDim, dim, a.Dims)
		}
		coord, ok := a.Coords[dim]
		if !ok {
			return nil, fmt.Errorf("%w: dimension %q has no coordinate", ErrShapeMismatch, dim)
		}
		p, err := project(dim, axis, coord, v)
		if err != nil {
			return nil, err
		}
		start[axis], stop[axis] = p.Start, p.Stop
		projections[dim] = p
	}

	data, err := a.Data.View(start, stop)
	if err != nil {
		return nil, err
	}

	coords := make(map[string]Coord, len(a.Coords))
	for name, c := range a.Coords {
		if p, ok := projections[name]; ok {
			c = c.Slice(p.Start, p.Stop)
		}
		coords[name] = c
	}

	return &LabeledArray{
		Data:   data,
		Dims:   append([]string(nil), a.Dims...),
		Coords: coords,
		Attrs:  a.Attrs.Clone(),
	}, nil
}
