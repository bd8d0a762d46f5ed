package patch

import (
	"fmt"
	"sort"
	"time"
)

// dimProjection maps a label constraint on one dimension onto the half-open
// index interval [Start, Stop) of its coordinate.
type dimProjection struct {
	// Name of the projected dimension.
	Dim string
	// Index of the dimension in the array.
	Axis int
	// First selected index.
	Start int
	// One past the last selected index.
	Stop int
}

// project computes the index interval of coord selected by constraint v.
// Range bounds are inclusive; a scalar selects labels equal to it.
func project(dim string, axis int, coord Coord, v interface{}) (dimProjection, error) {
	p := dimProjection{Dim: dim, Axis: axis, Start: 0, Stop: coord.Len()}

	switch x := v.(type) {
	case nil:
		return p, nil
	case Range:
		if x.Low != nil {
			i, err := searchLabel(coord, x.Low, false)
			if err != nil {
				return p, fmt.Errorf("%s low bound: %w", dim, err)
			}
			p.Start = i
		}
		if x.High != nil {
			i, err := searchLabel(coord, x.High, true)
			if err != nil {
				return p, fmt.Errorf("%s high bound: %w", dim, err)
			}
			p.Stop = i
		}
	case Pair, []interface{}, [2]interface{}:
		return p, fmt.Errorf("%w: %s: pair constraints must be normalized before selection", ErrInvalidConstraint, dim)
	default:
		start, err := searchLabel(coord, v, false)
		if err != nil {
			return p, fmt.Errorf("%s: %w", dim, err)
		}
		stop, err := searchLabel(coord, v, true)
		if err != nil {
			return p, fmt.Errorf("%s: %w", dim, err)
		}
		p.Start, p.Stop = start, stop
	}

	if p.Stop < p.Start {
		p.Stop = p.Start
	}
	return p, nil
}

// searchLabel returns the index of the first label >= v, or with after set,
// the first label > v.
func searchLabel(coord Coord, v interface{}, after bool) (int, error) {
	if coord.IsTime() {
		t, ok := v.(time.Time)
		if !ok {
			return 0, fmt.Errorf("%w: temporal coordinate compared with %T", ErrTypeMismatch, v)
		}
		return sort.Search(len(coord.Times), func(i int) bool {
			if after {
				return coord.Times[i].After(t)
			}
			return !coord.Times[i].Before(t)
		}), nil
	}

	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: numeric coordinate compared with %T", ErrTypeMismatch, v)
	}
	return sort.Search(len(coord.Values), func(i int) bool {
		if after {
			return coord.Values[i] > f
		}
		return coord.Values[i] >= f
	}), nil
}
