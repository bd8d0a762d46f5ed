package patch

import (
	"fmt"
)

// Reconciler rebuilds attributes so that every coordinate-derived attribute
// agrees with the coordinates.
type Reconciler interface {
	Reconcile(attrs Attrs, coords map[string]Coord, dims []string) (Attrs, map[string]Coord, error)
}

// ReconcilerFunc adapts a function to the Reconciler interface.
type ReconcilerFunc func(attrs Attrs, coords map[string]Coord, dims []string) (Attrs, map[string]Coord, error)

func (f ReconcilerFunc) Reconcile(attrs Attrs, coords map[string]Coord, dims []string) (Attrs, map[string]Coord, error) {
	return f(attrs, coords, dims)
}

// BoundsReconciler sets <dim>_min, <dim>_max, d_<dim> and <dim>_units for
// each dimension from its coordinate. Keys for empty coordinates are
// removed.
var BoundsReconciler Reconciler = ReconcilerFunc(reconcileBounds)

func reconcileBounds(attrs Attrs, coords map[string]Coord, dims []string) (Attrs, map[string]Coord, error) {
	out := attrs.Clone()
	outCoords := make(map[string]Coord, len(coords))
	for name, c := range coords {
		outCoords[name] = c
	}

	for _, dim := range dims {
		c, ok := coords[dim]
		if !ok {
			return nil, nil, fmt.Errorf("%w: dimension %q has no coordinate", ErrShapeMismatch, dim)
		}
		minKey, maxKey, stepKey := dim+"_min", dim+"_max", "d_"+dim

		if c.Len() == 0 {
			delete(out, minKey)
			delete(out, maxKey)
			delete(out, stepKey)
		} else {
			out[minKey] = c.First()
			out[maxKey] = c.Last()
			if step, ok := c.Step(); ok {
				out[stepKey] = step
			}
		}
		if c.Units != "" {
			out[dim+"_units"] = c.Units
		}
	}
	return out, outCoords, nil
}
