package patch

import (
	"errors"
	"fmt"
	"time"
)

// TimeDim is the dimension whose bounds are resolved against the patch's
// time_min and time_max before selection.
const TimeDim = "time"

var (
	// ErrUnknownDim is returned when a constraint names a dimension the
	// patch does not have
	ErrUnknownDim = errors.New("unknown dimension")
	// ErrTypeMismatch is returned when a bound can't be compared with the
	// coordinate it constrains
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidConstraint is returned for constraints with the wrong shape
	ErrInvalidConstraint = errors.New("invalid constraint")
	// ErrShapeMismatch is returned when data, dims and coords disagree
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Range is a closed interval of coordinate labels. A nil bound leaves that
// side open.
type Range struct {
	Low  interface{}
	High interface{}
}

// Between is shorthand for Range{Low: low, High: high}.
func Between(low, high interface{}) Range {
	return Range{Low: low, High: high}
}

func (r Range) String() string {
	return fmt.Sprintf("(%s, %s)", formatValue(r.Low), formatValue(r.High))
}

// Pair is an ordered (low, high) constraint.
type Pair [2]interface{}

// Constraints maps dimension names to a constraint: nil, a Range, a
// two-element pair or a scalar label.
type Constraints map[string]interface{}

// Normalize converts c into canonical ranges for p. Bounds on the time
// dimension are passed through r first; every pair-shaped value becomes a
// Range. c is not modified.
func Normalize(p *Patch, c Constraints, r TimeResolver) (Constraints, error) {
	out := make(Constraints, len(c))
	for k, v := range c {
		out[k] = v
	}

	if rp, ok := out[TimeDim].(*Range); ok && rp == nil {
		out[TimeDim] = nil
	}
	if v, ok := out[TimeDim]; ok && v != nil {
		low, high, ok := unpackPair(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a (low, high) pair, got %T", ErrInvalidConstraint, TimeDim, v)
		}
		tmin, _ := p.attrs.Time(TimeDim + "_min")
		tmax, _ := p.attrs.Time(TimeDim + "_max")
		resolved := Pair{low, high}
		for i, b := range resolved {
			if b == nil {
				continue
			}
			t, err := r.Resolve(b, tmin, tmax)
			if err != nil {
				return nil, err
			}
			resolved[i] = t
		}
		out[TimeDim] = resolved
	}

	for k, v := range out {
		if _, isRange := v.(Range); isRange {
			continue
		}
		if rp, isRange := v.(*Range); isRange {
			out[k] = nil
			if rp != nil {
				out[k] = *rp
			}
			continue
		}
		if low, high, ok := unpackPair(v); ok {
			out[k] = Range{Low: low, High: high}
		}
	}
	return out, nil
}

// unpackPair extracts the two bounds of a pair-shaped value. Ranges unpack
// into their bounds.
func unpackPair(v interface{}) (low, high interface{}, ok bool) {
	switch x := v.(type) {
	case Range:
		return x.Low, x.High, true
	case *Range:
		if x == nil {
			return nil, nil, false
		}
		return x.Low, x.High, true
	case Pair:
		return x[0], x[1], true
	case [2]interface{}:
		return x[0], x[1], true
	case []interface{}:
		if len(x) == 2 {
			return x[0], x[1], true
		}
	case [2]float64:
		return x[0], x[1], true
	case []float64:
		if len(x) == 2 {
			return x[0], x[1], true
		}
	case [2]int:
		return x[0], x[1], true
	case []int:
		if len(x) == 2 {
			return x[0], x[1], true
		}
	case [2]time.Time:
		return x[0], x[1], true
	case []time.Time:
		if len(x) == 2 {
			return x[0], x[1], true
		}
	}
	return nil, nil, false
}
