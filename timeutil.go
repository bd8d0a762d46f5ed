package patch

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMissingTimeBounds is returned when a relative time offset is given for
// a patch that doesn't report time_min and time_max
var ErrMissingTimeBounds = errors.New("missing time bounds")

// TimeResolver turns a raw time bound into an absolute timestamp. It returns
// a time.Time, or nil when v is nil.
type TimeResolver interface {
	Resolve(v interface{}, tmin, tmax time.Time) (interface{}, error)
}

// TimeResolverFunc adapts a function to the TimeResolver interface.
type TimeResolverFunc func(v interface{}, tmin, tmax time.Time) (interface{}, error)

func (f TimeResolverFunc) Resolve(v interface{}, tmin, tmax time.Time) (interface{}, error) {
	return f(v, tmin, tmax)
}

// RelativeTimeResolver treats numbers (seconds) and durations as offsets:
// non-negative offsets count forward from tmin, negative offsets count back
// from tmax. Timestamps pass through unchanged.
var RelativeTimeResolver TimeResolver = TimeResolverFunc(resolveSelectTime)

// maxOffsetSeconds is the largest offset representable as a time.Duration.
const maxOffsetSeconds = float64(math.MaxInt64) / float64(time.Second)

func resolveSelectTime(v interface{}, tmin, tmax time.Time) (interface{}, error) {
	var offset time.Duration
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case time.Duration:
		offset = x
	default:
		secs, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: can't use %T as a time bound", ErrTypeMismatch, v)
		}
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return nil, fmt.Errorf("%w: time offset %v is not finite", ErrInvalidConstraint, secs)
		}
		if math.Abs(secs) > maxOffsetSeconds {
			return nil, fmt.Errorf("%w: time offset %vs out of range", ErrInvalidConstraint, secs)
		}
		offset = time.Duration(math.Round(secs * float64(time.Second)))
	}

	if offset >= 0 {
		if tmin.IsZero() {
			return nil, fmt.Errorf("%w: offset %s needs %s_min", ErrMissingTimeBounds, offset, TimeDim)
		}
		return tmin.Add(offset), nil
	}
	if tmax.IsZero() {
		return nil, fmt.Errorf("%w: offset %s needs %s_max", ErrMissingTimeBounds, offset, TimeDim)
	}
	return tmax.Add(offset), nil
}

// toFloat converts any Go numeric value to float64.
func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
