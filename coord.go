package patch

import (
	"time"
)

// Coord holds the labels along one dimension. Exactly one of Values or Times
// is used; labels are sorted ascending.
type Coord struct {
	Values []float64
	Times  []time.Time
	Units  string
}

// NumericCoord builds a numeric coordinate.
func NumericCoord(units string, values ...float64) Coord {
	return Coord{Values: values, Units: units}
}

// TimeCoord builds a temporal coordinate.
func TimeCoord(times ...time.Time) Coord {
	return Coord{Times: times}
}

// RangeCoord builds n evenly spaced numeric labels starting at start.
func RangeCoord(start, step float64, n int, units string) Coord {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	return Coord{Values: vals, Units: units}
}

// TimeRangeCoord builds n evenly spaced timestamps starting at start.
func TimeRangeCoord(start time.Time, step time.Duration, n int) Coord {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * step)
	}
	return Coord{Times: times, Units: "s"}
}

// IsTime reports whether the coordinate is temporal.
func (c Coord) IsTime() bool { return c.Times != nil }

func (c Coord) Len() int {
	if c.IsTime() {
		return len(c.Times)
	}
	return len(c.Values)
}

// Slice returns labels [i, j). The result aliases c.
func (c Coord) Slice(i, j int) Coord {
	out := Coord{Units: c.Units}
	if c.IsTime() {
		out.Times = c.Times[i:j:j]
	} else {
		out.Values = c.Values[i:j:j]
	}
	return out
}

// First and Last return the bounding labels as float64 or time.Time.
func (c Coord) First() interface{} { return c.at(0) }

func (c Coord) Last() interface{} { return c.at(c.Len() - 1) }

func (c Coord) at(i int) interface{} {
	if c.IsTime() {
		return c.Times[i]
	}
	return c.Values[i]
}

// Step is the spacing between the first two labels, as float64 or
// time.Duration. ok is false for coordinates with fewer than two labels.
func (c Coord) Step() (step interface{}, ok bool) {
	if c.Len() < 2 {
		return nil, false
	}
	if c.IsTime() {
		return c.Times[1].Sub(c.Times[0]), true
	}
	return c.Values[1] - c.Values[0], true
}
