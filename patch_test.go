package patch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatchValidation(t *testing.T) {
	arr := Zeros(2, 3)
	coords := map[string]Coord{
		"x": NumericCoord("m", 0, 1),
		"y": NumericCoord("", 0, 1, 2),
	}

	_, err := New(arr, []string{"x", "y"}, coords, nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		data   *Array
		dims   []string
		coords map[string]Coord
	}{
		{"nil data", nil, []string{"x", "y"}, coords},
		{"rank", arr, []string{"x"}, coords},
		{"duplicate", arr, []string{"x", "x"}, coords},
		{"missing coord", arr, []string{"x", "z"}, coords},
		{"coord length", arr, []string{"y", "x"}, coords},
	}
	for _, c := range cases {
		_, err := New(c.data, c.dims, c.coords, nil)
		assert.True(t, errors.Is(err, ErrShapeMismatch), c.name)
	}
}

func TestPatchAccessorsCopy(t *testing.T) {
	p := newTestPatch(t)

	dims := p.Dims()
	dims[0] = "changed"
	assert.Equal(t, []string{"distance", "time"}, p.Dims())

	attrs := p.Attrs()
	attrs["distance_min"] = -1.0
	assert.Equal(t, 0.0, p.Attrs()["distance_min"])

	coords := p.Coords()
	delete(coords, "time")
	_, ok := p.Coord("time")
	assert.True(t, ok)

	assert.Equal(t, "<patch dims=[distance time] shape=[51 31]>", p.String())
}

func TestCoord(t *testing.T) {
	c := TimeRangeCoord(t0, time.Second, 3)
	assert.True(t, c.IsTime())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, t0, c.First())
	assert.Equal(t, t0.Add(2*time.Second), c.Last())
	step, ok := c.Step()
	assert.True(t, ok)
	assert.Equal(t, time.Second, step)

	s := c.Slice(1, 1)
	assert.True(t, s.IsTime())
	assert.Equal(t, 0, s.Len())

	n := NumericCoord("m", 5)
	assert.False(t, n.IsTime())
	_, ok = n.Step()
	assert.False(t, ok)
}

func TestExamplePatch(t *testing.T) {
	p := ExamplePatch()
	assert.Equal(t, []int{300, 2000}, p.Shape())
	attrs := p.Attrs()
	assert.Equal(t, ExampleStartTime, attrs["time_min"])
	assert.Equal(t, 4*time.Millisecond, attrs["d_time"])
	assert.Equal(t, 299.0, attrs["distance_max"])
	assert.Equal(t, "m", attrs["distance_units"])
	assert.Equal(t, "s", attrs["time_units"])
	assert.Equal(t, ExamplePatch().Data().Values(), p.Data().Values())
}
