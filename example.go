package patch

import (
	"math/rand"
	"time"
)

// ExampleStartTime is the first time label of ExamplePatch.
var ExampleStartTime = time.Date(2017, 9, 18, 0, 0, 0, 0, time.UTC)

// ExamplePatch returns a distance x time patch of seeded random data: 300
// distance labels 1 m apart and 2000 time samples at 250 Hz.
func ExamplePatch() *Patch {
	const (
		nDist = 300
		nTime = 2000
	)
	rng := rand.New(rand.NewSource(42))
	data := make([]float64, nDist*nTime)
	for i := range data {
		data[i] = rng.Float64()
	}
	arr, err := NewArray(data, nDist, nTime)
	if err != nil {
		panic(err)
	}

	coords := map[string]Coord{
		"distance": RangeCoord(0, 1, nDist, "m"),
		"time":     TimeRangeCoord(ExampleStartTime, time.Second/250, nTime),
	}
	attrs, coords, err := BoundsReconciler.Reconcile(Attrs{
		"data_units": "m/s",
		"history":    []string{},
	}, coords, []string{"distance", "time"})
	if err != nil {
		panic(err)
	}
	p, err := New(arr, []string{"distance", "time"}, coords, attrs)
	if err != nil {
		panic(err)
	}
	return p
}
