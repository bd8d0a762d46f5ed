package patch

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeTimeResolver(t *testing.T) {
	tmin := time.Date(2017, 9, 18, 0, 0, 0, 0, time.UTC)
	tmax := tmin.Add(time.Minute)

	cases := []struct {
		in   interface{}
		want interface{}
	}{
		{nil, nil},
		{0, tmin},
		{10, tmin.Add(10 * time.Second)},
		{int64(3), tmin.Add(3 * time.Second)},
		{float32(0.5), tmin.Add(500 * time.Millisecond)},
		{0.004, tmin.Add(4 * time.Millisecond)},
		{-1.5, tmax.Add(-1500 * time.Millisecond)},
		{2 * time.Second, tmin.Add(2 * time.Second)},
		{-time.Second, tmax.Add(-time.Second)},
		{tmin.Add(time.Hour), tmin.Add(time.Hour)},
	}
	for _, c := range cases {
		got, err := RelativeTimeResolver.Resolve(c.in, tmin, tmax)
		require.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}

func TestRelativeTimeResolverErrors(t *testing.T) {
	tmin := time.Date(2017, 9, 18, 0, 0, 0, 0, time.UTC)

	_, err := RelativeTimeResolver.Resolve("10", tmin, tmin)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = RelativeTimeResolver.Resolve(math.NaN(), tmin, tmin)
	assert.True(t, errors.Is(err, ErrInvalidConstraint))

	for _, huge := range []interface{}{1e11, -1e11, uint64(math.MaxUint64)} {
		_, err = RelativeTimeResolver.Resolve(huge, tmin, tmin.Add(time.Minute))
		assert.True(t, errors.Is(err, ErrInvalidConstraint), "%v", huge)
	}

	_, err = RelativeTimeResolver.Resolve(1, time.Time{}, tmin)
	assert.True(t, errors.Is(err, ErrMissingTimeBounds))

	_, err = RelativeTimeResolver.Resolve(-1, tmin, time.Time{})
	assert.True(t, errors.Is(err, ErrMissingTimeBounds))

	// absolute times don't need bounds
	got, err := RelativeTimeResolver.Resolve(tmin, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, tmin, got)
}
