package patch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrowRoundTrip(t *testing.T) {
	a, err := NewArray([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 3, 4)
	require.NoError(t, err)
	v, err := a.View([]int{1, 1}, []int{3, 4})
	require.NoError(t, err)

	for _, arr := range []*Array{a, v, Zeros(0, 4), Zeros()} {
		var buf bytes.Buffer
		require.NoError(t, WriteArrow(&buf, arr))

		got, err := ReadArrow(&buf)
		require.NoError(t, err)
		assert.Equal(t, arr.Shape(), got.Shape())
		assert.Equal(t, arr.Copy().Values(), got.Values())
		assert.False(t, got.shares(arr))
	}
}

func TestReadArrowInvalid(t *testing.T) {
	_, err := ReadArrow(bytes.NewReader([]byte("not arrow")))
	assert.Error(t, err)
}
