package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRange(t *testing.T) {
	t.Parallel()

	var windows [][2]int
	err := ChunkRange(7, 3, func(start, end int) error {
		windows = append(windows, [2]int{start, end})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 7}}, windows)

	calls := 0
	require.NoError(t, ChunkRange(0, 3, func(int, int) error { calls++; return nil }))
	assert.Zero(t, calls)

	boom := errors.New("boom")
	err = ChunkRange(5, 2, func(start, end int) error {
		if start == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
