package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitRangeCoversExactly(t *testing.T) {
	cases := []struct {
		start, end, chunkSize uint64
	}{
		{0, 10, 3},
		{0, 10, 10},
		{0, 10, 1},
		{5, 100, 7},
		{11184524, 11190000, 1000},
		{3, 4, 1000},
	}
	for _, tc := range cases {
		chunks := SplitRange(BlockRange{Start: tc.start, End: tc.end}, tc.chunkSize)
		require.NotEmpty(t, chunks)

		next := tc.start
		for _, c := range chunks {
			require.Equal(t, next, c.Start, "chunks must be contiguous")
			require.Greater(t, c.End, c.Start)
			require.LessOrEqual(t, c.End-c.Start, tc.chunkSize)
			next = c.End
		}
		require.Equal(t, tc.end, next, "chunks must cover the whole range")
	}
}

func TestSplitRangeEmpty(t *testing.T) {
	require.Empty(t, SplitRange(BlockRange{Start: 10, End: 10}, 5))
	require.Empty(t, SplitRange(BlockRange{Start: 11, End: 10}, 5))
}

func TestSplitRangeShortTail(t *testing.T) {
	chunks := SplitRange(BlockRange{Start: 0, End: 25}, 10)
	require.Len(t, chunks, 3)
	require.Equal(t, BlockRange{Start: 20, End: 25}, chunks[2])
}
