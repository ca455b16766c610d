package types

// BlockRange is a half-open interval [Start, End) of execution-layer
// block numbers.
type BlockRange struct {
	Start uint64
	End   uint64
}

// RawLog is one unparsed contract log entry as returned by the node.
// Data keeps the 0x-prefixed hex payload exactly as received.
type RawLog struct {
	BlockNumber uint64
	Data        string
}

// SplitRange splits r into consecutive half-open sub-ranges of at most
// chunkSize blocks, in ascending order, with no gaps or overlaps. The
// last sub-range may be shorter than chunkSize. An empty or inverted
// range yields no chunks.
func SplitRange(r BlockRange, chunkSize uint64) []BlockRange {
	if r.Start >= r.End || chunkSize == 0 {
		return nil
	}
	chunks := make([]BlockRange, 0, (r.End-r.Start+chunkSize-1)/chunkSize)
	for start := r.Start; start < r.End; start += chunkSize {
		end := start + chunkSize
		if end > r.End {
			end = r.End
		}
		chunks = append(chunks, BlockRange{Start: start, End: end})
	}
	return chunks
}
