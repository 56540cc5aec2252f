package analyzer

import "fmt"

// DefaultChunkSize bounds a single log query to stay within provider
// limits.
const DefaultChunkSize = 2000

// BlockRange represents an inclusive block range.
type BlockRange struct {
	From uint64
	To   uint64
}

// Normalize returns the range with bounds swapped if reversed, so scans
// always run in ascending order.
func (r BlockRange) Normalize() BlockRange {
	if r.From > r.To {
		return BlockRange{From: r.To, To: r.From}
	}
	return r
}

// SplitRange splits a block range into contiguous, non-overlapping chunks
// of at most chunkSize blocks. The final chunk covers the remainder.
func SplitRange(from, to, chunkSize uint64) ([]BlockRange, error) {
	if chunkSize == 0 {
		return nil, fmt.Errorf("chunk size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	chunks := make([]BlockRange, 0)
	start := from
	for start <= to {
		remaining := to - start + 1
		var end uint64
		if remaining <= chunkSize {
			end = to
		} else {
			end = start + chunkSize - 1
		}
		chunks = append(chunks, BlockRange{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return chunks, nil
}
