package usage

import "time"

// The audit-log endpoint accepts at most a three-month span per request.
const maxChunkDays = 90

// dateChunk is one sub-range of the requested date range. Both bounds are
// whole days (midnight UTC) and inclusive.
type dateChunk struct {
	start time.Time
	end   time.Time
}

// startParam renders the chunk start as the endpoint's timestamp format.
func (c dateChunk) startParam() string {
	return c.start.Format(timestampLayout)
}

// endParam renders the chunk end inclusively, as the last second of the day.
func (c dateChunk) endParam() string {
	return c.end.AddDate(0, 0, 1).Add(-time.Second).Format(timestampLayout)
}

// splitRange splits the inclusive day range [start, end] into consecutive
// chunks of at most maxChunkDays days each. Chunks never overlap, leave no
// gaps, and come back in chronological order. A single-day range yields
// exactly one chunk.
func splitRange(start, end time.Time) []dateChunk {
	var chunks []dateChunk
	for cur := start; !cur.After(end); {
		chunkEnd := cur.AddDate(0, 0, maxChunkDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, dateChunk{start: cur, end: chunkEnd})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return chunks
}
