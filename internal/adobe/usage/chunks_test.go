package usage

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSplitRange_SingleDay(t *testing.T) {
	chunks := splitRange(day("2022-02-01"), day("2022-02-01"))
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].start.Equal(day("2022-02-01")) || !chunks[0].end.Equal(day("2022-02-01")) {
		t.Fatalf("unexpected chunk: %+v", chunks[0])
	}
}

func TestSplitRange_WithinOneChunk(t *testing.T) {
	chunks := splitRange(day("2022-02-01"), day("2022-02-28"))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplitRange_ExactChunkWidth(t *testing.T) {
	// 90 days starting 2022-01-01 ends 2022-03-31.
	chunks := splitRange(day("2022-01-01"), day("2022-03-31"))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for exactly 90 days, got %d", len(chunks))
	}
	chunks = splitRange(day("2022-01-01"), day("2022-04-01"))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 91 days, got %d", len(chunks))
	}
	if !chunks[1].start.Equal(day("2022-04-01")) || !chunks[1].end.Equal(day("2022-04-01")) {
		t.Fatalf("unexpected final chunk: %+v", chunks[1])
	}
}

func TestSplitRange_CoversRangeWithoutGapsOrOverlaps(t *testing.T) {
	start, end := day("2021-01-15"), day("2022-06-03")
	chunks := splitRange(start, end)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	if !chunks[0].start.Equal(start) {
		t.Fatalf("first chunk must start at the requested start, got %v", chunks[0].start)
	}
	if !chunks[len(chunks)-1].end.Equal(end) {
		t.Fatalf("last chunk must be clipped to the requested end, got %v", chunks[len(chunks)-1].end)
	}

	for i, c := range chunks {
		width := int(c.end.Sub(c.start).Hours()/24) + 1
		if width > maxChunkDays {
			t.Fatalf("chunk %d is %d days wide, max is %d", i, width, maxChunkDays)
		}
		if c.end.Before(c.start) {
			t.Fatalf("chunk %d is reversed: %+v", i, c)
		}
		if i > 0 {
			prev := chunks[i-1]
			if !c.start.Equal(prev.end.AddDate(0, 0, 1)) {
				t.Fatalf("chunk %d does not start the day after chunk %d ends: %v vs %v",
					i, i-1, c.start, prev.end)
			}
		}
	}
}

func TestChunkParams_InclusiveEndOfDay(t *testing.T) {
	c := dateChunk{start: day("2022-02-01"), end: day("2022-02-28")}
	if got := c.startParam(); got != "2022-02-01T00:00:00" {
		t.Fatalf("unexpected start param: %q", got)
	}
	if got := c.endParam(); got != "2022-02-28T23:59:59" {
		t.Fatalf("unexpected end param: %q", got)
	}
}
