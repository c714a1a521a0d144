package analyzer

import "fmt"

// DefaultDebugLogSize bounds the trace kept between flushes.
const DefaultDebugLogSize = 1000

// DebugLog is a fixed-size ring of trace lines. Once full, each new line
// replaces the oldest one. A nil *DebugLog discards everything.
type DebugLog struct {
	lines   []string
	start   int
	size    int
	dropped int
}

// NewDebugLog creates a buffer holding at most limit lines.
func NewDebugLog(limit int) *DebugLog {
	if limit <= 0 {
		limit = DefaultDebugLogSize
	}
	return &DebugLog{lines: make([]string, limit)}
}

// Addf appends a formatted line.
func (d *DebugLog) Addf(format string, args ...any) {
	if d == nil {
		return
	}

	line := fmt.Sprintf(format, args...)
	limit := len(d.lines)

	if d.size < limit {
		d.lines[(d.start+d.size)%limit] = line
		d.size++
		return
	}

	d.lines[d.start] = line
	d.start = (d.start + 1) % limit
	d.dropped++
}

// Len returns the number of buffered lines.
func (d *DebugLog) Len() int {
	if d == nil {
		return 0
	}
	return d.size
}

// Dropped returns how many lines were overwritten since the last Drain.
func (d *DebugLog) Dropped() int {
	if d == nil {
		return 0
	}
	return d.dropped
}

// Drain returns the buffered lines oldest first and empties the buffer.
func (d *DebugLog) Drain() []string {
	if d == nil || d.size == 0 {
		return nil
	}

	limit := len(d.lines)
	out := make([]string, d.size)
	for i := range out {
		idx := (d.start + i) % limit
		out[i] = d.lines[idx]
		d.lines[idx] = ""
	}

	d.start, d.size, d.dropped = 0, 0, 0
	return out
}
