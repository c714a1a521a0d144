// Package progress renders a single-line progress bar for row-by-row work
// such as checking the titles of a worksheet.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	barWidth       = 30
	redrawInterval = 100 * time.Millisecond
)

// Stats summarizes a tracked run.
type Stats struct {
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Flagged   int           `json:"flagged"`
}

// Tracker follows progress through a known number of items. A disabled
// tracker counts but never writes.
type Tracker struct {
	startTime time.Time
	lastDraw  time.Time
	out       io.Writer
	desc      string
	total     int
	completed int
	failed    int
	flagged   int
	enabled   bool
	now       func() time.Time
}

// NewTracker creates a tracker for total items writing to out.
func NewTracker(out io.Writer, desc string, total int, enabled bool) *Tracker {
	t := &Tracker{
		out:     out,
		desc:    desc,
		total:   total,
		enabled: enabled && out != nil,
		now:     time.Now,
	}
	t.startTime = t.now()
	return t
}

// Advance records one finished item. flagged marks items that produced a
// finding.
func (t *Tracker) Advance(flagged bool) {
	t.completed++
	if flagged {
		t.flagged++
	}
	t.draw(false)
}

// Fail records one item that could not be processed.
func (t *Tracker) Fail() {
	t.completed++
	t.failed++
	t.draw(false)
}

// Finish draws the final state and ends the line.
func (t *Tracker) Finish() {
	t.draw(true)
	if t.enabled {
		fmt.Fprintln(t.out)
	}
}

// Stats returns the counters collected so far.
func (t *Tracker) Stats() Stats {
	return Stats{
		Duration:  t.now().Sub(t.startTime),
		Total:     t.total,
		Completed: t.completed,
		Failed:    t.failed,
		Flagged:   t.flagged,
	}
}

func (t *Tracker) draw(force bool) {
	if !t.enabled {
		return
	}

	now := t.now()
	if !force && t.completed < t.total && now.Sub(t.lastDraw) < redrawInterval {
		return
	}
	t.lastDraw = now

	line := fmt.Sprintf("%s %s %d/%d", t.desc, Bar(int64(t.completed), int64(t.total), barWidth), t.completed, t.total)
	if eta := EstimateRemaining(t.completed, t.total, now.Sub(t.startTime)); eta > 0 {
		line += fmt.Sprintf(" (ETA: %s)", eta.Round(time.Second))
	}

	fmt.Fprintf(t.out, "\r%s", line)
}

// Bar creates a simple text progress bar.
func Bar(current, total int64, width int) string {
	if total == 0 {
		return strings.Repeat("?", width)
	}

	percentage := float64(current) / float64(total)
	filled := int(percentage * float64(width))

	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return fmt.Sprintf("[%s] %.1f%%", bar, percentage*100)
}

// EstimateRemaining extrapolates the time left from the average pace so far.
func EstimateRemaining(done, total int, elapsed time.Duration) time.Duration {
	if done <= 0 || done >= total || elapsed <= 0 {
		return 0
	}

	perItem := elapsed / time.Duration(done)
	return perItem * time.Duration(total-done)
}
