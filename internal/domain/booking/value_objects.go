package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a half-open time range [start, end).
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (i Interval) Start() time.Time {
	return i.start
}

func (i Interval) End() time.Time {
	return i.end
}

func (i Interval) Duration() time.Duration {
	return i.end.Sub(i.start)
}

// Overlaps uses strict intersection: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 and e1 > s2. Adjacent intervals (e1 == s2) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.start.Before(other.end) && i.end.After(other.start)
}

// Expand grows the interval by the given padding on each side. Used to apply
// appointment-type buffers around existing bookings.
func (i Interval) Expand(before, after time.Duration) Interval {
	return Interval{start: i.start.Add(-before), end: i.end.Add(after)}
}

func (i Interval) In(loc *time.Location) Interval {
	return Interval{start: i.start.In(loc), end: i.end.In(loc)}
}

// ToTstzrange renders the interval as a PostgreSQL tstzrange literal.
func (i Interval) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", i.start.Format(time.RFC3339), i.end.Format(time.RFC3339))
}
