package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidClock = errors.New("invalid clock time, expected HH:MM")

// MinuteOfDay is a clock position as minutes from midnight, 0..1440.
type MinuteOfDay int

const EndOfDay MinuteOfDay = 24 * 60

// ParseClock parses "HH:MM" into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidClock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidClock
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidClock
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, ErrInvalidClock
	}
	return MinuteOfDay(hour*60 + minute), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m <= EndOfDay
}

// At anchors the clock position on a calendar date in the given location.
func (m MinuteOfDay) At(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, int(m)/60, int(m)%60, 0, 0, loc)
}

// Span is a half-open [From, To) range of clock minutes within one day.
type Span struct {
	From MinuteOfDay
	To   MinuteOfDay
}

func (s Span) IsZero() bool {
	return s.From == 0 && s.To == 0
}

func (s Span) Contains(m MinuteOfDay) bool {
	return m >= s.From && m < s.To
}

// Subtract removes hole from s, yielding zero, one or two remaining spans.
func (s Span) Subtract(hole Span) []Span {
	if hole.To <= s.From || hole.From >= s.To {
		return []Span{s}
	}
	var out []Span
	if hole.From > s.From {
		out = append(out, Span{From: s.From, To: hole.From})
	}
	if hole.To < s.To {
		out = append(out, Span{From: hole.To, To: s.To})
	}
	return out
}

// Weekday follows the scheduling convention: 0 = Monday .. 6 = Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts a calendar date to the Monday-based weekday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}
