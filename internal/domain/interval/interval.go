package interval

import (
	"sort"
	"strings"
	"time"
)

// Interval is a half-open span [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Seconds() int64 {
	if !i.End.After(i.Start) {
		return 0
	}
	return int64(i.End.Sub(i.Start) / time.Second)
}

func (i Interval) Minutes() int64 {
	return i.Seconds() / 60
}

func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

var clockLayouts = []string{"15:04:05", "15:04"}

// ToInstant combines a calendar date with a wall-clock time of day. Empty values and
// the 00:00 sentinel mean "not punched" / "not configured".
func ToInstant(date time.Time, clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" || clock == "00:00" || clock == "00:00:00" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		parsed, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), parsed.Second(), 0, date.Location()), true
	}
	return time.Time{}, false
}

// Normalize builds [start, end) on the given date, rolling end into the next day when
// it does not come after start.
func Normalize(date time.Time, start, end string) (Interval, bool) {
	s, ok := ToInstant(date, start)
	if !ok {
		return Interval{}, false
	}
	e, ok := ToInstant(date, end)
	if !ok {
		return Interval{}, false
	}
	if !e.After(s) {
		e = e.Add(24 * time.Hour)
	}
	return Interval{Start: s, End: e}, true
}

func OverlapSeconds(a, b Interval) int64 {
	overlap, ok := Intersect(a, b)
	if !ok {
		return 0
	}
	return overlap.Seconds()
}

func Intersect(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Subtract removes sub from every interval, keeping the left and right remainders.
func Subtract(intervals []Interval, sub Interval) []Interval {
	out := make([]Interval, 0, len(intervals)+1)
	for _, in := range intervals {
		if _, ok := Intersect(in, sub); !ok {
			out = append(out, in)
			continue
		}
		if sub.Start.After(in.Start) {
			out = append(out, Interval{Start: in.Start, End: sub.Start})
		}
		if sub.End.Before(in.End) {
			out = append(out, Interval{Start: sub.End, End: in.End})
		}
	}
	return out
}

func SubtractAll(base Interval, subs []Interval) []Interval {
	out := []Interval{base}
	for _, sub := range subs {
		out = Subtract(out, sub)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func TotalSeconds(intervals []Interval) int64 {
	var total int64
	for _, in := range intervals {
		total += in.Seconds()
	}
	return total
}
