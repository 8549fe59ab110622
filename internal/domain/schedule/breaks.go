package schedule

import (
	"sort"
	"time"

	"hrcredit/internal/domain/interval"
)

// MapBreaks places each break on date and clips it to shift. Breaks that do not
// overlap the shift are dropped. For shifts crossing midnight a break whose
// clock times fall after midnight is tried on the following day as well.
func MapBreaks(date time.Time, shift interval.Interval, defs []BreakDefinition) []MappedBreak {
	out := make([]MappedBreak, 0, len(defs))
	for _, def := range defs {
		raw, ok := interval.Normalize(date, def.StartTime, def.EndTime)
		if !ok {
			continue
		}
		clipped, ok := interval.Intersect(shift, raw)
		if !ok {
			next := interval.Interval{Start: raw.Start.Add(24 * time.Hour), End: raw.End.Add(24 * time.Hour)}
			if clipped, ok = interval.Intersect(shift, next); !ok {
				continue
			}
			raw = next
		}
		out = append(out, MappedBreak{Definition: def, Raw: raw, Clipped: clipped})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Clipped.Start.Before(out[j].Clipped.Start)
	})
	return out
}

func ClippedIntervals(breaks []MappedBreak) []interval.Interval {
	out := make([]interval.Interval, 0, len(breaks))
	for _, b := range breaks {
		out = append(out, b.Clipped)
	}
	return out
}
