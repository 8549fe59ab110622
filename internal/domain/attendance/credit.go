package attendance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"hrcredit/internal/domain/interval"
	"hrcredit/internal/domain/schedule"
)

// WorkedIntervals turns punch pairs into intervals on date. A pair missing either
// side contributes nothing.
func WorkedIntervals(date time.Time, p Punches) []WorkedInterval {
	pairs := []struct {
		segment string
		in, out string
	}{
		{SegmentMorning, p.MorningIn, p.MorningOut},
		{SegmentAfternoon, p.AfternoonIn, p.AfternoonOut},
	}
	out := make([]WorkedInterval, 0, len(pairs))
	for _, pair := range pairs {
		span, ok := interval.Normalize(date, pair.in, pair.out)
		if !ok {
			continue
		}
		out = append(out, WorkedInterval{Segment: pair.segment, Interval: span})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// AlignToShift moves worked intervals that start more than twelve hours before the
// shift onto the following day, so after-midnight punches line up with overnight
// shifts.
func AlignToShift(shift interval.Interval, worked []WorkedInterval) []WorkedInterval {
	out := make([]WorkedInterval, 0, len(worked))
	for _, w := range worked {
		if shift.Start.Sub(w.Start) > overnightWindow {
			w.Start = w.Start.Add(24 * time.Hour)
			w.End = w.End.Add(24 * time.Hour)
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

var one = decimal.NewFromInt(1)

func ComputeCredit(shift interval.Interval, breaks []schedule.MappedBreak, worked []WorkedInterval) Credit {
	creditable := interval.SubtractAll(shift, schedule.ClippedIntervals(breaks))
	creditableSeconds := interval.TotalSeconds(creditable)

	basis := creditableSeconds / 60
	if basis < 1 {
		basis = 1
	}

	var rendered int64
	for _, w := range worked {
		for _, c := range creditable {
			rendered += interval.OverlapSeconds(w.Interval, c)
		}
	}

	fraction := decimal.NewFromInt(rendered).Div(decimal.NewFromInt(basis * 60))
	if fraction.GreaterThan(one) {
		fraction = one
	}
	if fraction.IsNegative() {
		fraction = decimal.Zero
	}

	return Credit{
		Shift:               shift,
		Creditable:          creditable,
		AppliedBreakMinutes: (shift.Seconds() - creditableSeconds) / 60,
		CreditBasisMinutes:  basis,
		RenderedSeconds:     rendered,
		DayCreditFraction:   fraction.Round(2),
	}
}
