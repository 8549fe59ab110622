package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"hrcredit/internal/domain/interval"
)

func (r Rule) Contains(minutes int) bool {
	if minutes < r.MinMinutes {
		return false
	}
	return r.MaxMinutes == nil || minutes <= *r.MaxMinutes
}

// Match returns the containing rule with the highest lower bound. When no rule
// contains minutes, the rule with the highest lower bound not above minutes is used.
func (t Tier) Match(minutes int) (Rule, bool) {
	var best, nearest *Rule
	for i := range t.Rules {
		r := &t.Rules[i]
		if r.MinMinutes > minutes {
			continue
		}
		if r.Contains(minutes) && (best == nil || r.MinMinutes > best.MinMinutes) {
			best = r
		}
		if nearest == nil || r.MinMinutes > nearest.MinMinutes {
			nearest = r
		}
	}
	if best != nil {
		return *best, true
	}
	if nearest != nil {
		return *nearest, true
	}
	return Rule{}, false
}

// Lookup returns the tier for blockIndex, or the shift-wide tier.
func (ts TierSet) Lookup(blockIndex int) (Tier, bool) {
	if t, ok := ts[blockIndex]; ok {
		return t, true
	}
	t, ok := ts[0]
	return t, ok
}

// governingPunch is the start of the first worked interval that either begins
// inside the block or begins within tolerance before it and runs past its start.
func governingPunch(block Block, worked []WorkedInterval, tolerance time.Duration) (time.Time, bool) {
	for _, w := range worked {
		if block.Contains(w.Start) {
			return w.Start, true
		}
		early := block.Start.Sub(w.Start)
		if early > 0 && early <= tolerance && w.End.After(block.Start) {
			return w.Start, true
		}
	}
	return time.Time{}, false
}

// anchor places a configured clock time on date, moving it a day forward when it
// would fall more than twelve hours before the block start.
func anchor(date time.Time, clock string, blockStart time.Time) (time.Time, bool) {
	t, ok := interval.ToInstant(date, clock)
	if !ok {
		return time.Time{}, false
	}
	if blockStart.Sub(t) > overnightWindow {
		t = t.Add(24 * time.Hour)
	}
	return t, true
}

func baseline(in LateInput, block Block) (time.Time, string) {
	if block.Index == 1 {
		if t, ok := anchor(in.Date, in.ShiftValidInEnd, block.Start); ok {
			return t, BaselineShiftValidIn
		}
		return block.Start.Add(in.Grace), BaselineDefaultGrace
	}
	if b := block.PrecedingBreak; b != nil && b.IsShiftSplit() {
		if t, ok := anchor(in.Date, b.Definition.ValidBreakInEnd, block.Start); ok {
			return t, BaselineSplitBreakValidIn
		}
		return b.Clipped.End, BaselineSplitBreakEnd
	}
	return block.Start.Add(in.Grace), BaselineDefaultGrace
}

func lateMinutes(punch, baseline time.Time) int {
	if !punch.After(baseline) {
		return 0
	}
	d := punch.Sub(baseline)
	return int((d + time.Minute - 1) / time.Minute)
}

// ApplyLateDeductions evaluates lateness per block and deducts the matched rule
// fractions from the day credit. The total deduction never exceeds one day.
func ApplyLateDeductions(in LateInput) LateResult {
	total := decimal.Zero
	res := LateResult{Blocks: make([]BlockResult, 0, len(in.Blocks))}

	for _, block := range in.Blocks {
		br := BlockResult{Index: block.Index, Start: block.Start, End: block.End, Deduction: decimal.Zero}

		punch, ok := governingPunch(block, in.Worked, in.EarlyTolerance)
		if !ok {
			br.Skipped = SkipNoPunch
			res.Blocks = append(res.Blocks, br)
			continue
		}
		if block.Start.Sub(punch) > overnightWindow {
			punch = punch.Add(24 * time.Hour)
		}
		base, source := baseline(in, block)
		br.Punch, br.Baseline, br.BaselineSource = &punch, &base, source
		br.LateMinutes = lateMinutes(punch, base)

		if br.LateMinutes > 0 {
			tier, ok := in.Tiers.Lookup(block.Index)
			if !ok {
				br.Skipped = SkipNoTier
				res.Blocks = append(res.Blocks, br)
				continue
			}
			br.TierID = tier.ID
			rule, ok := tier.Match(br.LateMinutes)
			if !ok {
				br.Skipped = SkipNoRule
				res.Blocks = append(res.Blocks, br)
				continue
			}
			br.RuleID = rule.ID
			br.Deduction = rule.DeductionFraction
			total = decimal.Min(one, total.Add(rule.DeductionFraction))
			res.LastRuleID = rule.ID
			res.RuleIDs = append(res.RuleIDs, rule.ID)
		}
		res.Blocks = append(res.Blocks, br)
	}

	res.TotalDeduction = total
	final := in.DayCredit.Sub(total).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}
	res.FinalDayCredit = final
	return res
}
