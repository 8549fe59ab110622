package payroll

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ConvertCadence restates an amount configured for one cadence as the amount due
// for a payroll of another cadence.
func ConvertCadence(amount decimal.Decimal, from, to Cadence) decimal.Decimal {
	switch {
	case from == CadenceMonthly && to == CadenceSemiMonthly:
		return amount.Div(two)
	case from == CadenceSemiMonthly && to == CadenceMonthly:
		return amount.Mul(two)
	}
	return amount
}

// BaseAmount resolves the allowance amount before cadence conversion. Percent
// allowances are always taken of the basic salary.
func BaseAmount(a Allowance, basicSalary decimal.Decimal) decimal.Decimal {
	switch a.AmountType {
	case AmountFixed:
		return a.Amount
	case AmountPercent:
		if a.PercentOf != "" && a.PercentOf != PercentOfBasicSalary {
			slog.Warn("unsupported percent base, using basic salary", "allowanceId", a.ID, "percentOf", a.PercentOf)
		}
		return basicSalary.Mul(a.Amount).Div(hundred)
	}
	return decimal.Zero
}

// DaysInRange counts the calendar days from start to end inclusive, leaving out
// the non-working weekdays.
func DaysInRange(start, end time.Time, nonWorking []time.Weekday) int {
	skip := make(map[time.Weekday]bool, len(nonWorking))
	for _, d := range nonWorking {
		skip[d] = true
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	count := 0
	for !day.After(last) {
		if !skip[day.Weekday()] {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

func ComputeAllowances(period Period, allowances []Allowance, exceptions []Exception, nonWorking []time.Weekday) Computation {
	employeeExcluded := false
	excluded := make(map[string]bool)
	for _, ex := range exceptions {
		if ex.PayrollID != period.ID || ex.EmployeeID != period.EmployeeID {
			continue
		}
		if ex.AllowanceID == "" {
			employeeExcluded = true
			continue
		}
		excluded[ex.AllowanceID] = true
	}

	ordered := append([]Allowance(nil), allowances...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})

	days := DaysInRange(period.StartDate, period.EndDate, nonWorking)
	comp := Computation{Entries: []JournalEntry{}, Skipped: []Skipped{}, Total: decimal.Zero, DaysInRange: days}

	for _, a := range ordered {
		if employeeExcluded {
			comp.Skipped = append(comp.Skipped, Skipped{AllowanceID: a.ID, Name: a.Name, Reason: SkipEmployeeException})
			continue
		}
		if excluded[a.ID] {
			comp.Skipped = append(comp.Skipped, Skipped{AllowanceID: a.ID, Name: a.Name, Reason: SkipAllowanceException})
			continue
		}

		amount := round2(ConvertCadence(BaseAmount(a, period.BasicSalary), a.Frequency, period.Cadence))
		note := fmt.Sprintf("%s: %s allowance on %s payroll", a.Name, a.Frequency, period.Cadence)
		if a.ProrateIfPartial && days > 0 {
			amount = round2(amount.Mul(period.TotalDays).Div(decimal.NewFromInt(int64(days))))
			note += fmt.Sprintf(", prorated %s/%d days", period.TotalDays.String(), days)
		}
		if !amount.IsPositive() {
			comp.Skipped = append(comp.Skipped, Skipped{AllowanceID: a.ID, Name: a.Name, Reason: SkipNonPositive})
			continue
		}

		comp.Entries = append(comp.Entries, JournalEntry{
			PayrollID:   period.ID,
			AllowanceID: a.ID,
			EmployeeID:  period.EmployeeID,
			Amount:      amount,
			StartDate:   period.StartDate,
			EndDate:     period.EndDate,
			Note:        note,
		})
		comp.Total = comp.Total.Add(amount)
	}
	comp.Total = round2(comp.Total)
	return comp
}
