package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

var sundayOff = []time.Weekday{time.Sunday}

// First half of March 2025: fifteen days, two of them Sundays.
func semiMonthlyPeriod() Period {
	return Period{
		ID:          "pay-1",
		EmployeeID:  "emp-1",
		StartDate:   d(2025, 3, 1),
		EndDate:     d(2025, 3, 15),
		Cadence:     CadenceSemiMonthly,
		BasicSalary: dec("20000"),
		TotalDays:   dec("10"),
	}
}

func TestMonthlyAllowanceOnSemiMonthlyPayrollProrated(t *testing.T) {
	period := semiMonthlyPeriod()
	allowances := []Allowance{
		{ID: "a1", Name: "Rice", Amount: dec("1000"), AmountType: AmountFixed, Frequency: CadenceMonthly},
		{ID: "a2", Name: "Transport", Amount: dec("1000"), AmountType: AmountFixed, Frequency: CadenceMonthly, ProrateIfPartial: true},
	}

	comp := ComputeAllowances(period, allowances, nil, sundayOff)
	assert.Equal(t, 13, comp.DaysInRange)
	require.Len(t, comp.Entries, 2)
	assert.True(t, dec("500.00").Equal(comp.Entries[0].Amount), comp.Entries[0].Amount.String())
	assert.True(t, dec("384.62").Equal(comp.Entries[1].Amount), comp.Entries[1].Amount.String())
	assert.True(t, dec("884.62").Equal(comp.Total))
	assert.Equal(t, "pay-1", comp.Entries[1].PayrollID)
	assert.Equal(t, period.StartDate, comp.Entries[1].StartDate)
}

func TestPercentAllowanceDoubledForMonthlyPayroll(t *testing.T) {
	period := Period{ID: "pay-2", EmployeeID: "emp-1", StartDate: d(2025, 3, 1), EndDate: d(2025, 3, 31),
		Cadence: CadenceMonthly, BasicSalary: dec("20000"), TotalDays: dec("26")}
	allowances := []Allowance{{ID: "a1", Name: "COLA", Amount: dec("10"), AmountType: AmountPercent,
		PercentOf: PercentOfBasicSalary, Frequency: CadenceSemiMonthly}}

	comp := ComputeAllowances(period, allowances, nil, sundayOff)
	require.Len(t, comp.Entries, 1)
	assert.True(t, dec("4000.00").Equal(comp.Entries[0].Amount))
	assert.True(t, dec("4000.00").Equal(comp.Total))
}

func TestUnsupportedPercentBaseFallsBackToBasicSalary(t *testing.T) {
	a := Allowance{ID: "a1", Amount: dec("5"), AmountType: AmountPercent, PercentOf: "gross_pay"}
	assert.True(t, dec("1000").Equal(BaseAmount(a, dec("20000"))))
}

func TestEmployeeExceptionSuppressesEverything(t *testing.T) {
	period := semiMonthlyPeriod()
	allowances := []Allowance{
		{ID: "a1", Name: "Rice", Amount: dec("1000"), AmountType: AmountFixed, Frequency: CadenceMonthly},
		{ID: "a2", Name: "Transport", Amount: dec("800"), AmountType: AmountFixed, Frequency: CadenceSemiMonthly},
	}
	exceptions := []Exception{
		{PayrollID: "pay-1", EmployeeID: "emp-1", AllowanceID: "a1"},
		{PayrollID: "pay-1", EmployeeID: "emp-1"},
	}

	comp := ComputeAllowances(period, allowances, exceptions, sundayOff)
	assert.Empty(t, comp.Entries)
	assert.True(t, comp.Total.IsZero())
	require.Len(t, comp.Skipped, 2)
	for _, s := range comp.Skipped {
		assert.Equal(t, SkipEmployeeException, s.Reason)
	}
}

func TestAllowanceExceptionSuppressesOnlyThatAllowance(t *testing.T) {
	period := semiMonthlyPeriod()
	allowances := []Allowance{
		{ID: "a1", Amount: dec("1000"), AmountType: AmountFixed, Frequency: CadenceMonthly},
		{ID: "a2", Amount: dec("800"), AmountType: AmountFixed, Frequency: CadenceSemiMonthly},
	}
	exceptions := []Exception{
		{PayrollID: "pay-1", EmployeeID: "emp-1", AllowanceID: "a1"},
		{PayrollID: "other", EmployeeID: "emp-1"},
	}

	comp := ComputeAllowances(period, allowances, exceptions, sundayOff)
	require.Len(t, comp.Entries, 1)
	assert.Equal(t, "a2", comp.Entries[0].AllowanceID)
	assert.Equal(t, []Skipped{{AllowanceID: "a1", Reason: SkipAllowanceException}}, comp.Skipped)
}

func TestNonPositiveAmountsAreDropped(t *testing.T) {
	period := semiMonthlyPeriod()
	period.TotalDays = decimal.Zero
	allowances := []Allowance{
		{ID: "a1", Amount: dec("1000"), AmountType: AmountFixed, Frequency: CadenceMonthly, ProrateIfPartial: true},
		{ID: "a2", Amount: dec("0.004"), AmountType: AmountFixed, Frequency: CadenceSemiMonthly},
	}

	comp := ComputeAllowances(period, allowances, nil, sundayOff)
	assert.Empty(t, comp.Entries)
	require.Len(t, comp.Skipped, 2)
	assert.Equal(t, SkipNonPositive, comp.Skipped[0].Reason)
	assert.True(t, comp.Total.IsZero())
}

func TestProrationSkippedWhenRangeHasNoWorkingDays(t *testing.T) {
	period := Period{ID: "p", EmployeeID: "e", StartDate: d(2025, 3, 2), EndDate: d(2025, 3, 2),
		Cadence: CadenceMonthly, TotalDays: dec("0")}
	comp := ComputeAllowances(period, []Allowance{{ID: "a", Amount: dec("300"), AmountType: AmountFixed,
		Frequency: CadenceMonthly, ProrateIfPartial: true}}, nil, sundayOff)

	assert.Equal(t, 0, comp.DaysInRange)
	require.Len(t, comp.Entries, 1)
	assert.True(t, dec("300").Equal(comp.Entries[0].Amount))
}

func TestCadenceRoundTrip(t *testing.T) {
	for _, amount := range []string{"1000", "999.99", "0.01", "12345.67"} {
		base := dec(amount)
		half := round2(ConvertCadence(base, CadenceMonthly, CadenceSemiMonthly))
		back := round2(ConvertCadence(half, CadenceSemiMonthly, CadenceMonthly))
		assert.True(t, back.Sub(base).Abs().LessThanOrEqual(dec("0.01")), "%s -> %s -> %s", base, half, back)
	}
	assert.True(t, dec("100").Equal(ConvertCadence(dec("100"), CadenceMonthly, CadenceMonthly)))
	assert.True(t, dec("100").Equal(ConvertCadence(dec("100"), CadenceSemiMonthly, CadenceSemiMonthly)))
}

func TestDaysInRange(t *testing.T) {
	assert.Equal(t, 31, DaysInRange(d(2025, 3, 1), d(2025, 3, 31), nil))
	assert.Equal(t, 26, DaysInRange(d(2025, 3, 1), d(2025, 3, 31), sundayOff))
	assert.Equal(t, 21, DaysInRange(d(2025, 3, 1), d(2025, 3, 31), []time.Weekday{time.Saturday, time.Sunday}))
	assert.Equal(t, 0, DaysInRange(d(2025, 3, 2), d(2025, 3, 1), nil))
}

func TestParseEnums(t *testing.T) {
	c, err := ParseCadence("Semi-Monthly")
	require.NoError(t, err)
	assert.Equal(t, CadenceSemiMonthly, c)
	_, err = ParseCadence("weekly")
	assert.ErrorIs(t, err, ErrInvalidCadence)

	a, err := ParseAmountType("PERCENT")
	require.NoError(t, err)
	assert.Equal(t, AmountPercent, a)
	_, err = ParseAmountType("formula")
	assert.ErrorIs(t, err, ErrInvalidAmountType)
}
