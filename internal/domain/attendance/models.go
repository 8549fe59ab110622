package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"hrcredit/internal/domain/interval"
	"hrcredit/internal/domain/schedule"
)

// Punches holds wall-clock times as submitted by the employee or device. Empty
// strings and 00:00 mean not punched.
type Punches struct {
	MorningIn    string `json:"morningIn"`
	MorningOut   string `json:"morningOut"`
	AfternoonIn  string `json:"afternoonIn"`
	AfternoonOut string `json:"afternoonOut"`
}

type WorkedInterval struct {
	Segment string `json:"segment"`
	interval.Interval
}

type Credit struct {
	Shift               interval.Interval   `json:"shift"`
	Creditable          []interval.Interval `json:"creditable"`
	AppliedBreakMinutes int64               `json:"appliedBreakMinutes"`
	CreditBasisMinutes  int64               `json:"creditBasisMinutes"`
	RenderedSeconds     int64               `json:"renderedSeconds"`
	DayCreditFraction   decimal.Decimal     `json:"dayCreditFraction"`
}

func (c Credit) RenderedMinutes() decimal.Decimal {
	return decimal.NewFromInt(c.RenderedSeconds).Div(decimal.NewFromInt(60)).Round(2)
}

// Block is one creditable interval, 1-indexed. PrecedingBreak is the break that
// ends at or before the block start, if any.
type Block struct {
	Index int `json:"index"`
	interval.Interval
	PrecedingBreak *schedule.MappedBreak `json:"precedingBreak,omitempty"`
}

type Rule struct {
	ID                string          `json:"id"`
	TierID            string          `json:"tierId"`
	MinMinutes        int             `json:"minMinutes"`
	MaxMinutes        *int            `json:"maxMinutes,omitempty"`
	DeductionFraction decimal.Decimal `json:"deductionFraction"`
}

type Tier struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BlockIndex int    `json:"blockIndex"`
	Rules      []Rule `json:"rules"`
}

// TierSet maps a block index to the tier assigned for it. Index 0 holds the
// shift-wide tier.
type TierSet map[int]Tier

type BlockResult struct {
	Index          int             `json:"index"`
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	Punch          *time.Time      `json:"punch,omitempty"`
	Baseline       *time.Time      `json:"baseline,omitempty"`
	BaselineSource string          `json:"baselineSource,omitempty"`
	LateMinutes    int             `json:"lateMinutes"`
	TierID         string          `json:"tierId,omitempty"`
	RuleID         string          `json:"ruleId,omitempty"`
	Deduction      decimal.Decimal `json:"deduction"`
	Skipped        string          `json:"skipped,omitempty"`
}

type LateInput struct {
	Date            time.Time
	Blocks          []Block
	Worked          []WorkedInterval
	ShiftValidInEnd string
	Tiers           TierSet
	DayCredit       decimal.Decimal
	Grace           time.Duration
	EarlyTolerance  time.Duration
}

type LateResult struct {
	Blocks         []BlockResult   `json:"blocks"`
	TotalDeduction decimal.Decimal `json:"totalDeduction"`
	FinalDayCredit decimal.Decimal `json:"finalDayCredit"`
	LastRuleID     string          `json:"lastRuleId,omitempty"`
	RuleIDs        []string        `json:"ruleIds,omitempty"`
}

type ComputeRequest struct {
	Date         time.Time
	EmployeeID   string
	EmployeeName string
	Punches      Punches
}

type Record struct {
	ID                    string              `json:"id"`
	EmployeeID            string              `json:"employeeId"`
	EmployeeName          string              `json:"employeeName"`
	Date                  time.Time           `json:"date"`
	ShiftID               string              `json:"shiftId"`
	Punches               Punches             `json:"punches"`
	AppliedBreakMinutes   int64               `json:"appliedBreakMinutes"`
	NetCreditableMinutes  int64               `json:"netCreditableMinutes"`
	ActualRenderedMinutes decimal.Decimal     `json:"actualRenderedMinutes"`
	DayCreditBefore       decimal.Decimal     `json:"dayCreditBefore"`
	DayCredit             decimal.Decimal     `json:"dayCredit"`
	LateDeductionFraction decimal.NullDecimal `json:"lateDeductionFraction"`
	LateDeductionDays     decimal.NullDecimal `json:"lateDeductionDays"`
	LateRuleID            string              `json:"lateRuleId,omitempty"`
	LateRuleIDs           []string            `json:"lateRuleIds,omitempty"`
	CreatedAt             time.Time           `json:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt"`
}

type ComputeResult struct {
	Record          Record              `json:"record"`
	Resolution      schedule.Resolution `json:"resolution"`
	Credit          Credit              `json:"credit"`
	Blocks          []BlockResult       `json:"blocks"`
	DayCreditBefore decimal.Decimal     `json:"dayCreditBefore"`
	DayCreditAfter  decimal.Decimal     `json:"dayCreditAfter"`
}
