package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Period struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employeeId"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Cadence         Cadence         `json:"cadence"`
	BasicSalary     decimal.Decimal `json:"basicSalary"`
	TotalDays       decimal.Decimal `json:"totalDays"`
	TotalAllowances decimal.Decimal `json:"totalAllowances"`
}

type Allowance struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employeeId"`
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	AmountType       AmountType      `json:"amountType"`
	PercentOf        string          `json:"percentOf,omitempty"`
	Frequency        Cadence         `json:"frequency"`
	ProrateIfPartial bool            `json:"prorateIfPartial"`
	ActiveFrom       *time.Time      `json:"activeFrom,omitempty"`
	ActiveTo         *time.Time      `json:"activeTo,omitempty"`
}

// Exception suppresses allowances for one employee in one payroll. An empty
// AllowanceID suppresses all of them.
type Exception struct {
	ID          string `json:"id"`
	PayrollID   string `json:"payrollId"`
	EmployeeID  string `json:"employeeId"`
	AllowanceID string `json:"allowanceId,omitempty"`
}

type JournalEntry struct {
	ID          string          `json:"id,omitempty"`
	PayrollID   string          `json:"payrollId"`
	AllowanceID string          `json:"allowanceId"`
	EmployeeID  string          `json:"employeeId"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Note        string          `json:"note"`
}

type Skipped struct {
	AllowanceID string `json:"allowanceId"`
	Name        string `json:"name"`
	Reason      string `json:"reason"`
}

type Computation struct {
	Entries     []JournalEntry  `json:"entries"`
	Skipped     []Skipped       `json:"skipped"`
	Total       decimal.Decimal `json:"total"`
	DaysInRange int             `json:"daysInRange"`
}

type ApplyResult struct {
	PayrollID       string          `json:"payrollId"`
	TotalAllowances decimal.Decimal `json:"totalAllowances"`
	DaysInRange     int             `json:"daysInRange"`
	Entries         []JournalEntry  `json:"entries"`
	Skipped         []Skipped       `json:"skipped"`
}
