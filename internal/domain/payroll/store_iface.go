package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	GetPayroll(ctx context.Context, payrollID string) (Period, error)
	ListActiveAllowances(ctx context.Context, employeeID string, start, end time.Time) ([]Allowance, error)
	ListExceptions(ctx context.Context, payrollID, employeeID string) ([]Exception, error)
	// ReplaceJournal deletes the payroll's journal, inserts entries and writes the
	// total in one transaction.
	ReplaceJournal(ctx context.Context, payrollID string, entries []JournalEntry, total decimal.Decimal) error
	ListJournal(ctx context.Context, payrollID string) ([]JournalEntry, error)
}
