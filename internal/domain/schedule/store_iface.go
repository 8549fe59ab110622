package schedule

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListAssignments(ctx context.Context, employeeID string, date time.Time) ([]Assignment, error)
	GetShift(ctx context.Context, shiftID string) (ShiftDefinition, error)
	DefaultShift(ctx context.Context) (ShiftDefinition, error)
	ListBreaksForShift(ctx context.Context, shiftID string) ([]BreakDefinition, error)
}
