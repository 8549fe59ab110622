package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	TiersForShift(ctx context.Context, shiftID string) (TierSet, error)
	// SaveRecord upserts the record and rewrites its late-deduction fields in one
	// transaction.
	SaveRecord(ctx context.Context, rec Record) (Record, error)
	GetRecord(ctx context.Context, employeeID string, date time.Time) (Record, error)
}
