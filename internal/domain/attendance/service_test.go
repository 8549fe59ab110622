package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcredit/internal/domain/interval"
	"hrcredit/internal/domain/schedule"
)

type fakeResolver struct {
	resolution schedule.Resolution
	breaks     []schedule.BreakDefinition
	err        error
}

func (f *fakeResolver) Resolve(context.Context, string, time.Time) (schedule.Resolution, error) {
	return f.resolution, f.err
}

func (f *fakeResolver) Breaks(_ context.Context, shift schedule.ShiftDefinition, date time.Time) (interval.Interval, []schedule.MappedBreak, error) {
	span, _ := shift.Interval(date)
	return span, schedule.MapBreaks(date, span, f.breaks), nil
}

type fakeStore struct {
	tiers   TierSet
	records map[string]Record
	saves   int
	saveErr error
}

func key(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

func (f *fakeStore) TiersForShift(context.Context, string) (TierSet, error) {
	return f.tiers, nil
}

func (f *fakeStore) SaveRecord(_ context.Context, rec Record) (Record, error) {
	if f.saveErr != nil {
		return Record{}, f.saveErr
	}
	f.saves++
	if f.records == nil {
		f.records = map[string]Record{}
	}
	rec.ID = "rec-" + rec.EmployeeID
	f.records[key(rec.EmployeeID, rec.Date)] = rec
	return rec, nil
}

func (f *fakeStore) GetRecord(_ context.Context, employeeID string, date time.Time) (Record, error) {
	rec, ok := f.records[key(employeeID, date)]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func newTestService(store *fakeStore) *Service {
	resolver := &fakeResolver{
		resolution: schedule.Resolution{Shift: schedule.ShiftDefinition{
			ID: "day", StartTime: "08:00:00", EndTime: "17:00:00", ValidInEnd: "08:00:00",
		}},
		breaks: []schedule.BreakDefinition{lunch},
	}
	return NewService(store, resolver, Options{GraceMinutes: 5, EarlyPunchToleranceMinutes: 30})
}

func TestComputeStoresDeduction(t *testing.T) {
	store := &fakeStore{tiers: standardTiers()}
	svc := newTestService(store)

	res, err := svc.Compute(context.Background(), ComputeRequest{
		Date:         workDay.Add(15 * time.Hour),
		EmployeeID:   "emp-1",
		EmployeeName: "Ana Cruz",
		Punches:      Punches{MorningIn: "09:30", MorningOut: "12:00", AfternoonIn: "13:00", AfternoonOut: "17:00"},
	})
	require.NoError(t, err)

	assert.True(t, dec("0.81").Equal(res.DayCreditBefore))
	assert.True(t, dec("0.31").Equal(res.DayCreditAfter))
	assert.Equal(t, workDay, res.Record.Date)
	assert.Equal(t, "day", res.Record.ShiftID)
	assert.Equal(t, int64(60), res.Record.AppliedBreakMinutes)
	assert.Equal(t, int64(480), res.Record.NetCreditableMinutes)
	assert.True(t, dec("390").Equal(res.Record.ActualRenderedMinutes))
	require.True(t, res.Record.LateDeductionFraction.Valid)
	assert.True(t, dec("0.5").Equal(res.Record.LateDeductionFraction.Decimal))
	assert.True(t, dec("0.5").Equal(res.Record.LateDeductionDays.Decimal))
	assert.Equal(t, "r-61-120", res.Record.LateRuleID)
	assert.Equal(t, []string{"r-61-120"}, res.Record.LateRuleIDs)
}

func TestComputeRecordsZeroFractionRule(t *testing.T) {
	store := &fakeStore{tiers: standardTiers()}
	svc := newTestService(store)

	res, err := svc.Compute(context.Background(), ComputeRequest{
		Date:       workDay,
		EmployeeID: "emp-2",
		Punches:    Punches{MorningIn: "08:05", MorningOut: "12:00", AfternoonIn: "13:00", AfternoonOut: "17:00"},
	})
	require.NoError(t, err)

	assert.True(t, dec("0.99").Equal(res.DayCreditAfter))
	require.True(t, res.Record.LateDeductionFraction.Valid)
	assert.True(t, res.Record.LateDeductionFraction.Decimal.IsZero())
	require.True(t, res.Record.LateDeductionDays.Valid)
	assert.True(t, res.Record.LateDeductionDays.Decimal.IsZero())
	assert.Equal(t, "r-1-10", res.Record.LateRuleID)
	assert.Equal(t, []string{"r-1-10"}, res.Record.LateRuleIDs)
}

func TestRecomputeOverwritesLateFields(t *testing.T) {
	store := &fakeStore{tiers: standardTiers()}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Compute(ctx, ComputeRequest{Date: workDay, EmployeeID: "emp-1",
		Punches: Punches{MorningIn: "09:30", MorningOut: "12:00", AfternoonIn: "13:00", AfternoonOut: "17:00"}})
	require.NoError(t, err)

	res, err := svc.Compute(ctx, ComputeRequest{Date: workDay, EmployeeID: "emp-1",
		Punches: Punches{MorningIn: "08:00", MorningOut: "12:00", AfternoonIn: "13:00", AfternoonOut: "17:00"}})
	require.NoError(t, err)
	assert.False(t, res.Record.LateDeductionFraction.Valid)
	assert.Empty(t, res.Record.LateRuleIDs)

	stored, err := svc.Get(ctx, "emp-1", workDay)
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(stored.DayCredit))
	assert.False(t, stored.LateDeductionFraction.Valid)
	assert.Equal(t, 2, store.saves)
}

func TestComputeValidatesBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeResolver{err: errors.New("must not be called")}, Options{})

	_, err := svc.Compute(context.Background(), ComputeRequest{Date: workDay})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Compute(context.Background(), ComputeRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, 0, store.saves)
}

func TestComputePropagatesResolverError(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeResolver{err: schedule.ErrNoShift}, Options{})
	_, err := svc.Compute(context.Background(), ComputeRequest{Date: workDay, EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, schedule.ErrNoShift)
}

func TestComputeSurfacesPersistenceFailure(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newTestService(&fakeStore{tiers: standardTiers(), saveErr: boom})
	_, err := svc.Compute(context.Background(), ComputeRequest{Date: workDay, EmployeeID: "emp-1",
		Punches: Punches{MorningIn: "08:00", MorningOut: "12:00"}})
	assert.ErrorIs(t, err, boom)
}

func TestGetMissingRecord(t *testing.T) {
	_, err := newTestService(&fakeStore{}).Get(context.Background(), "emp-9", workDay)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
