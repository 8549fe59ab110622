package attendancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcredit/internal/domain/attendance"
	"hrcredit/internal/domain/schedule"
	"hrcredit/internal/platform/metrics"
)

type fakeService struct {
	got     attendance.ComputeRequest
	result  attendance.ComputeResult
	record  attendance.Record
	err     error
	getDate time.Time
}

func (f *fakeService) Compute(_ context.Context, req attendance.ComputeRequest) (attendance.ComputeResult, error) {
	f.got = req
	return f.result, f.err
}

func (f *fakeService) Get(_ context.Context, _ string, date time.Time) (attendance.Record, error) {
	f.getDate = date
	return f.record, f.err
}

type auditCall struct {
	action   string
	entityID string
}

type fakeAuditor struct {
	calls []auditCall
	err   error
}

func (f *fakeAuditor) Record(_ context.Context, _, action, _, entityID, _, _ string, _, _ any) error {
	f.calls = append(f.calls, auditCall{action: action, entityID: entityID})
	return f.err
}

type fakeRunner struct {
	jobType string
	subject string
}

func (f *fakeRunner) RunNow(ctx context.Context, jobType, subjectID string, run func(context.Context) (any, error)) (any, error) {
	f.jobType = jobType
	f.subject = subjectID
	return run(ctx)
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestComputeSuccess(t *testing.T) {
	svc := &fakeService{result: attendance.ComputeResult{
		Record:          attendance.Record{ID: "rec-1", EmployeeID: "E1"},
		DayCreditBefore: decimal.RequireFromString("1"),
		DayCreditAfter:  decimal.RequireFromString("0.9"),
		Resolution:      schedule.Resolution{Ambiguous: true},
	}}
	auditor := &fakeAuditor{}
	runner := &fakeRunner{}
	collector := metrics.New()
	router := newRouter(NewHandler(svc, auditor, runner, collector))

	body := `{"date":"2025-03-03","employeeId":"E1","employeeName":"Ana","morningIn":"08:20","morningOut":"12:00","afternoonIn":"13:00","afternoonOut":"17:00"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/compute", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env["success"])
	data := env["data"].(map[string]any)
	assert.Equal(t, "0.9", data["dayCreditAfter"])

	assert.Equal(t, "E1", svc.got.EmployeeID)
	assert.Equal(t, "08:20", svc.got.Punches.MorningIn)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), svc.got.Date)
	assert.Equal(t, "attendance_compute", runner.jobType)
	assert.Equal(t, "E1@2025-03-03", runner.subject)
	require.Len(t, auditor.calls, 1)
	assert.Equal(t, "rec-1", auditor.calls[0].entityID)

	snap := collector.Snapshot()
	assert.EqualValues(t, 1, snap["attendanceComputedTotal"])
	assert.EqualValues(t, 1, snap["ambiguousShiftsTotal"])
}

func TestComputeValidation(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(NewHandler(svc, nil, nil, nil))

	body := `{"date":"03/03/2025","morningIn":"8h"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/compute", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	errBody := env["error"].(map[string]any)
	assert.Equal(t, "validation_error", errBody["code"])
	fields := errBody["details"].(map[string]any)["fields"].([]any)
	var names []string
	for _, f := range fields {
		names = append(names, f.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"date", "employeeId", "morningIn"}, names)
	assert.Empty(t, svc.got.EmployeeID)
}

func TestComputeRejectsUnknownFields(t *testing.T) {
	router := newRouter(NewHandler(&fakeService{}, nil, nil, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/compute", strings.NewReader(`{"date":"2025-03-03","employeeId":"E1","overtime":true}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputeErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "no shift", err: schedule.ErrNoShift, want: http.StatusNotFound},
		{name: "shift missing", err: schedule.ErrShiftNotFound, want: http.StatusNotFound},
		{name: "invalid", err: attendance.ErrInvalidRequest, want: http.StatusBadRequest},
		{name: "storage", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auditor := &fakeAuditor{}
			collector := metrics.New()
			router := newRouter(NewHandler(&fakeService{err: tc.err}, auditor, nil, collector))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/compute", strings.NewReader(`{"date":"2025-03-03","employeeId":"E1"}`)))
			assert.Equal(t, tc.want, rec.Code)
			assert.Empty(t, auditor.calls)
			assert.EqualValues(t, 1, collector.Snapshot()["attendanceFailedTotal"])
		})
	}
}

func TestComputeAuditFailureIsNotFatal(t *testing.T) {
	svc := &fakeService{result: attendance.ComputeResult{Record: attendance.Record{ID: "rec-1"}}}
	router := newRouter(NewHandler(svc, &fakeAuditor{err: errors.New("audit down")}, nil, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/compute", strings.NewReader(`{"date":"2025-03-03","employeeId":"E1"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRecord(t *testing.T) {
	svc := &fakeService{record: attendance.Record{ID: "rec-1", EmployeeID: "E1"}}
	router := newRouter(NewHandler(svc, nil, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/E1/2025-03-03", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), svc.getDate)

	svc.err = attendance.ErrRecordNotFound
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/E1/2025-03-04", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/E1/yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
