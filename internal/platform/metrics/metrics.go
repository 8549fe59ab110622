package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests      uint64
	errorRequests      uint64
	rateLimited        uint64
	totalDurationMs    uint64
	attendanceComputed uint64
	attendanceFailed   uint64
	allowancesApplied  uint64
	allowancesFailed   uint64
	ambiguousShifts    uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) AttendanceComputed(err error, ambiguous bool) {
	if c == nil {
		return
	}
	if err != nil {
		atomic.AddUint64(&c.attendanceFailed, 1)
		return
	}
	atomic.AddUint64(&c.attendanceComputed, 1)
	if ambiguous {
		atomic.AddUint64(&c.ambiguousShifts, 1)
	}
}

func (c *Collector) AllowancesApplied(err error) {
	if c == nil {
		return
	}
	if err != nil {
		atomic.AddUint64(&c.allowancesFailed, 1)
		return
	}
	atomic.AddUint64(&c.allowancesApplied, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":           total,
		"errorsTotal":             errs,
		"rateLimitedTotal":        limited,
		"avgDurationMs":           avg,
		"totalDurationMs":         totalMs,
		"attendanceComputedTotal": atomic.LoadUint64(&c.attendanceComputed),
		"attendanceFailedTotal":   atomic.LoadUint64(&c.attendanceFailed),
		"ambiguousShiftsTotal":    atomic.LoadUint64(&c.ambiguousShifts),
		"allowancesAppliedTotal":  atomic.LoadUint64(&c.allowancesApplied),
		"allowancesFailedTotal":   atomic.LoadUint64(&c.allowancesFailed),
	}
}
