package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcredit/internal/domain/interval"
)

func TestMapBreaksClipsAndOrders(t *testing.T) {
	day := date(2025, 3, 10)
	shift, ok := interval.Normalize(day, "08:00", "17:00")
	require.True(t, ok)

	breaks := MapBreaks(day, shift, []BreakDefinition{
		{ID: "coffee", StartTime: "15:00", EndTime: "15:15"},
		{ID: "lunch", StartTime: "12:00", EndTime: "13:00", IsShiftSplit: true},
		{ID: "early", StartTime: "07:30", EndTime: "08:15"},
		{ID: "outside", StartTime: "18:00", EndTime: "19:00"},
		{ID: "unset", StartTime: "", EndTime: "10:00"},
	})

	require.Len(t, breaks, 3)
	assert.Equal(t, "early", breaks[0].Definition.ID)
	assert.Equal(t, shift.Start, breaks[0].Clipped.Start)
	assert.Equal(t, day.Add(7*time.Hour+30*time.Minute), breaks[0].Raw.Start)
	assert.Equal(t, "lunch", breaks[1].Definition.ID)
	assert.True(t, breaks[1].IsShiftSplit())
	assert.Equal(t, "coffee", breaks[2].Definition.ID)
}

func TestMapBreaksOvernightShift(t *testing.T) {
	day := date(2025, 3, 10)
	shift, ok := interval.Normalize(day, "22:00", "06:00")
	require.True(t, ok)

	breaks := MapBreaks(day, shift, []BreakDefinition{{ID: "meal", StartTime: "02:00", EndTime: "02:30"}})
	require.Len(t, breaks, 1)
	assert.Equal(t, day.Add(26*time.Hour), breaks[0].Clipped.Start)
	assert.Equal(t, int64(30), breaks[0].Clipped.Minutes())
}
