package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotAt(seq int, due time.Time) domain.ScheduledSlot {
	return domain.ScheduledSlot{Title: "Session", DueAt: due, DurationMinutes: 30, Seq: seq}
}

func TestValidateSchedule_Valid(t *testing.T) {
	report := ValidateSchedule(BuildSchedule(mwfFields(), fixedNow), fixedNow)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Errors)
}

func TestValidateSchedule_Empty(t *testing.T) {
	report := ValidateSchedule(nil, fixedNow)
	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
}

func TestValidateSchedule_DuplicateDueAt(t *testing.T) {
	due := fixedNow.Add(48 * time.Hour)
	report := ValidateSchedule([]domain.ScheduledSlot{slotAt(1, due), slotAt(2, due)}, fixedNow)

	assert.False(t, report.IsValid)
	assert.Contains(t, report.Errors[0], "same due time")
}

func TestValidateSchedule_PastSlot(t *testing.T) {
	report := ValidateSchedule([]domain.ScheduledSlot{
		slotAt(1, fixedNow.Add(-time.Hour)),
		slotAt(2, fixedNow.Add(time.Hour)),
	}, fixedNow)

	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "not in the future")
}

func TestValidateSchedule_SlotAtNowIsNotFuture(t *testing.T) {
	report := ValidateSchedule([]domain.ScheduledSlot{slotAt(1, fixedNow)}, fixedNow)
	assert.False(t, report.IsValid)
}

func TestValidateSchedule_SeqGap(t *testing.T) {
	report := ValidateSchedule([]domain.ScheduledSlot{
		slotAt(1, fixedNow.Add(24*time.Hour)),
		slotAt(3, fixedNow.Add(48*time.Hour)),
	}, fixedNow)

	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "seq 3")
}

func TestValidateSchedule_OutOfOrder(t *testing.T) {
	report := ValidateSchedule([]domain.ScheduledSlot{
		slotAt(1, fixedNow.Add(48*time.Hour)),
		slotAt(2, fixedNow.Add(24*time.Hour)),
	}, fixedNow)

	assert.False(t, report.IsValid)
	assert.Contains(t, report.Errors[0], "not after")
}

// weekOfTasks returns one task per day Monday 2026-03-09 through Sunday 2026-03-15.
func weekOfTasks() []domain.PlanTask {
	start := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)
	tasks := make([]domain.PlanTask, 7)
	for i := range tasks {
		due := start.AddDate(0, 0, i)
		tasks[i] = domain.PlanTask{
			Title:  due.Weekday().String() + " run",
			DueAt:  due,
			Status: domain.TaskPending,
			Seq:    i + 1,
		}
	}
	return tasks
}

func TestValidateTaskDays_WeekendViolations(t *testing.T) {
	audit := ValidateTaskDays(weekOfTasks(), dayexpr.Weekdays)

	assert.False(t, audit.IsValid)
	require.Len(t, audit.Violations, 2)
	assert.Equal(t, 6, audit.Violations[0].DayNumber)
	assert.Equal(t, "Saturday", audit.Violations[0].DayName)
	assert.Equal(t, "Saturday run", audit.Violations[0].Title)
	assert.Equal(t, 0, audit.Violations[1].DayNumber)
	assert.Equal(t, "Sunday", audit.Violations[1].DayName)

	assert.Equal(t, 7, audit.Summary.Total)
	assert.Equal(t, 5, audit.Summary.Valid)
	assert.Equal(t, 2, audit.Summary.Violations)
	assert.Equal(t, 1, audit.Summary.ByDay[time.Saturday])
	assert.Equal(t, 1, audit.Summary.ByDay[time.Sunday])
	assert.Contains(t, audit.Summary.String(), "2 of 7")
}

func TestValidateTaskDays_AllAllowed(t *testing.T) {
	audit := ValidateTaskDays(weekOfTasks(), dayexpr.AllDays)

	assert.True(t, audit.IsValid)
	assert.Empty(t, audit.Violations)
	assert.Equal(t, 7, audit.Summary.Valid)
}

func TestValidateTaskDays_DoesNotModifyTasks(t *testing.T) {
	tasks := weekOfTasks()
	before := weekOfTasks()

	_ = ValidateTaskDays(tasks, dayexpr.Weekends)
	assert.Equal(t, before, tasks)
}

func TestValidateTaskDaysIn_ReDerivesInLocation(t *testing.T) {
	// Friday 23:00 UTC is already Saturday in UTC+2.
	tasks := []domain.PlanTask{{Title: "late", DueAt: time.Date(2026, 3, 13, 23, 0, 0, 0, time.UTC), Seq: 1}}

	assert.True(t, ValidateTaskDays(tasks, dayexpr.Weekdays).IsValid)

	audit := ValidateTaskDaysIn(tasks, dayexpr.Weekdays, time.FixedZone("UTC+2", 2*3600))
	require.Len(t, audit.Violations, 1)
	assert.Equal(t, int(time.Saturday), audit.Violations[0].DayNumber)
}
