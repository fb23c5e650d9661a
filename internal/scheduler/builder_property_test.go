package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildSchedule_Invariants property-tests slot ordering, timing and day
// membership over random interviews.
func TestBuildSchedule_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC-8", -8*3600),
		time.FixedZone("UTC+5:30", 5*3600+1800),
		time.FixedZone("UTC+13", 13*3600),
	}

	for trial := 0; trial < 300; trial++ {
		loc := zones[rng.Intn(len(zones))]
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).
			AddDate(0, 0, rng.Intn(365)).
			Add(time.Duration(rng.Intn(24*60)) * time.Minute)

		var days dayexpr.Set
		for days.IsEmpty() {
			days = dayexpr.Set(rng.Intn(128))
		}
		fields := domain.InterviewFields{
			Goal:           "Property goal",
			TargetDate:     now.AddDate(0, 0, rng.Intn(120)+2).Format(domain.DateLayout),
			DaysPerWeek:    rng.Intn(7) + 1,
			SessionMinutes: rng.Intn(480) + 1,
			PreferredDays:  days.Days(),
			TimeOfDay:      "default",
		}
		if rng.Intn(2) == 1 {
			fields.TimeOfDay = time.Date(2000, 1, 1, rng.Intn(24), rng.Intn(60), 0, 0, time.UTC).Format("15:04")
		}

		plan, err := PlanSchedule(fields, now)
		require.NoError(t, err, "trial %d", trial)

		// Count is the estimate capped by available dates.
		want := plan.Requested
		if plan.Candidates < want {
			want = plan.Candidates
		}
		assert.Len(t, plan.Slots, want, "trial %d", trial)
		assert.False(t, plan.UsedFallback)

		hour, minute := fields.SessionClock()
		for i, s := range plan.Slots {
			assert.Equal(t, i+1, s.Seq, "trial %d", trial)
			assert.True(t, s.DueAt.After(now), "trial %d: slot %d at %s not after %s", trial, s.Seq, s.DueAt, now)
			assert.True(t, days.Contains(s.DueAt.Weekday()), "trial %d: slot %d on %s", trial, s.Seq, s.DueAt.Weekday())
			assert.Equal(t, hour, s.DueAt.Hour(), "trial %d", trial)
			assert.Equal(t, minute, s.DueAt.Minute(), "trial %d", trial)
			assert.Equal(t, fields.SessionMinutes, s.DurationMinutes)
			if i > 0 {
				assert.True(t, s.DueAt.After(plan.Slots[i-1].DueAt), "trial %d: slot %d not after previous", trial, s.Seq)
			}
		}

		if len(plan.Slots) > 0 {
			report := ValidateSchedule(plan.Slots, now)
			assert.True(t, report.IsValid, "trial %d: %v", trial, report.Errors)
			audit := ValidateTaskDays(TasksFromSlots(plan.Slots), days)
			assert.True(t, audit.IsValid, "trial %d", trial)
		}
	}
}
