package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
)

// FallbackDays is used when preferred days resolve to nothing. Validated
// interviews never reach it.
var FallbackDays = dayexpr.Weekdays

// Plan is the result of PlanSchedule: the slots plus the numbers that
// produced them.
type Plan struct {
	Slots []domain.ScheduledSlot

	Tomorrow         time.Time
	Target           time.Time
	Days             dayexpr.Set
	WeeksUntilTarget int

	// Requested is weeksUntilTarget × days_per_week.
	Requested int
	// Candidates is the number of preferred-day dates in [tomorrow, target].
	Candidates   int
	UsedFallback bool
}

// Shortfall is how many requested sessions had no matching date.
func (p Plan) Shortfall() int {
	if n := p.Requested - len(p.Slots); n > 0 {
		return n
	}
	return 0
}

// PlanSchedule turns completed interview fields into dated session slots.
// It depends only on its arguments: the same fields and now always give the
// same plan. Slots are anchored to now's location; no conversion happens here.
//
// The requested count is an approximation (whole weeks × days per week) and
// is capped by the number of matching dates; the plan records both so callers
// can report a shortfall.
func PlanSchedule(fields domain.InterviewFields, now time.Time) (Plan, error) {
	target, err := fields.Target(now.Location())
	if err != nil {
		return Plan{}, err
	}

	days := dayexpr.SetOf(fields.PreferredDays...)
	plan := Plan{
		Tomorrow: Tomorrow(now),
		Target:   target,
	}
	if days.IsEmpty() {
		days = FallbackDays
		plan.UsedFallback = true
	}
	plan.Days = days
	plan.WeeksUntilTarget = WeeksUntil(now, target)
	if fields.DaysPerWeek > 0 {
		plan.Requested = plan.WeeksUntilTarget * fields.DaysPerWeek
	}

	candidates := CandidateDates(now, target, days)
	plan.Candidates = len(candidates)

	n := plan.Requested
	if n > len(candidates) {
		n = len(candidates)
	}

	hour, minute := fields.SessionClock()
	plan.Slots = make([]domain.ScheduledSlot, 0, n)
	for i, d := range candidates[:n] {
		y, m, dd := d.Date()
		plan.Slots = append(plan.Slots, domain.ScheduledSlot{
			Title:           fmt.Sprintf("Session %d", i+1),
			DueAt:           time.Date(y, m, dd, hour, minute, 0, 0, d.Location()),
			DurationMinutes: fields.SessionMinutes,
			Seq:             i + 1,
		})
	}
	return plan, nil
}

// BuildSchedule returns only the slots of PlanSchedule. Fields with an
// unreadable target date produce no slots.
func BuildSchedule(fields domain.InterviewFields, now time.Time) []domain.ScheduledSlot {
	plan, err := PlanSchedule(fields, now)
	if err != nil {
		return nil
	}
	return plan.Slots
}

// Tomorrow returns midnight of the day after now, in now's location.
func Tomorrow(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// WeeksUntil returns ceil((target − tomorrow) / 7 days), never negative.
func WeeksUntil(now, target time.Time) int {
	days := daysBetween(Tomorrow(now), target)
	if days <= 0 {
		return 0
	}
	return (days + 6) / 7
}

// CandidateDates lists every date from tomorrow through target inclusive
// whose weekday is in days, oldest first.
func CandidateDates(now, target time.Time, days dayexpr.Set) []time.Time {
	start := Tomorrow(now)
	total := daysBetween(start, target)
	if total < 0 {
		return nil
	}
	y, m, d := start.Date()
	var out []time.Time
	for i := 0; i <= total; i++ {
		date := time.Date(y, m, d+i, 0, 0, 0, 0, start.Location())
		if days.Contains(date.Weekday()) {
			out = append(out, date)
		}
	}
	return out
}

// Capacity is the number of sessions a plan could hold: the weekly estimate,
// capped by matching dates when days is known.
func Capacity(now, target time.Time, daysPerWeek int, days dayexpr.Set) int {
	capacity := WeeksUntil(now, target) * daysPerWeek
	if days.IsEmpty() {
		return capacity
	}
	if n := len(CandidateDates(now, target, days)); n < capacity {
		return n
	}
	return capacity
}

// daysBetween counts calendar days from a to b, ignoring clock time and DST.
// It works on Unix seconds since time.Duration saturates after ~292 years.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((ub.Unix() - ua.Unix()) / 86400)
}
