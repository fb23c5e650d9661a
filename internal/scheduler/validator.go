package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
)

// Report is the result of ValidateSchedule.
type Report struct {
	IsValid bool
	Errors  []string
}

// ValidateSchedule checks the internal consistency of slots: at least one
// slot, no duplicate due times, every due time after now, due times rising
// with seq, and seq running 1..N without gaps. It says nothing about whether
// enough sessions were produced.
func ValidateSchedule(slots []domain.ScheduledSlot, now time.Time) Report {
	var errs []string
	if len(slots) == 0 {
		return Report{Errors: []string{"schedule has no sessions"}}
	}

	seen := make(map[int64]int, len(slots))
	for i, s := range slots {
		key := s.DueAt.UnixNano()
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Sprintf("slot %d has the same due time as slot %d (%s)",
				i+1, first, s.DueAt.Format(time.RFC3339)))
		} else {
			seen[key] = i + 1
		}

		if !s.DueAt.After(now) {
			errs = append(errs, fmt.Sprintf("slot %d is due at %s, which is not in the future",
				i+1, s.DueAt.Format(time.RFC3339)))
		}

		if s.Seq != i+1 {
			errs = append(errs, fmt.Sprintf("slot %d has seq %d, want %d", i+1, s.Seq, i+1))
		}

		if i > 0 && !s.DueAt.After(slots[i-1].DueAt) {
			errs = append(errs, fmt.Sprintf("slot %d is not after slot %d", i+1, i))
		}
	}

	return Report{IsValid: len(errs) == 0, Errors: errs}
}

// DayViolation is a task scheduled outside the allowed days.
type DayViolation struct {
	Title     string
	Seq       int
	DayName   string
	DayNumber int
	DueAt     time.Time
}

// AuditSummary carries aggregate counts for a day audit.
type AuditSummary struct {
	Total      int
	Valid      int
	Violations int
	Allowed    dayexpr.Set
	// ByDay counts violating tasks per weekday.
	ByDay map[time.Weekday]int
}

func (s AuditSummary) String() string {
	if s.Violations == 0 {
		return fmt.Sprintf("all %d task(s) fall on allowed days (%s)", s.Total, s.Allowed)
	}
	return fmt.Sprintf("%d of %d task(s) fall outside allowed days (%s)", s.Violations, s.Total, s.Allowed)
}

// DayAudit is the result of ValidateTaskDays.
type DayAudit struct {
	IsValid    bool
	Violations []DayViolation
	Summary    AuditSummary
}

// ValidateTaskDays re-derives each task's weekday from its own due time and
// reports every task whose day is not in allowed. Tasks are never modified.
func ValidateTaskDays(tasks []domain.PlanTask, allowed dayexpr.Set) DayAudit {
	return ValidateTaskDaysIn(tasks, allowed, nil)
}

// ValidateTaskDaysIn is ValidateTaskDays with weekdays taken in loc. A nil
// loc keeps each due time's own location.
func ValidateTaskDaysIn(tasks []domain.PlanTask, allowed dayexpr.Set, loc *time.Location) DayAudit {
	audit := DayAudit{
		Summary: AuditSummary{
			Total:   len(tasks),
			Allowed: allowed,
			ByDay:   make(map[time.Weekday]int),
		},
	}

	for _, t := range tasks {
		due := t.DueAt
		if loc != nil {
			due = due.In(loc)
		}
		day := due.Weekday()
		if allowed.Contains(day) {
			audit.Summary.Valid++
			continue
		}
		audit.Violations = append(audit.Violations, DayViolation{
			Title:     t.Title,
			Seq:       t.Seq,
			DayName:   dayexpr.DisplayName(day),
			DayNumber: int(day),
			DueAt:     due,
		})
		audit.Summary.ByDay[day]++
	}

	audit.Summary.Violations = len(audit.Violations)
	audit.IsValid = audit.Summary.Violations == 0
	return audit
}

// TasksFromSlots converts slots to pending plan tasks.
func TasksFromSlots(slots []domain.ScheduledSlot) []domain.PlanTask {
	tasks := make([]domain.PlanTask, len(slots))
	for i, s := range slots {
		tasks[i] = domain.TaskFromSlot(s)
	}
	return tasks
}
