package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for target dates.
const DateLayout = "2006-01-02"

// TimeOfDayDefault is the literal answer meaning "use the default session time".
const TimeOfDayDefault = "default"

// DefaultSessionHour and DefaultSessionMinute place sessions at 09:00 when
// the user answered "default" for time of day.
const (
	DefaultSessionHour   = 9
	DefaultSessionMinute = 0
)

// InterviewFields is the validated result of a completed goal interview.
// It is produced once, when the interview reaches StepComplete.
type InterviewFields struct {
	Goal           string         `json:"goal"`
	TargetDate     string         `json:"target_date"`
	DaysPerWeek    int            `json:"days_per_week"`
	SessionMinutes int            `json:"session_minutes"`
	PreferredDays  []time.Weekday `json:"preferred_days"`
	TimeOfDay      string         `json:"time_of_day"`
}

// Target returns the target date as midnight in loc.
func (f InterviewFields) Target(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, f.TargetDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing target date %q: %w", f.TargetDate, err)
	}
	return t, nil
}

// SessionClock returns the hour and minute sessions start at. Anything that
// is not a well-formed HH:MM value falls back to the default session time.
func (f InterviewFields) SessionClock() (hour, minute int) {
	if f.TimeOfDay == "" || f.TimeOfDay == TimeOfDayDefault {
		return DefaultSessionHour, DefaultSessionMinute
	}
	t, err := time.Parse("15:04", f.TimeOfDay)
	if err != nil {
		return DefaultSessionHour, DefaultSessionMinute
	}
	return t.Hour(), t.Minute()
}

// Step identifies the field an interview is currently collecting.
type Step string

const (
	StepGoalDescription Step = "GOAL_DESCRIPTION"
	StepTargetDate      Step = "TARGET_DATE"
	StepDaysPerWeek     Step = "DAYS_PER_WEEK"
	StepSessionMinutes  Step = "SESSION_MINUTES"
	StepPreferredDays   Step = "PREFERRED_DAYS"
	StepTimeOfDay       Step = "TIME_OF_DAY"
	StepComplete        Step = "COMPLETE"
)

// InterviewSteps lists the collecting steps in the order they are asked.
var InterviewSteps = []Step{
	StepGoalDescription,
	StepTargetDate,
	StepDaysPerWeek,
	StepSessionMinutes,
	StepPreferredDays,
	StepTimeOfDay,
}

// InterviewState is the per-conversation progress of a goal interview.
// It is a plain value: callers own it, persist it, and pass it back in.
type InterviewState struct {
	Current   Step            `json:"current"`
	Completed []Step          `json:"completed"`
	Fields    InterviewFields `json:"fields"`
	Complete  bool            `json:"complete"`
}

// IsComplete reports whether every field has been collected.
func (s InterviewState) IsComplete() bool {
	return s.Complete && s.Current == StepComplete
}

// ValidatedFields returns the collected fields once the interview is complete.
func (s InterviewState) ValidatedFields() (InterviewFields, bool) {
	if !s.IsComplete() {
		return InterviewFields{}, false
	}
	f := s.Fields
	f.PreferredDays = append([]time.Weekday(nil), s.Fields.PreferredDays...)
	return f, true
}

// HasCompleted reports whether step has already been validated.
func (s InterviewState) HasCompleted(step Step) bool {
	for _, c := range s.Completed {
		if c == step {
			return true
		}
	}
	return false
}
