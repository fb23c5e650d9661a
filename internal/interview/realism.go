package interview

import (
	"fmt"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/scheduler"
)

type AdviceKind string

const (
	AdviceRealistic AdviceKind = "realistic"
	AdviceTooTight  AdviceKind = "too_tight"
	AdviceGenerous  AdviceKind = "generous"
)

// Advice is a non-blocking suggestion about whether the collected timeline
// can hold the sessions a goal is estimated to need.
type Advice struct {
	Kind     AdviceKind
	Capacity int
	Needed   int

	// Set only when Kind is AdviceTooTight. SuggestedDaysPerWeek is zero when
	// no weekly frequency up to 7 would be enough.
	SuggestedDaysPerWeek int
	SuggestedTargetDate  string

	Message string
}

// CheckTimelineRealism compares the session capacity implied by the target
// date and days per week (capped by matching preferred days once they are
// known) with estimatedSessionsNeeded. It needs TARGET_DATE and DAYS_PER_WEEK
// to have been answered and never changes the state.
func (e *Engine) CheckTimelineRealism(state domain.InterviewState, estimatedSessionsNeeded int) (Advice, error) {
	if estimatedSessionsNeeded <= 0 {
		return Advice{}, fmt.Errorf("estimated sessions must be positive, got %d", estimatedSessionsNeeded)
	}
	if !state.HasCompleted(domain.StepTargetDate) || !state.HasCompleted(domain.StepDaysPerWeek) {
		return Advice{}, ErrInsufficientFields
	}

	now := e.now()
	target, err := state.Fields.Target(now.Location())
	if err != nil {
		return Advice{}, fmt.Errorf("check timeline: %w", err)
	}

	var days dayexpr.Set
	if state.HasCompleted(domain.StepPreferredDays) {
		days = dayexpr.SetOf(state.Fields.PreferredDays...)
	}
	perWeek := state.Fields.DaysPerWeek
	capacity := scheduler.Capacity(now, target, perWeek, days)

	advice := Advice{Capacity: capacity, Needed: estimatedSessionsNeeded}
	switch {
	case estimatedSessionsNeeded > capacity:
		advice.Kind = AdviceTooTight
		weeks := scheduler.WeeksUntil(now, target)
		if weeks > 0 {
			if n := ceilDiv(estimatedSessionsNeeded, weeks); n <= 7 && n > perWeek {
				advice.SuggestedDaysPerWeek = n
			}
		}
		needWeeks := ceilDiv(estimatedSessionsNeeded, perWeek)
		later := scheduler.Tomorrow(now).AddDate(0, 0, needWeeks*7-1)
		if later.After(target) {
			advice.SuggestedTargetDate = later.Format(domain.DateLayout)
		}
		advice.Message = tightMessage(advice)

	case capacity >= 2*estimatedSessionsNeeded:
		advice.Kind = AdviceGenerous
		advice.Message = fmt.Sprintf(
			"Your schedule has room for about %d sessions and this goal needs about %d. You could work fewer days per week or aim for an earlier date.",
			capacity, estimatedSessionsNeeded)

	default:
		advice.Kind = AdviceRealistic
		advice.Message = fmt.Sprintf(
			"Your schedule has room for about %d sessions, enough for the roughly %d this goal needs.",
			capacity, estimatedSessionsNeeded)
	}
	return advice, nil
}

func tightMessage(a Advice) string {
	msg := fmt.Sprintf("Your schedule has room for about %d sessions, but this goal likely needs %d.", a.Capacity, a.Needed)
	switch {
	case a.SuggestedDaysPerWeek > 0 && a.SuggestedTargetDate != "":
		msg += fmt.Sprintf(" Consider %d days per week, or moving the target date to %s.", a.SuggestedDaysPerWeek, a.SuggestedTargetDate)
	case a.SuggestedDaysPerWeek > 0:
		msg += fmt.Sprintf(" Consider %d days per week.", a.SuggestedDaysPerWeek)
	case a.SuggestedTargetDate != "":
		msg += fmt.Sprintf(" Consider moving the target date to %s.", a.SuggestedTargetDate)
	}
	return msg
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
