// Package interview implements the goal interview: a linear slot-filling
// conversation that collects one validated field per answer.
package interview

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/goalplan/internal/domain"
)

// Result describes the outcome of one answer.
type Result struct {
	Success      bool
	NextQuestion string
	Error        string
	Warning      string
	Complete     bool

	// Err is the underlying error when Success is false.
	Err error
}

var defaultQuestions = map[domain.Step]string{
	domain.StepGoalDescription: "What goal would you like to work toward?",
	domain.StepTargetDate:      "By what date do you want to reach it? (YYYY-MM-DD)",
	domain.StepDaysPerWeek:     "How many days per week can you work on it? (1-7)",
	domain.StepSessionMinutes:  "How many minutes can you spend per session?",
	domain.StepPreferredDays:   "Which days work best for you? (e.g. weekdays, mon-fri, Tue, Thu, Sat)",
	domain.StepTimeOfDay:       `What time should sessions start? (HH:MM, 24-hour, or "default" for 09:00)`,
}

// Engine drives interviews. It holds configuration only; every conversation's
// progress lives in the domain.InterviewState the caller passes in, so a
// single Engine can serve any number of conversations concurrently.
type Engine struct {
	now               func() time.Time
	maxSessionMinutes int
	questions         map[domain.Step]string
}

type Option func(*Engine)

// WithClock overrides the clock used for date validation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMaxSessionMinutes sets the session length ceiling.
func WithMaxSessionMinutes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSessionMinutes = n
		}
	}
}

// NewEngine creates an Engine with the default questions.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:               time.Now,
		maxSessionMinutes: DefaultMaxSessionMinutes,
		questions:         defaultQuestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSessionMinutes returns the configured session ceiling.
func (e *Engine) MaxSessionMinutes() int { return e.maxSessionMinutes }

// Start returns the initial state of a new interview.
func (e *Engine) Start() domain.InterviewState {
	return domain.InterviewState{Current: domain.StepGoalDescription}
}

// Question returns the prompt for step, or "" for StepComplete.
func (e *Engine) Question(step domain.Step) string {
	return e.questions[step]
}

// AcceptAnswer validates answer against the state's current step only. On
// success it returns a new state with the value stored and the step advanced.
// On failure it returns the input state unchanged and a Result carrying a
// user-facing explanation, so the caller simply asks again.
func (e *Engine) AcceptAnswer(state domain.InterviewState, answer string) (domain.InterviewState, Result) {
	if state.IsComplete() {
		return state, Result{Error: "This interview is already complete.", Complete: true, Err: ErrAlreadyComplete}
	}
	if state.Current == "" {
		state.Current = domain.StepGoalDescription
	}

	next := cloneState(state)
	warning, err := e.apply(&next, answer)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return state, Result{Error: verr.Message, NextQuestion: e.Question(state.Current), Err: err}
		}
		return state, Result{Error: err.Error(), NextQuestion: e.Question(state.Current), Err: err}
	}

	next.Completed = append(next.Completed, state.Current)
	next.Current = nextStep(state.Current)
	if next.Current == domain.StepComplete {
		next.Complete = true
		return next, Result{Success: true, Warning: warning, Complete: true}
	}
	return next, Result{Success: true, Warning: warning, NextQuestion: e.Question(next.Current)}
}

func (e *Engine) apply(st *domain.InterviewState, answer string) (string, error) {
	switch st.Current {
	case domain.StepGoalDescription:
		goal, err := ValidateGoal(answer)
		if err != nil {
			return "", err
		}
		st.Fields.Goal = goal

	case domain.StepTargetDate:
		target, err := ValidateTargetDate(answer, e.now())
		if err != nil {
			return "", err
		}
		st.Fields.TargetDate = target.Format(domain.DateLayout)

	case domain.StepDaysPerWeek:
		n, err := ValidateDaysPerWeek(answer)
		if err != nil {
			return "", err
		}
		st.Fields.DaysPerWeek = n

	case domain.StepSessionMinutes:
		n, err := ValidateSessionMinutes(answer, e.maxSessionMinutes)
		if err != nil {
			return "", err
		}
		st.Fields.SessionMinutes = n

	case domain.StepPreferredDays:
		days, err := ValidatePreferredDays(answer)
		if err != nil {
			return "", err
		}
		st.Fields.PreferredDays = days.Days()
		if n := st.Fields.DaysPerWeek; n > 0 && days.Len() < n {
			return fmt.Sprintf("You chose %d day(s) but want %d sessions per week; sessions will only land on %s.",
				days.Len(), n, days), nil
		}

	case domain.StepTimeOfDay:
		tod, err := ValidateTimeOfDay(answer)
		if err != nil {
			return "", err
		}
		st.Fields.TimeOfDay = tod

	default:
		return "", fmt.Errorf("unknown interview step %q", st.Current)
	}
	return "", nil
}

func nextStep(current domain.Step) domain.Step {
	for i, s := range domain.InterviewSteps {
		if s == current && i+1 < len(domain.InterviewSteps) {
			return domain.InterviewSteps[i+1]
		}
	}
	return domain.StepComplete
}

func cloneState(s domain.InterviewState) domain.InterviewState {
	out := s
	out.Completed = append([]domain.Step(nil), s.Completed...)
	out.Fields.PreferredDays = append([]time.Weekday(nil), s.Fields.PreferredDays...)
	return out
}
