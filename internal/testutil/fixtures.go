package testutil

import (
	"time"

	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is a Wednesday morning used as "now" across tests.
var FixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

// Clock returns a func reporting FixedNow.
func Clock() func() time.Time {
	return func() time.Time { return FixedNow }
}

// Field options
type FieldsOption func(*domain.InterviewFields)

func WithGoal(goal string) FieldsOption {
	return func(f *domain.InterviewFields) { f.Goal = goal }
}

func WithTargetDate(date string) FieldsOption {
	return func(f *domain.InterviewFields) { f.TargetDate = date }
}

func WithDaysPerWeek(n int) FieldsOption {
	return func(f *domain.InterviewFields) { f.DaysPerWeek = n }
}

func WithPreferredDays(days ...time.Weekday) FieldsOption {
	return func(f *domain.InterviewFields) { f.PreferredDays = days }
}

func WithTimeOfDay(tod string) FieldsOption {
	return func(f *domain.InterviewFields) { f.TimeOfDay = tod }
}

// NewTestFields returns four weeks of Mon/Wed/Fri 60-minute sessions at
// 18:00, starting after FixedNow.
func NewTestFields(opts ...FieldsOption) domain.InterviewFields {
	f := domain.InterviewFields{
		Goal:           "Learn conversational Spanish",
		TargetDate:     FixedNow.AddDate(0, 0, 28).Format(domain.DateLayout),
		DaysPerWeek:    3,
		SessionMinutes: 60,
		PreferredDays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		TimeOfDay:      "18:00",
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// CompletedState wraps fields in a finished interview state.
func CompletedState(f domain.InterviewFields) domain.InterviewState {
	return domain.InterviewState{
		Current:   domain.StepComplete,
		Completed: append([]domain.Step(nil), domain.InterviewSteps...),
		Fields:    f,
		Complete:  true,
	}
}

// Conversation options
type ConversationOption func(*domain.Conversation)

func WithState(s domain.InterviewState) ConversationOption {
	return func(c *domain.Conversation) { c.State = s }
}

func WithTranscript(turns ...domain.Turn) ConversationOption {
	return func(c *domain.Conversation) { c.Transcript = turns }
}

func NewTestConversation(opts ...ConversationOption) *domain.Conversation {
	now := time.Now().UTC()
	c := &domain.Conversation{
		ID:        uuid.New().String(),
		State:     domain.InterviewState{Current: domain.StepGoalDescription},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTestGoal builds a goal and its pending tasks from a submission.
func NewTestGoal(sub contract.Submission, key string) (*domain.Goal, []domain.PlanTask) {
	g := &domain.Goal{
		ID:             uuid.New().String(),
		Title:          sub.Fields.Goal,
		TargetDate:     sub.Fields.TargetDate,
		DaysPerWeek:    sub.Fields.DaysPerWeek,
		SessionMinutes: sub.Fields.SessionMinutes,
		PreferredDays:  sub.Fields.PreferredDays,
		TimeOfDay:      sub.Fields.TimeOfDay,
		SubmissionKey:  key,
		CreatedAt:      time.Now().UTC(),
	}
	return g, contract.NewPlanPayload(sub).Tasks
}

// NewTestSubmission builds a submission with slots for FixedNow.
func NewTestSubmission(slots []domain.ScheduledSlot, opts ...FieldsOption) contract.Submission {
	f := NewTestFields(opts...)
	return contract.NewSubmission(
		[]domain.Turn{
			{Role: domain.RoleAssistant, Content: "What goal would you like to work toward?"},
			{Role: domain.RoleUser, Content: f.Goal},
		},
		f,
		slots,
	)
}
