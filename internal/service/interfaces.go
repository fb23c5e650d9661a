package service

import (
	"context"

	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/dedupe"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/scheduler"
)

// AnswerResult is the conversation after an answer plus the engine's verdict.
type AnswerResult struct {
	Conversation *domain.Conversation
	Result       interview.Result
}

type ConversationService interface {
	// Start creates a conversation and records the first question.
	Start(ctx context.Context) (*domain.Conversation, error)
	Answer(ctx context.Context, id, text string) (*AnswerResult, error)
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	List(ctx context.Context, limit int) ([]*domain.Conversation, error)
	// Question returns the pending prompt, or "" once the interview is done.
	Question(c *domain.Conversation) string
	CheckRealism(ctx context.Context, id string, estimatedSessions int) (interview.Advice, error)
}

// Preview is a built and checked schedule that has not been submitted.
type Preview struct {
	Fields   domain.InterviewFields
	Plan     scheduler.Plan
	Warnings []string
}

type PlanningService interface {
	Preview(ctx context.Context, conversationID string) (*Preview, error)
	Finalize(ctx context.Context, conversationID string) (*contract.FinalizeResponse, error)
}

// PlanSubmitter sends a submission at most once per dedupe window.
// *dedupe.Deduplicator implements it.
type PlanSubmitter interface {
	Do(ctx context.Context, sub contract.Submission) (dedupe.Outcome, error)
}

type GoalService interface {
	List(ctx context.Context) ([]*domain.Goal, error)
	Get(ctx context.Context, id string) (*domain.Goal, []domain.PlanTask, error)
	SetTaskStatus(ctx context.Context, goalID string, seq int, status domain.TaskStatus) error
}
