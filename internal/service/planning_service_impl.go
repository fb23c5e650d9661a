package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/repository"
	"github.com/alexanderramin/goalplan/internal/scheduler"
)

// ErrNoPlanResult is returned when a submission succeeded without a result.
var ErrNoPlanResult = errors.New("plan submission returned no result")

type planningService struct {
	conversations repository.ConversationRepo
	submitter     PlanSubmitter
	now           func() time.Time
	observer      UseCaseObserver
}

// NewPlanningService builds schedules for completed conversations and submits
// them. now supplies both the instant and the location slots are built in;
// nil means time.Now.
func NewPlanningService(
	conversations repository.ConversationRepo,
	submitter PlanSubmitter,
	now func() time.Time,
	observers ...UseCaseObserver,
) PlanningService {
	if now == nil {
		now = time.Now
	}
	return &planningService{
		conversations: conversations,
		submitter:     submitter,
		now:           now,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) Preview(ctx context.Context, conversationID string) (*Preview, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return s.prepare(conv, s.now())
}

// Finalize builds, checks and submits the plan for a completed conversation.
// Rejections before submission are *contract.PlanError; submission errors
// are returned unmodified. Finalizing twice within the dedupe window returns
// the first result without a second downstream call.
func (s *planningService) Finalize(ctx context.Context, conversationID string) (resp *contract.FinalizeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"conversation_id": conversationID}
	defer observe(ctx, s.observer, "finalize-plan", startedAt, fields, &err)

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	preview, err := s.prepare(conv, s.now())
	if err != nil {
		return nil, err
	}
	fields["slots"] = len(preview.Plan.Slots)

	sub := contract.NewSubmission(conv.Transcript, preview.Fields, preview.Plan.Slots)
	out, err := s.submitter.Do(ctx, sub)
	if err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, ErrNoPlanResult
	}
	fields["goal_id"] = out.Result.GoalID
	fields["deduplicated"] = out.Cached || out.Shared

	// The link is written outside the submitter's transaction, which may be a
	// remote service. A failed link is repaired by calling Finalize again: the
	// dedupe window and the submission key return the same goal.
	goalID := out.Result.GoalID
	conv.GoalID = &goalID
	if err = s.conversations.Update(ctx, conv); err != nil {
		return nil, fmt.Errorf("linking goal %s: %w", goalID, err)
	}

	return &contract.FinalizeResponse{
		ConversationID: conv.ID,
		Result:         out.Result,
		Slots:          preview.Plan.Slots,
		Warnings:       preview.Warnings,
		Deduplicated:   out.Cached || out.Shared,
	}, nil
}

// prepare runs builder, structural validation and the day audit. The audit
// re-derives weekdays in now's location, the same location slots are built in.
func (s *planningService) prepare(conv *domain.Conversation, now time.Time) (*Preview, error) {
	fields, ok := conv.State.ValidatedFields()
	if !ok {
		return nil, &contract.PlanError{
			Code:    contract.PlanErrIncomplete,
			Message: fmt.Sprintf("interview is at %s", conv.State.Current),
		}
	}

	plan, err := scheduler.PlanSchedule(fields, now)
	if err != nil {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalidSchedule, Message: err.Error()}
	}
	if len(plan.Slots) == 0 {
		return nil, &contract.PlanError{
			Code: contract.PlanErrNoSessions,
			Message: fmt.Sprintf("no %s fall between %s and %s",
				plan.Days, plan.Tomorrow.Format(domain.DateLayout), plan.Target.Format(domain.DateLayout)),
		}
	}

	if report := scheduler.ValidateSchedule(plan.Slots, now); !report.IsValid {
		return nil, &contract.PlanError{
			Code:    contract.PlanErrInvalidSchedule,
			Message: strings.Join(report.Errors, "; "),
		}
	}
	if audit := scheduler.ValidateTaskDaysIn(scheduler.TasksFromSlots(plan.Slots), plan.Days, now.Location()); !audit.IsValid {
		return nil, &contract.PlanError{Code: contract.PlanErrInvalidSchedule, Message: audit.Summary.String()}
	}

	return &Preview{Fields: fields, Plan: plan, Warnings: PlanWarnings(plan)}, nil
}
