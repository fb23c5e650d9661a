package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/db"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/repository"
	"github.com/google/uuid"
)

// PlanStore is the local plan-creation collaborator used when no plan
// service endpoint is configured. It implements dedupe.Submitter and is
// idempotent per submission key beyond the dedupe window: a repeated key
// returns the goal it already created.
type PlanStore struct {
	goals    repository.GoalRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanStore(goals repository.GoalRepo, uow db.UnitOfWork, observers ...UseCaseObserver) *PlanStore {
	return &PlanStore{goals: goals, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *PlanStore) Submit(ctx context.Context, key string, sub contract.Submission) (result *contract.PlanResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tasks": len(sub.ScheduledSlots)}
	defer observe(ctx, s.observer, "store-plan", startedAt, fields, &err)

	result, err = db.InTx(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*contract.PlanResult, error) {
		goals := repository.NewSQLiteGoalRepo(tx)

		existing, err := goals.GetBySubmissionKey(ctx, key)
		switch {
		case err == nil:
			tasks, err := goals.ListTasks(ctx, existing.ID)
			if err != nil {
				return nil, err
			}
			fields["existing"] = true
			return planResult(existing, tasks), nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}

		payload := contract.NewPlanPayload(sub)
		g := &domain.Goal{
			ID:             uuid.New().String(),
			Title:          sub.Fields.Goal,
			TargetDate:     sub.Fields.TargetDate,
			DaysPerWeek:    sub.Fields.DaysPerWeek,
			SessionMinutes: sub.Fields.SessionMinutes,
			PreferredDays:  sub.Fields.PreferredDays,
			TimeOfDay:      sub.Fields.TimeOfDay,
			SubmissionKey:  key,
		}
		if err := goals.Create(ctx, g, payload.Tasks); err != nil {
			return nil, err
		}
		return &contract.PlanResult{GoalID: g.ID, Plan: payload}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing plan: %w", err)
	}
	fields["goal_id"] = result.GoalID
	return result, nil
}

func (s *PlanStore) List(ctx context.Context) ([]*domain.Goal, error) {
	return s.goals.List(ctx)
}

func (s *PlanStore) Get(ctx context.Context, id string) (*domain.Goal, []domain.PlanTask, error) {
	g, err := s.goals.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.goals.ListTasks(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return g, tasks, nil
}

func (s *PlanStore) SetTaskStatus(ctx context.Context, goalID string, seq int, status domain.TaskStatus) error {
	return s.goals.UpdateTaskStatus(ctx, goalID, seq, status)
}

func planResult(g *domain.Goal, tasks []domain.PlanTask) *contract.PlanResult {
	days := make([]int, len(g.PreferredDays))
	for i, d := range g.PreferredDays {
		days[i] = int(d)
	}
	return &contract.PlanResult{
		GoalID: g.ID,
		Plan: contract.PlanPayload{
			Goal: contract.GoalPayload{
				Title:          g.Title,
				TargetDate:     g.TargetDate,
				DaysPerWeek:    g.DaysPerWeek,
				SessionMinutes: g.SessionMinutes,
				PreferredDays:  days,
				TimeOfDay:      g.TimeOfDay,
			},
			Tasks: tasks,
		},
	}
}
