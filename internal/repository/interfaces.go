package repository

import (
	"context"

	"github.com/alexanderramin/goalplan/internal/domain"
)

// ConversationRepo stores resumable interviews.
type ConversationRepo interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	// Update writes state, transcript and goal link; UpdatedAt is set by the repo.
	Update(ctx context.Context, c *domain.Conversation) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Conversation, error)
	Delete(ctx context.Context, id string) error
}

// GoalRepo stores accepted plans and their tasks.
type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal, tasks []domain.PlanTask) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	GetBySubmissionKey(ctx context.Context, key string) (*domain.Goal, error)
	List(ctx context.Context) ([]*domain.Goal, error)
	ListTasks(ctx context.Context, goalID string) ([]domain.PlanTask, error)
	UpdateTaskStatus(ctx context.Context, goalID string, seq int, status domain.TaskStatus) error
	Delete(ctx context.Context, id string) error
}
