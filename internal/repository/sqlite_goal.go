package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/goalplan/internal/db"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/google/uuid"
)

// SQLiteGoalRepo implements GoalRepo. Create writes several rows; run it
// through a UnitOfWork when atomicity matters.
type SQLiteGoalRepo struct {
	db db.DBTX
}

func NewSQLiteGoalRepo(conn db.DBTX) *SQLiteGoalRepo {
	return &SQLiteGoalRepo{db: conn}
}

const goalColumns = `id, title, target_date, days_per_week, session_minutes, preferred_days, time_of_day, submission_key, created_at`

func (r *SQLiteGoalRepo) Create(ctx context.Context, g *domain.Goal, tasks []domain.PlanTask) error {
	days := make([]int, len(g.PreferredDays))
	for i, d := range g.PreferredDays {
		days[i] = int(d)
	}
	daysJSON, err := toJSON(days, "preferred days")
	if err != nil {
		return err
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = nowUTC()
	}

	query := `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		g.TargetDate,
		g.DaysPerWeek,
		g.SessionMinutes,
		daysJSON,
		g.TimeOfDay,
		g.SubmissionKey,
		formatTime(g.CreatedAt.UTC()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("goal %s: %w", g.SubmissionKey, ErrDuplicateSubmission)
		}
		return fmt.Errorf("inserting goal: %w", err)
	}

	taskQuery := `INSERT INTO goal_tasks (id, goal_id, seq, title, notes, due_at, duration_minutes, all_day, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = domain.TaskPending
		}
		_, err := r.db.ExecContext(ctx, taskQuery,
			uuid.New().String(),
			g.ID,
			t.Seq,
			t.Title,
			t.Notes,
			formatTime(t.DueAt),
			t.DurationMinutes,
			boolToInt(t.AllDay),
			string(status),
		)
		if err != nil {
			return fmt.Errorf("inserting task %d: %w", t.Seq, err)
		}
	}
	return nil
}

func (r *SQLiteGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`
	return r.scanGoal(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteGoalRepo) GetBySubmissionKey(ctx context.Context, key string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE submission_key = ?`
	return r.scanGoal(r.db.QueryRowContext(ctx, query, key))
}

func (r *SQLiteGoalRepo) List(ctx context.Context) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := r.scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	return goals, nil
}

func (r *SQLiteGoalRepo) ListTasks(ctx context.Context, goalID string) ([]domain.PlanTask, error) {
	query := `SELECT seq, title, notes, due_at, duration_minutes, all_day, status
		FROM goal_tasks WHERE goal_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.PlanTask
	for rows.Next() {
		var (
			t      domain.PlanTask
			dueAt  string
			allDay int
			status string
		)
		if err := rows.Scan(&t.Seq, &t.Title, &t.Notes, &dueAt, &t.DurationMinutes, &allDay, &status); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		if t.DueAt, err = parseTime(dueAt, "due_at"); err != nil {
			return nil, err
		}
		t.AllDay = allDay != 0
		t.Status = domain.TaskStatus(status)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteGoalRepo) UpdateTaskStatus(ctx context.Context, goalID string, seq int, status domain.TaskStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goal_tasks SET status = ? WHERE goal_id = ? AND seq = ?`, string(status), goalID, seq)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %d of goal %s: %w", seq, goalID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteGoalRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) scanGoal(row rowScanner) (*domain.Goal, error) {
	var (
		g         domain.Goal
		daysJSON  string
		createdAt string
	)
	err := row.Scan(&g.ID, &g.Title, &g.TargetDate, &g.DaysPerWeek, &g.SessionMinutes,
		&daysJSON, &g.TimeOfDay, &g.SubmissionKey, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning goal: %w", err)
	}

	var days []int
	if err := fromJSON(daysJSON, &days, "preferred days"); err != nil {
		return nil, err
	}
	for _, d := range days {
		g.PreferredDays = append(g.PreferredDays, time.Weekday(d))
	}
	if g.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &g, nil
}
