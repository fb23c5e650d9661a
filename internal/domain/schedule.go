package domain

import "time"

// ScheduledSlot is one dated session produced by the schedule builder.
type ScheduledSlot struct {
	Title           string    `json:"title"`
	DueAt           time.Time `json:"due_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Seq             int       `json:"seq"`
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskSkipped   TaskStatus = "skipped"
)

// PlanTask is a task as handed to (or received from) the plan persistence
// collaborator. Schedules produced elsewhere are audited in this shape too.
type PlanTask struct {
	Title           string     `json:"title"`
	Notes           string     `json:"notes,omitempty"`
	DueAt           time.Time  `json:"due_at"`
	DurationMinutes int        `json:"duration_minutes"`
	AllDay          bool       `json:"all_day"`
	Status          TaskStatus `json:"status"`
	Seq             int        `json:"seq"`
}

// TaskFromSlot converts a scheduled slot into a pending plan task.
func TaskFromSlot(s ScheduledSlot) PlanTask {
	return PlanTask{
		Title:           s.Title,
		DueAt:           s.DueAt,
		DurationMinutes: s.DurationMinutes,
		Status:          TaskPending,
		Seq:             s.Seq,
	}
}

// Goal is a plan accepted by the local plan store. SubmissionKey is the
// dedupe digest of the submission that created it and is unique.
type Goal struct {
	ID             string
	Title          string
	TargetDate     string
	DaysPerWeek    int
	SessionMinutes int
	PreferredDays  []time.Weekday
	TimeOfDay      string
	SubmissionKey  string
	CreatedAt      time.Time
}
