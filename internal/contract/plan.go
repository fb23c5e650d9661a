package contract

import (
	"time"

	"github.com/alexanderramin/goalplan/internal/domain"
)

// Submission is the request sent to the plan-creation service. It is also
// the payload the deduplicator digests.
type Submission struct {
	Transcript     []domain.Turn          `json:"transcript"`
	Fields         domain.InterviewFields `json:"fields"`
	ScheduledSlots []domain.ScheduledSlot `json:"scheduled_slots"`
}

// NewSubmission copies its arguments so later edits by the caller do not
// leak into an in-flight or cached request.
func NewSubmission(transcript []domain.Turn, fields domain.InterviewFields, slots []domain.ScheduledSlot) Submission {
	f := fields
	f.PreferredDays = append([]time.Weekday(nil), fields.PreferredDays...)
	return Submission{
		Transcript:     append([]domain.Turn(nil), transcript...),
		Fields:         f,
		ScheduledSlots: append([]domain.ScheduledSlot(nil), slots...),
	}
}

// GoalPayload describes the goal half of a plan.
type GoalPayload struct {
	Title          string `json:"title"`
	TargetDate     string `json:"target_date"`
	DaysPerWeek    int    `json:"days_per_week"`
	SessionMinutes int    `json:"session_minutes"`
	PreferredDays  []int  `json:"preferred_days"`
	TimeOfDay      string `json:"time_of_day"`
}

// PlanPayload is the plan shape accepted by the persistence collaborator.
type PlanPayload struct {
	Goal  GoalPayload       `json:"goal"`
	Tasks []domain.PlanTask `json:"tasks"`
}

// NewPlanPayload builds the persisted plan for a submission.
func NewPlanPayload(sub Submission) PlanPayload {
	days := make([]int, 0, len(sub.Fields.PreferredDays))
	for _, d := range sub.Fields.PreferredDays {
		days = append(days, int(d))
	}
	tasks := make([]domain.PlanTask, len(sub.ScheduledSlots))
	for i, s := range sub.ScheduledSlots {
		tasks[i] = domain.TaskFromSlot(s)
	}
	return PlanPayload{
		Goal: GoalPayload{
			Title:          sub.Fields.Goal,
			TargetDate:     sub.Fields.TargetDate,
			DaysPerWeek:    sub.Fields.DaysPerWeek,
			SessionMinutes: sub.Fields.SessionMinutes,
			PreferredDays:  days,
			TimeOfDay:      sub.Fields.TimeOfDay,
		},
		Tasks: tasks,
	}
}

// PlanResult is the plan-creation service's response.
type PlanResult struct {
	GoalID string      `json:"goal_id"`
	Plan   PlanPayload `json:"plan"`
}

type PlanErrorCode string

const (
	PlanErrIncomplete      PlanErrorCode = "INTERVIEW_INCOMPLETE"
	PlanErrInvalidSchedule PlanErrorCode = "INVALID_SCHEDULE"
	PlanErrNoSessions      PlanErrorCode = "NO_SESSIONS"
)

// PlanError rejects a finalize request before anything is submitted.
type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// FinalizeResponse is what finalizing an interview returns to callers.
type FinalizeResponse struct {
	ConversationID string
	Result         *PlanResult
	Slots          []domain.ScheduledSlot
	Warnings       []string
	// Deduplicated is true when Result came from the dedupe cache.
	Deduplicated bool
}
