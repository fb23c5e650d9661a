package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn records one message in an interview transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is a resumable interview: its state plus the transcript that
// produced it. GoalID is set once the resulting plan has been submitted.
type Conversation struct {
	ID         string
	State      InterviewState
	Transcript []Turn
	GoalID     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
