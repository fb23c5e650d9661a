package cli

import (
	"time"

	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Conversations service.ConversationService
	Planning      service.PlanningService
	Goals         service.GoalService

	// Now reports the current time in the user's timezone.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal. Confirmations use
	// a huh form when it does and a plain y/n prompt otherwise.
	IsInteractive func() bool

	// MaxSessionMinutes is the session length ceiling shared with the
	// interview. Zero means interview.DefaultMaxSessionMinutes.
	MaxSessionMinutes int
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) maxSessionMinutes() int {
	if a.MaxSessionMinutes <= 0 {
		return interview.DefaultMaxSessionMinutes
	}
	return a.MaxSessionMinutes
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "goalplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "goalplan",
		Short:         "Goal interview and session scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInterviewCmd(app),
		newScheduleCmd(app),
		newDaysCmd(),
		newAuditCmd(app),
		newPlansCmd(app),
	)

	return root
}
