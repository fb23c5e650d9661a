package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/goalplan/internal/cli/formatter"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/scheduler"
	"github.com/alexanderramin/goalplan/internal/service"
	"github.com/spf13/cobra"
)

type scheduleFlags struct {
	goal        string
	target      string
	daysPerWeek string
	minutes     string
	days        string
	timeOfDay   string
	now         string
	tz          string
	asJSON      bool
}

func newScheduleCmd(app *App) *cobra.Command {
	var f scheduleFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Build and check a schedule without an interview",
		Long: `Validates the flags exactly as the interview validates answers, builds the
session schedule, and runs both the structural check and the day audit.
Nothing is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			now, err := resolveNow(app, f.now, f.tz)
			if err != nil {
				return err
			}
			fields, err := f.fields(now, app.maxSessionMinutes())
			if err != nil {
				return err
			}

			plan, err := scheduler.PlanSchedule(fields, now)
			if err != nil {
				return err
			}
			if f.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan.Slots)
			}

			report := scheduler.ValidateSchedule(plan.Slots, now)
			audit := scheduler.ValidateTaskDaysIn(scheduler.TasksFromSlots(plan.Slots), plan.Days, now.Location())

			fmt.Fprint(out, formatter.FormatPlanSummary(plan))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatSchedule(plan.Slots, now))
			fmt.Fprint(out, formatter.FormatWarnings(service.PlanWarnings(plan)))
			fmt.Fprint(out, formatter.FormatReport(report))
			fmt.Fprint(out, formatter.FormatAudit(audit))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.goal, "goal", "Untitled goal", "Goal description")
	cmd.Flags().StringVar(&f.target, "target", "", "Target date (YYYY-MM-DD and other common layouts)")
	cmd.Flags().StringVar(&f.daysPerWeek, "days-per-week", "3", "Sessions per week (1-7)")
	cmd.Flags().StringVar(&f.minutes, "minutes", "60", `Session length ("45", "1 hour", "1h30")`)
	cmd.Flags().StringVar(&f.days, "days", "weekdays", `Preferred days ("weekdays", "mon-fri", "tue, thu")`)
	cmd.Flags().StringVar(&f.timeOfDay, "time", domain.TimeOfDayDefault, `Session start (HH:MM or "default")`)
	cmd.Flags().StringVar(&f.now, "now", "", "Override the current time (RFC 3339)")
	cmd.Flags().StringVar(&f.tz, "tz", "", "IANA timezone to schedule in")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print slots as JSON")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// fields runs every flag through its interview validator.
func (f scheduleFlags) fields(now time.Time, maxSessionMinutes int) (domain.InterviewFields, error) {
	var out domain.InterviewFields
	var err error

	if out.Goal, err = interview.ValidateGoal(f.goal); err != nil {
		return out, flagError("goal", err)
	}
	target, err := interview.ValidateTargetDate(f.target, now)
	if err != nil {
		return out, flagError("target", err)
	}
	out.TargetDate = target.Format(domain.DateLayout)
	if out.DaysPerWeek, err = interview.ValidateDaysPerWeek(f.daysPerWeek); err != nil {
		return out, flagError("days-per-week", err)
	}
	if out.SessionMinutes, err = interview.ValidateSessionMinutes(f.minutes, maxSessionMinutes); err != nil {
		return out, flagError("minutes", err)
	}
	days, err := interview.ValidatePreferredDays(f.days)
	if err != nil {
		return out, flagError("days", err)
	}
	out.PreferredDays = days.Days()
	if out.TimeOfDay, err = interview.ValidateTimeOfDay(f.timeOfDay); err != nil {
		return out, flagError("time", err)
	}
	return out, nil
}

func flagError(flag string, err error) error {
	var verr *interview.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("--%s: %s", flag, verr.Message)
	}
	return fmt.Errorf("--%s: %w", flag, err)
}

// resolveNow returns the --now override or the app clock, moved into tz
// when one is given.
func resolveNow(app *App, override, tz string) (time.Time, error) {
	now := app.now()
	if strings.TrimSpace(override) != "" {
		t, err := time.Parse(time.RFC3339, override)
		if err != nil {
			return time.Time{}, fmt.Errorf("--now: %w", err)
		}
		now = t
	}
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, fmt.Errorf("--tz: %w", err)
		}
		now = now.In(loc)
	}
	return now, nil
}
