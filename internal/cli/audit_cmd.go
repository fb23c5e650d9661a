package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/goalplan/internal/cli/formatter"
	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/scheduler"
	"github.com/spf13/cobra"
)

// ErrAuditViolations is returned when an audited schedule has tasks on
// disallowed days.
var ErrAuditViolations = errors.New("schedule has tasks on disallowed days")

func newAuditCmd(app *App) *cobra.Command {
	var days daySetFlag
	var tz string

	cmd := &cobra.Command{
		Use:   "audit FILE",
		Short: "Check a generated schedule against allowed days",
		Long: `Reads tasks as JSON (a task array or a plan with a "tasks" field; "-" reads
stdin), re-derives each task's weekday from its due time and reports every
task that falls outside the allowed days. Tasks are never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc *time.Location
			if tz != "" {
				var err error
				if loc, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("--tz: %w", err)
				}
			}

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			tasks, err := decodeTasks(data)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			audit := scheduler.ValidateTaskDaysIn(tasks, days.set, loc)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAudit(audit))
			if !audit.IsValid {
				return fmt.Errorf("%w: %d of %d", ErrAuditViolations, audit.Summary.Violations, audit.Summary.Total)
			}
			return nil
		},
	}

	registerDaysFlag(cmd.Flags(), &days, `Allowed days ("weekdays", "mon, wed, fri")`)
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone to derive weekdays in (default: each due time's own offset)")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// decodeTasks accepts a bare task array or a plan payload.
func decodeTasks(data []byte) ([]domain.PlanTask, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []domain.PlanTask
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	}

	var plan contract.PlanPayload
	if err := json.Unmarshal(trimmed, &plan); err != nil {
		return nil, err
	}
	return plan.Tasks, nil
}
