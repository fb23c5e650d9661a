package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/goalplan/internal/cli/formatter"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/spf13/cobra"
)

func newPlansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List plans in the local plan store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := app.Goals.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoalList(goals))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show a plan and its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGoalID(ctx, app, args[0])
			if err != nil {
				return err
			}
			goal, tasks, err := app.Goals.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoalDetail(goal, tasks))
			return nil
		},
	})

	cmd.AddCommand(
		newTaskStatusCmd(app, "done", "Mark a session as completed", domain.TaskCompleted),
		newTaskStatusCmd(app, "skip", "Mark a session as skipped", domain.TaskSkipped),
		newTaskStatusCmd(app, "reset", "Mark a session as pending again", domain.TaskPending),
	)

	return cmd
}

func newTaskStatusCmd(app *App, use, short string, status domain.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID SEQ",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGoalID(ctx, app, args[0])
			if err != nil {
				return err
			}
			seq, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid session number %q", args[1])
			}
			if err := app.Goals.SetTaskStatus(ctx, id, seq, status); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.OK(fmt.Sprintf("Session %d: %s", seq, status)))
			return nil
		},
	}
}
