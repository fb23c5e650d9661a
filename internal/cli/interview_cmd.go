package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/goalplan/internal/cli/formatter"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/spf13/cobra"
)

func newInterviewCmd(app *App) *cobra.Command {
	var resume string
	var yes bool
	var estimate int

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Plan a goal through a short interview",
		Long: `Asks one question at a time until the goal, target date and session
preferences are known, then previews the schedule and creates the plan.
Progress is saved after every answer; stop with Ctrl-D and continue later
with --resume.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, out := cmd.InOrStdin(), cmd.OutOrStdout()

			conv, err := startOrResume(ctx, app, resume)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Dim("conversation "+conv.ID))

			for !conv.State.IsComplete() {
				fmt.Fprintf(out, "%s\n> ", formatter.Bold(app.Conversations.Question(conv)))
				line, err := readPromptLine(in)
				if err != nil && line == "" {
					if errors.Is(err, io.EOF) {
						fmt.Fprintf(out, "\n%s\n", formatter.Dim("Interview saved. Resume with: goalplan interview --resume "+conv.ID))
						return nil
					}
					return err
				}

				ar, err := app.Conversations.Answer(ctx, conv.ID, line)
				if err != nil {
					return err
				}
				if !ar.Result.Success {
					fmt.Fprintln(out, formatter.Fail(ar.Result.Error))
				}
				if ar.Result.Warning != "" {
					fmt.Fprintln(out, formatter.Warn(ar.Result.Warning))
				}
				conv = ar.Conversation
			}

			return finishInterview(ctx, app, in, out, conv, yes, estimate)
		},
	}

	cmd.Flags().StringVar(&resume, "resume", "", "Continue a saved interview by ID or ID prefix")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Create the plan without asking for confirmation")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Sessions you expect the goal to need; checks the timeline against it")

	cmd.AddCommand(newInterviewListCmd(app))
	return cmd
}

func startOrResume(ctx context.Context, app *App, resume string) (*domain.Conversation, error) {
	if resume == "" {
		return app.Conversations.Start(ctx)
	}
	id, err := resolveConversationID(ctx, app, resume)
	if err != nil {
		return nil, err
	}
	return app.Conversations.Get(ctx, id)
}

func finishInterview(ctx context.Context, app *App, in io.Reader, out io.Writer, conv *domain.Conversation, yes bool, estimate int) error {
	if conv.GoalID != nil {
		fmt.Fprintln(out, formatter.OK("This interview already produced plan "+*conv.GoalID))
		return nil
	}

	preview, err := app.Planning.Preview(ctx, conv.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", formatter.Header("Proposed schedule"))
	fmt.Fprint(out, formatter.FormatPlanSummary(preview.Plan))
	fmt.Fprintln(out)
	fmt.Fprint(out, formatter.FormatSchedule(preview.Plan.Slots, app.now()))
	fmt.Fprint(out, formatter.FormatWarnings(preview.Warnings))

	if estimate > 0 {
		advice, err := app.Conversations.CheckRealism(ctx, conv.ID, estimate)
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatter.FormatAdvice(advice))
	}

	if !yes {
		ok, err := confirm(app, in, out, "Create this plan?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, formatter.Dim("Plan not created. Resume with: goalplan interview --resume "+conv.ID))
			return nil
		}
	}

	resp, err := app.Planning.Finalize(ctx, conv.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.OK(fmt.Sprintf("Plan created: goal %s with %d session(s)", resp.Result.GoalID, len(resp.Slots))))
	if resp.Deduplicated {
		fmt.Fprintln(out, formatter.Dim("An identical plan was submitted moments ago; reusing it."))
	}
	return nil
}

func newInterviewListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent interviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			convs, err := app.Conversations.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(convs) == 0 {
				fmt.Fprintln(out, formatter.Dim("No interviews yet."))
				return nil
			}

			now := app.now()
			rows := make([][]string, len(convs))
			for i, c := range convs {
				goal := formatter.Dim("--")
				if c.GoalID != nil {
					goal = formatter.TruncID(*c.GoalID)
				}
				rows[i] = []string{
					formatter.TruncID(c.ID),
					string(c.State.Current),
					c.State.Fields.Goal,
					goal,
					formatter.RelativeDateFrom(c.UpdatedAt, now),
				}
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"ID", "STEP", "GOAL", "PLAN", "UPDATED"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of interviews to show")
	return cmd
}
