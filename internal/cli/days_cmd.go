package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/goalplan/internal/cli/formatter"
	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/spf13/cobra"
)

func newDaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "days EXPR",
		Short:   "Show which weekdays a day expression means",
		Example: `  goalplan days weekdays
  goalplan days "monday through friday"
  goalplan days tue, thu, sat`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(args, " ")
			set := dayexpr.Parse(expr)
			if set.IsEmpty() {
				return fmt.Errorf("no days recognized in %q", expr)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDaySet(expr, set))
			return nil
		},
	}
}
