package cli

import (
	"fmt"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/spf13/pflag"
)

// daySetFlag is a --days flag parsed as a day expression. Set rejects
// expressions that name no days.
type daySetFlag struct {
	expr string
	set  dayexpr.Set
}

var _ pflag.Value = (*daySetFlag)(nil)

func (f *daySetFlag) String() string {
	if f.set.IsEmpty() {
		return f.expr
	}
	return f.set.String()
}

func (f *daySetFlag) Set(expr string) error {
	s := dayexpr.Parse(expr)
	if s.IsEmpty() {
		return fmt.Errorf("no days recognized in %q", expr)
	}
	f.expr, f.set = expr, s
	return nil
}

func (f *daySetFlag) Type() string { return "days" }

// registerDaysFlag adds --days to fs.
func registerDaysFlag(fs *pflag.FlagSet, f *daySetFlag, usage string) {
	fs.Var(f, "days", usage)
}
