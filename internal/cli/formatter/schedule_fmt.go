package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/goalplan/internal/dayexpr"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/scheduler"
)

const dueLayout = "Mon Jan 2 2006 15:04"

// FormatSchedule renders slots as a table with due times relative to now.
func FormatSchedule(slots []domain.ScheduledSlot, now time.Time) string {
	if len(slots) == 0 {
		return Dim("No sessions scheduled.") + "\n"
	}
	rows := make([][]string, len(slots))
	total := 0
	for i, s := range slots {
		rows[i] = []string{
			strconv.Itoa(s.Seq),
			s.Title,
			s.DueAt.Format(dueLayout),
			Dim(RelativeDateFrom(s.DueAt, now)),
			FormatMinutes(s.DurationMinutes),
		}
		total += s.DurationMinutes
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"#", "SESSION", "DUE", "WHEN", "LENGTH"}, rows))
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d session(s), %s total", len(slots), FormatMinutes(total))))
	return b.String()
}

// FormatPlanSummary renders the numbers behind a built schedule.
func FormatPlanSummary(p scheduler.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s → %s\n", Bold("Window:"),
		p.Tomorrow.Format(domain.DateLayout), p.Target.Format(domain.DateLayout))
	fmt.Fprintf(&b, "%s %s\n", Bold("Days:"), p.Days)
	fmt.Fprintf(&b, "%s %d week(s), %d requested, %d matching date(s)\n",
		Bold("Capacity:"), p.WeeksUntilTarget, p.Requested, p.Candidates)
	return b.String()
}

// FormatReport renders a structural validation report.
func FormatReport(r scheduler.Report) string {
	if r.IsValid {
		return OK("schedule is consistent") + "\n"
	}
	var b strings.Builder
	for _, e := range r.Errors {
		b.WriteString(Fail(e) + "\n")
	}
	return b.String()
}

// FormatAudit renders a day-of-week audit: violations first, then the summary.
func FormatAudit(a scheduler.DayAudit) string {
	var b strings.Builder
	if len(a.Violations) > 0 {
		rows := make([][]string, len(a.Violations))
		for i, v := range a.Violations {
			rows[i] = []string{
				strconv.Itoa(v.Seq),
				v.Title,
				StyleRed.Render(v.DayName),
				strconv.Itoa(v.DayNumber),
				v.DueAt.Format(dueLayout),
			}
		}
		b.WriteString(RenderTable([]string{"#", "TASK", "DAY", "DAY NO.", "DUE"}, rows))
		b.WriteString("\n")
	}
	if a.IsValid {
		b.WriteString(OK(a.Summary.String()) + "\n")
	} else {
		b.WriteString(Fail(a.Summary.String()) + "\n")
	}
	return b.String()
}

// FormatDaySet renders a parsed day expression.
func FormatDaySet(expr string, s dayexpr.Set) string {
	if s.IsEmpty() {
		return Fail(fmt.Sprintf("no days recognized in %q", expr)) + "\n"
	}
	nums := make([]string, 0, s.Len())
	for _, n := range s.Numbers() {
		nums = append(nums, strconv.Itoa(n))
	}
	return fmt.Sprintf("%s\n%s %s\n", Bold(s.String()), Dim("numbers:"), strings.Join(nums, ", "))
}

// FormatAdvice renders timeline realism advice.
func FormatAdvice(a interview.Advice) string {
	return fmt.Sprintf("%s %s\n", AdviceIndicator(a.Kind), a.Message)
}

// FormatWarnings renders one warning per line.
func FormatWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(Warn(w) + "\n")
	}
	return b.String()
}

// FormatGoalList renders stored goals.
func FormatGoalList(goals []*domain.Goal) string {
	if len(goals) == 0 {
		return Dim("No plans yet.") + "\n"
	}
	rows := make([][]string, len(goals))
	for i, g := range goals {
		rows[i] = []string{
			TruncID(g.ID),
			g.Title,
			g.TargetDate,
			fmt.Sprintf("%d/wk", g.DaysPerWeek),
			FormatMinutes(g.SessionMinutes),
		}
	}
	return RenderTable([]string{"ID", "GOAL", "TARGET", "FREQ", "SESSION"}, rows)
}

// FormatGoalDetail renders a goal and its tasks.
func FormatGoalDetail(g *domain.Goal, tasks []domain.PlanTask) string {
	var b strings.Builder
	b.WriteString(Header(g.Title) + "\n")
	fmt.Fprintf(&b, "%s %s\n", Bold("Target:"), g.TargetDate)
	fmt.Fprintf(&b, "%s %s\n", Bold("Days:"), dayexpr.SetOf(g.PreferredDays...))
	fmt.Fprintf(&b, "%s %d per week, %s each\n\n", Bold("Sessions:"), g.DaysPerWeek, FormatMinutes(g.SessionMinutes))

	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			strconv.Itoa(t.Seq),
			t.Title,
			t.DueAt.Format(dueLayout),
			TaskStatusPill(t.Status),
		}
	}
	b.WriteString(RenderTable([]string{"#", "TASK", "DUE", "STATUS"}, rows))
	return b.String()
}
