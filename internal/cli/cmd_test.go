package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/goalplan/internal/dedupe"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/interview"
	"github.com/alexanderramin/goalplan/internal/repository"
	"github.com/alexanderramin/goalplan/internal/service"
	"github.com/alexanderramin/goalplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB with the clock frozen
// at testutil.FixedNow.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	convRepo := repository.NewSQLiteConversationRepo(database)
	store := service.NewPlanStore(repository.NewSQLiteGoalRepo(database), testutil.NewTestUoW(database))
	engine := interview.NewEngine(interview.WithClock(testutil.Clock()))

	return &App{
		Conversations: service.NewConversationService(convRepo, engine),
		Planning:      service.NewPlanningService(convRepo, dedupe.New(store, dedupe.WithClock(testutil.Clock())), testutil.Clock()),
		Goals:         store,
		Now:           testutil.Clock(),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command with stdin set to input and captures output.
func executeCmd(t *testing.T, app *App, input string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetIn(strings.NewReader(input))
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

const interviewInput = "Learn conversational Spanish\n2026-04-01\n3\n60\nmon, wed, fri\n18:00\n"

// --- days ---

func TestDaysCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "", "days", "monday", "through", "friday")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon, Tue, Wed, Thu, Fri")
	assert.Contains(t, out, "1, 2, 3, 4, 5")
}

func TestDaysCmd_Unrecognized(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "", "days", "blursday")
	assert.ErrorContains(t, err, `no days recognized in "blursday"`)
}

// --- schedule ---

func TestScheduleCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "", "schedule",
		"--target", "2026-04-01",
		"--days-per-week", "3",
		"--days", "mon, wed, fri",
		"--time", "18:00",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "12 session(s), 12h total")
	assert.Contains(t, out, "schedule is consistent")
	assert.Contains(t, out, "all 12 task(s) fall on allowed days")
	assert.Contains(t, out, "Fri Mar 6 2026 18:00")
}

func TestScheduleCmd_JSON(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "", "schedule",
		"--target", "2026-04-01",
		"--days", "mon, wed, fri",
		"--time", "18:00",
		"--json",
	)
	require.NoError(t, err)

	var slots []domain.ScheduledSlot
	require.NoError(t, json.Unmarshal([]byte(out), &slots))
	require.Len(t, slots, 12)
	assert.Equal(t, "Session 1", slots[0].Title)
	assert.Equal(t, 12, slots[11].Seq)
}

func TestScheduleCmd_NowOverrideAndTimezone(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Tokyo"); err != nil {
		t.Skip("timezone data unavailable")
	}
	out, err := executeCmd(t, testApp(t), "", "schedule",
		"--now", "2026-03-04T20:00:00Z",
		"--tz", "Asia/Tokyo",
		"--target", "2026-03-13",
		"--days", "weekdays",
		"--days-per-week", "5",
		"--json",
	)
	require.NoError(t, err)

	// 20:00 UTC is already Thursday the 5th in Tokyo, so the window starts Friday.
	var slots []domain.ScheduledSlot
	require.NoError(t, json.Unmarshal([]byte(out), &slots))
	require.NotEmpty(t, slots)
	assert.Equal(t, 6, slots[0].DueAt.Day())
}

func TestScheduleCmd_RejectsTodayAsTarget(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "", "schedule", "--target", "2026-03-04")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "--target: "), err.Error())
}

func TestScheduleCmd_RejectsUnknownDays(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "", "schedule", "--target", "2026-04-01", "--days", "someday")
	assert.ErrorContains(t, err, "--days: ")
}

func TestScheduleCmd_SessionCeilingFollowsApp(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "", "schedule", "--target", "2026-04-01", "--minutes", "2h")
	require.NoError(t, err)

	app := testApp(t)
	app.MaxSessionMinutes = 90
	_, err = executeCmd(t, app, "", "schedule", "--target", "2026-04-01", "--minutes", "2h")
	assert.ErrorContains(t, err, "--minutes: ")

	_, err = executeCmd(t, app, "", "schedule", "--target", "2026-04-01", "--minutes", "90")
	assert.NoError(t, err)
}

// --- audit ---

func writeTasks(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func weekOfTasks() []domain.PlanTask {
	tasks := make([]domain.PlanTask, 7)
	monday := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	for i := range tasks {
		tasks[i] = domain.PlanTask{
			Title:  "Session",
			Seq:    i + 1,
			DueAt:  monday.AddDate(0, 0, i),
			Status: domain.TaskPending,
		}
	}
	return tasks
}

func TestAuditCmd_ReportsWeekendViolations(t *testing.T) {
	path := writeTasks(t, weekOfTasks())

	out, err := executeCmd(t, testApp(t), "", "audit", path, "--days", "weekdays")
	assert.ErrorIs(t, err, ErrAuditViolations)
	assert.Contains(t, out, "Saturday")
	assert.Contains(t, out, "Sunday")
	assert.Contains(t, out, "2 of 7 task(s) fall outside allowed days")
}

func TestAuditCmd_AcceptsPlanPayloadFromStdin(t *testing.T) {
	payload := map[string]any{"goal": map[string]any{"title": "x"}, "tasks": weekOfTasks()[:5]}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	out, err := executeCmd(t, testApp(t), string(data), "audit", "-", "--days", "mon-fri")
	require.NoError(t, err)
	assert.Contains(t, out, "all 5 task(s) fall on allowed days")
}

func TestAuditCmd_RequiresDays(t *testing.T) {
	path := writeTasks(t, weekOfTasks())
	_, err := executeCmd(t, testApp(t), "", "audit", path, "--days", "nope")
	assert.ErrorContains(t, err, "--days")
}

// --- interview and plans ---

func TestInterviewCmd_EndToEnd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, interviewInput+"y\n", "interview")
	require.NoError(t, err)
	assert.Contains(t, out, "What goal would you like to work toward?")
	assert.Contains(t, out, "PROPOSED SCHEDULE")
	assert.Contains(t, out, "12 session(s)")
	assert.Contains(t, out, "Create this plan? [Y/n]")
	assert.Contains(t, out, "Plan created")

	out, err = executeCmd(t, app, "", "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "Learn conversational Spanish")
	assert.Contains(t, out, "3/wk")
}

func TestInterviewCmd_RejectedAnswerIsAskedAgain(t *testing.T) {
	app := testApp(t)

	input := "Learn conversational Spanish\n2026-03-04\n" + strings.TrimPrefix(interviewInput, "Learn conversational Spanish\n")
	out, err := executeCmd(t, app, input, "interview", "--yes")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "By what date do you want to reach it?"))
	assert.Contains(t, out, "✖ ")
	assert.Contains(t, out, "Plan created")
}

func TestInterviewCmd_DeclineLeavesNoPlan(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, interviewInput+"n\n", "interview")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan not created")

	goals, err := app.Goals.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestInterviewCmd_SaveAndResume(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	out, err := executeCmd(t, app, "Learn conversational Spanish\n2026-04-01\n", "interview")
	require.NoError(t, err)
	assert.Contains(t, out, "Interview saved")

	convs, err := app.Conversations.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, domain.StepDaysPerWeek, convs[0].State.Current)

	out, err = executeCmd(t, app, "3\n60\nmon, wed, fri\n18:00\n", "interview", "--resume", convs[0].ID[:8], "--yes", "--estimate", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "REALISTIC")
	assert.Contains(t, out, "Plan created")

	out, err = executeCmd(t, app, "", "interview", "--resume", convs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "already produced plan")
}

func TestInterviewListCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "Learn conversational Spanish\n", "interview")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "", "interview", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TARGET_DATE")
	assert.Contains(t, out, "Learn conversational Spanish")
}

func TestPlansShowCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, interviewInput, "interview", "--yes")
	require.NoError(t, err)

	goals, err := app.Goals.List(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 1)

	out, err := executeCmd(t, app, "", "plans", "show", goals[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "LEARN CONVERSATIONAL SPANISH")
	assert.Contains(t, out, "Mon, Wed, Fri")
	assert.Equal(t, 12, strings.Count(out, "Pending"))
}

func TestPlansDoneCmd(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	_, err := executeCmd(t, app, interviewInput, "interview", "--yes")
	require.NoError(t, err)

	goals, err := app.Goals.List(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	out, err := executeCmd(t, app, "", "plans", "done", goals[0].ID, "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Session 2: completed")

	_, tasks, err := app.Goals.Get(ctx, goals[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, tasks[1].Status)

	_, err = executeCmd(t, app, "", "plans", "skip", goals[0].ID, "99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
