package dedupe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/goalplan/internal/contract"
	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingSubmitter returns a new goal per call.
type countingSubmitter struct {
	calls atomic.Int32
	err   error
	keys  []string
	mu    sync.Mutex
}

func (s *countingSubmitter) Submit(_ context.Context, key string, sub contract.Submission) (*contract.PlanResult, error) {
	n := s.calls.Add(1)
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &contract.PlanResult{
		GoalID: "goal-" + string(rune('0'+n)),
		Plan:   contract.NewPlanPayload(sub),
	}, nil
}

func testSubmission(goal string) contract.Submission {
	return contract.NewSubmission(
		[]domain.Turn{
			{Role: domain.RoleAssistant, Content: "What goal would you like to work toward?"},
			{Role: domain.RoleUser, Content: goal},
		},
		domain.InterviewFields{
			Goal:           goal,
			TargetDate:     "2026-04-01",
			DaysPerWeek:    3,
			SessionMinutes: 60,
			PreferredDays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			TimeOfDay:      "18:00",
		},
		[]domain.ScheduledSlot{{Title: "Session 1", DueAt: time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC), DurationMinutes: 60, Seq: 1}},
	)
}

func TestDeduplicator_IdenticalWithinWindowCallsOnce(t *testing.T) {
	clock := newFakeClock()
	next := &countingSubmitter{}
	d := New(next, WithClock(clock.Now), WithWindow(5*time.Minute))
	ctx := context.Background()

	first, err := d.Submit(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	second, err := d.Submit(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, next.calls.Load())

	clock.Advance(5 * time.Minute)
	third, err := d.Submit(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)

	assert.EqualValues(t, 2, next.calls.Load())
	assert.NotSame(t, first, third)
	assert.Equal(t, "goal-2", third.GoalID)
}

func TestDeduplicator_HitDoesNotRenewWindow(t *testing.T) {
	clock := newFakeClock()
	next := &countingSubmitter{}
	d := New(next, WithClock(clock.Now), WithWindow(5*time.Minute))
	ctx := context.Background()

	_, err := d.Submit(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	out, err := d.Do(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)
	assert.True(t, out.Cached)

	// Six minutes after the original call: expired even though it was hit at four.
	clock.Advance(2 * time.Minute)
	out, err = d.Do(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.EqualValues(t, 2, next.calls.Load())
}

func TestDeduplicator_FailuresAreNotCached(t *testing.T) {
	boom := errors.New("service unavailable")
	next := &countingSubmitter{err: boom}
	d := New(next)
	ctx := context.Background()

	_, err := d.Submit(ctx, testSubmission("Learn Go"))
	assert.Same(t, boom, err, "error must be returned unmodified")

	next.err = nil
	res, err := d.Submit(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.EqualValues(t, 2, next.calls.Load())
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicator_DifferentPayloadsCallSeparately(t *testing.T) {
	next := &countingSubmitter{}
	d := New(next)
	ctx := context.Background()

	a, err := d.Submit(ctx, testSubmission("Learn Go"))
	require.NoError(t, err)
	b, err := d.Submit(ctx, testSubmission("Learn Rust"))
	require.NoError(t, err)

	assert.NotEqual(t, a.GoalID, b.GoalID)
	assert.EqualValues(t, 2, next.calls.Load())
}

func TestDeduplicator_PassesDigestAsKey(t *testing.T) {
	next := &countingSubmitter{}
	d := New(next)
	sub := testSubmission("Learn Go")

	out, err := d.Do(context.Background(), sub)
	require.NoError(t, err)

	want, err := Digest(sub)
	require.NoError(t, err)
	assert.Equal(t, want, out.Key)
	assert.Equal(t, []string{want}, next.keys)
}

func TestDeduplicator_NilResultIsAnError(t *testing.T) {
	d := New(SubmitterFunc(func(context.Context, string, contract.Submission) (*contract.PlanResult, error) {
		return nil, nil
	}))

	_, err := d.Submit(context.Background(), testSubmission("Learn Go"))
	assert.ErrorIs(t, err, ErrNoResult)
	assert.Zero(t, d.Len())
}

func TestDeduplicator_ConcurrentIdenticalSubmissionsShareOneCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	d := New(SubmitterFunc(func(context.Context, string, contract.Submission) (*contract.PlanResult, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return &contract.PlanResult{GoalID: "goal-1"}, nil
	}))

	const workers = 8
	results := make([]*contract.PlanResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := d.Submit(context.Background(), testSubmission("Learn Go"))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, res := range results {
		assert.Same(t, results[0], res)
	}
}

func TestDeduplicator_CancelledCallerDoesNotFailOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	var callErr atomic.Value
	started := make(chan struct{})
	release := make(chan struct{})
	d := New(SubmitterFunc(func(ctx context.Context, _ string, _ contract.Submission) (*contract.PlanResult, error) {
		calls.Add(1)
		close(started)
		<-release
		callErr.Store(fmt.Sprint(ctx.Err()))
		return &contract.PlanResult{GoalID: "goal-1"}, nil
	}))
	sub := testSubmission("Learn Go")

	firstCtx, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := d.Do(firstCtx, sub)
		firstDone <- err
	}()
	<-started

	secondDone := make(chan Outcome, 1)
	go func() {
		out, err := d.Do(context.Background(), sub)
		assert.NoError(t, err)
		secondDone <- out
	}()

	cancel()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	close(release)
	out := <-secondDone
	require.NotNil(t, out.Result)
	assert.Equal(t, "goal-1", out.Result.GoalID)
	assert.Equal(t, "<nil>", callErr.Load(), "downstream call must outlive the cancelled caller")

	again, err := d.Do(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDigest_IgnoresWhitespaceAndRoleCase(t *testing.T) {
	a := testSubmission("Learn Go")
	b := testSubmission("Learn Go")
	b.Transcript[1].Content = "  Learn   Go \n"
	b.Transcript[0].Role = "Assistant"

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 64)
}

func TestDigest_SensitiveToFieldsAndSlots(t *testing.T) {
	base, err := Digest(testSubmission("Learn Go"))
	require.NoError(t, err)

	changedFields := testSubmission("Learn Go")
	changedFields.Fields.SessionMinutes = 30
	d1, err := Digest(changedFields)
	require.NoError(t, err)

	changedSlots := testSubmission("Learn Go")
	changedSlots.ScheduledSlots[0].DueAt = changedSlots.ScheduledSlots[0].DueAt.Add(time.Hour)
	d2, err := Digest(changedSlots)
	require.NoError(t, err)

	assert.NotEqual(t, base, d1)
	assert.NotEqual(t, base, d2)
}
