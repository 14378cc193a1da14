package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"guildbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	titleCompleted  = "🎉 Timer Completed!"
	titleHalfway    = "⏰ Halfway point reached!"
	titleFiveMin    = "⏰ 5 minutes remaining!"
	titleOneMin     = "⏰ 1 minute remaining!"
	titleWorkDone   = "🎉 Work Session Complete!"
	titleBreakOver  = "🔄 Break Time Over!"
	titleSessionEnd = "🏆 Pomodoro Session Complete!"
)

func TestTimerEngine_CompletesExactlyOnce(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	ctx := context.Background()

	timer, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 5, "Tea", entities.TimerOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.TimerStateRunning, timer.State())
	assert.Equal(t, testEpoch.Add(5*time.Second), timer.ScheduledEndAt)

	runSeconds(clock, engine, 4)
	got, ok := engine.GetTimer(timer.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.RemainingSeconds)
	assert.Equal(t, 0, countTitle(sentTitles(notifier), titleCompleted))

	runSeconds(clock, engine, 1)
	got, _ = engine.GetTimer(timer.ID)
	assert.Equal(t, entities.TimerStateCompleted, got.State())
	assert.Equal(t, 1, countTitle(sentTitles(notifier), titleCompleted))
	assert.Empty(t, engine.ActiveTimers(""))

	runSeconds(clock, engine, 10)
	titles := sentTitles(notifier)
	assert.Equal(t, 1, countTitle(titles, titleCompleted))
	assert.Equal(t, 1, countTitle(titles, titleHalfway))
}

func TestTimerEngine_PauseFreezesRemainingTime(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	ctx := context.Background()

	timer, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindReminder, 5, "Stretch", entities.TimerOptions{})
	require.NoError(t, err)

	runSeconds(clock, engine, 2)
	require.True(t, engine.PauseTimer(timer.ID))
	assert.False(t, engine.PauseTimer(timer.ID))

	// an hour of wall clock while paused changes nothing
	runSeconds(clock, engine, 3600)
	got, _ := engine.GetTimer(timer.ID)
	assert.Equal(t, 3, got.RemainingSeconds)
	assert.Equal(t, entities.TimerStatePaused, got.State())

	require.True(t, engine.ResumeTimer(timer.ID))
	assert.False(t, engine.ResumeTimer(timer.ID))
	got, _ = engine.GetTimer(timer.ID)
	assert.Equal(t, clock.Now().Add(3*time.Second), got.ScheduledEndAt)

	runSeconds(clock, engine, 2)
	assert.Equal(t, 0, countTitle(sentTitles(notifier), titleCompleted))

	runSeconds(clock, engine, 1)
	assert.Equal(t, 1, countTitle(sentTitles(notifier), titleCompleted))
}

func TestTimerEngine_StopCancelsTicking(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	ctx := context.Background()

	timer, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 10, "Soon", entities.TimerOptions{})
	require.NoError(t, err)

	runSeconds(clock, engine, 2)
	assert.True(t, engine.StopTimer(timer.ID))
	assert.False(t, engine.StopTimer(timer.ID))

	_, ok := engine.GetTimer(timer.ID)
	assert.False(t, ok)
	assert.False(t, engine.PauseTimer(timer.ID))

	runSeconds(clock, engine, 20)
	notifier.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestTimerEngine_StopFinishedTimerIsRejected(t *testing.T) {
	clock := newTestClock()
	engine, _ := newTestEngine(t, clock)
	ctx := context.Background()

	timer, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 3, "Done", entities.TimerOptions{})
	require.NoError(t, err)

	runSeconds(clock, engine, 3)
	finished, ok := engine.GetTimer(timer.ID)
	require.True(t, ok)
	require.False(t, finished.IsActive)

	assert.False(t, engine.StopTimer(timer.ID))

	_, ok = engine.GetTimer(timer.ID)
	assert.True(t, ok, "finished timer stays until cleanup")
}

func TestTimerEngine_PomodoroTwoCycles(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	ctx := context.Background()

	plan := entities.PomodoroPlan{WorkSeconds: 10, ShortBreakSeconds: 3, LongBreakSeconds: 6, TotalCycles: 2}
	work, err := engine.StartPomodoro(ctx, "u1", "ch1", plan)
	require.NoError(t, err)
	assert.Equal(t, entities.PhaseWork, work.Phase)
	assert.Equal(t, 0, work.CycleIndex)

	runSeconds(clock, engine, 10)
	active := engine.ActiveTimers("u1")
	require.Len(t, active, 1)
	brk := active[0]
	assert.Equal(t, entities.PhaseShortBreak, brk.Phase)
	assert.Equal(t, entities.TimerKindBreak, brk.Kind)
	assert.Equal(t, 3, brk.DurationSeconds)
	assert.Equal(t, 1, brk.CycleIndex)
	assert.Equal(t, work.SessionID, brk.SessionID)

	runSeconds(clock, engine, 3)
	active = engine.ActiveTimers("u1")
	require.Len(t, active, 1)
	second := active[0]
	assert.Equal(t, entities.PhaseWork, second.Phase)
	assert.Equal(t, 10, second.DurationSeconds)
	assert.Equal(t, "Work Session 2", second.Name)

	runSeconds(clock, engine, 10)
	assert.Empty(t, engine.ActiveTimers("u1"))
	final, ok := engine.GetTimer(second.ID)
	require.True(t, ok)
	assert.Equal(t, 2, final.CycleIndex)

	// nothing else is ever spawned
	runSeconds(clock, engine, 30)
	assert.Empty(t, engine.ActiveTimers(""))

	var flow []string
	for _, title := range sentTitles(notifier) {
		switch title {
		case titleWorkDone, titleBreakOver, titleSessionEnd, titleCompleted:
			flow = append(flow, title)
		}
	}
	assert.Equal(t, []string{titleWorkDone, titleBreakOver, titleSessionEnd}, flow)
}

func TestTimerEngine_PomodoroLongBreakEveryFourthCycle(t *testing.T) {
	clock := newTestClock()
	engine, _ := newTestEngine(t, clock)
	ctx := context.Background()

	var phases []entities.Phase
	engine.OnComplete(func(ctx context.Context, tm entities.Timer) {
		phases = append(phases, tm.Phase)
	})

	plan := entities.PomodoroPlan{WorkSeconds: 2, ShortBreakSeconds: 1, LongBreakSeconds: 3, TotalCycles: 5}
	_, err := engine.StartPomodoro(ctx, "u1", "ch1", plan)
	require.NoError(t, err)

	for i := 0; i < 100 && len(engine.ActiveTimers("")) > 0; i++ {
		runSeconds(clock, engine, 1)
	}

	w, s, l := entities.PhaseWork, entities.PhaseShortBreak, entities.PhaseLongBreak
	assert.Equal(t, []entities.Phase{w, s, w, s, w, s, w, l, w}, phases)
}

func TestTimerEngine_PomodoroValidation(t *testing.T) {
	engine, _ := newTestEngine(t, newTestClock())

	_, err := engine.StartPomodoro(context.Background(), "u1", "ch1", entities.PomodoroPlan{WorkSeconds: 10})
	assert.True(t, errors.Is(err, ErrInvalidTimer))
}

func TestTimerEngine_ThresholdNotifications(t *testing.T) {
	t.Run("long timer fires every warning in order", func(t *testing.T) {
		clock := newTestClock()
		engine, notifier := newTestEngine(t, clock)

		_, err := engine.CreateTimer(context.Background(), "u1", "ch1", entities.TimerKindStudy, 400, "Read", entities.TimerOptions{})
		require.NoError(t, err)

		runSeconds(clock, engine, 400)
		assert.Equal(t, []string{titleFiveMin, titleHalfway, titleOneMin, titleCompleted}, sentTitles(notifier))
	})

	t.Run("short timer skips the five minute warning", func(t *testing.T) {
		clock := newTestClock()
		engine, notifier := newTestEngine(t, clock)

		_, err := engine.CreateTimer(context.Background(), "u1", "ch1", entities.TimerKindCustom, 200, "Nap", entities.TimerOptions{})
		require.NoError(t, err)

		runSeconds(clock, engine, 200)
		assert.Equal(t, []string{titleHalfway, titleOneMin, titleCompleted}, sentTitles(notifier))
	})

	t.Run("disabled flags stay quiet", func(t *testing.T) {
		clock := newTestClock()
		engine, notifier := newTestEngine(t, clock)

		_, err := engine.CreateTimer(context.Background(), "u1", "ch1", entities.TimerKindCustom, 400, "Quiet", entities.TimerOptions{
			Notifications: &entities.NotificationFlags{},
		})
		require.NoError(t, err)

		runSeconds(clock, engine, 400)
		assert.Equal(t, []string{titleCompleted}, sentTitles(notifier))
	})

	t.Run("pausing before a threshold still fires it after resume", func(t *testing.T) {
		clock := newTestClock()
		engine, notifier := newTestEngine(t, clock)

		timer, err := engine.CreateTimer(context.Background(), "u1", "ch1", entities.TimerKindCustom, 120, "Gap", entities.TimerOptions{
			Notifications: &entities.NotificationFlags{OneMin: true},
		})
		require.NoError(t, err)

		runSeconds(clock, engine, 59)
		engine.PauseTimer(timer.ID)
		runSeconds(clock, engine, 10)
		engine.ResumeTimer(timer.ID)
		runSeconds(clock, engine, 61)

		assert.Equal(t, []string{titleOneMin, titleCompleted}, sentTitles(notifier))
	})
}

func TestTimerEngine_MentionsOwner(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)

	_, err := engine.CreateTimer(context.Background(), "u42", "ch9", entities.TimerKindCustom, 1, "Ping", entities.TimerOptions{
		Notifications: &entities.NotificationFlags{},
	})
	require.NoError(t, err)
	runSeconds(clock, engine, 1)

	notifier.AssertCalled(t, "ResolveChannel", mock.Anything, "ch9")
	notifier.AssertCalled(t, "SendMessage", mock.Anything, "ch9", mock.MatchedBy(func(m entities.Message) bool {
		return m.Content == "<@u42>" && m.Title == titleCompleted
	}))
}

func TestTimerEngine_Recurrence(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	ctx := context.Background()

	_, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindReminder, 5, "Drink water", entities.TimerOptions{
		Recurring:     &entities.Recurrence{IntervalSeconds: 10, Times: 3},
		Notifications: &entities.NotificationFlags{},
	})
	require.NoError(t, err)

	runSeconds(clock, engine, 5)
	assert.Equal(t, 1, countTitle(sentTitles(notifier), titleCompleted))
	assert.Equal(t, 1, engine.PendingRecurrences())
	assert.Empty(t, engine.ActiveTimers(""))

	runSeconds(clock, engine, 10)
	active := engine.ActiveTimers("")
	require.Len(t, active, 1)
	assert.Equal(t, 5, active[0].RemainingSeconds)
	assert.Equal(t, 2, active[0].Recurring.Times)

	runSeconds(clock, engine, 5+10+5)
	assert.Equal(t, 3, countTitle(sentTitles(notifier), titleCompleted))
	assert.Equal(t, 0, engine.PendingRecurrences())

	runSeconds(clock, engine, 60)
	assert.Equal(t, 3, countTitle(sentTitles(notifier), titleCompleted))
}

func TestTimerEngine_StopCancelsPendingRecurrence(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	ctx := context.Background()

	var finished []string
	engine.OnComplete(func(ctx context.Context, tm entities.Timer) {
		finished = append(finished, tm.ID)
	})

	_, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindReminder, 2, "Forever", entities.TimerOptions{
		Recurring:     &entities.Recurrence{IntervalSeconds: 3},
		Notifications: &entities.NotificationFlags{},
	})
	require.NoError(t, err)

	runSeconds(clock, engine, 2+3+2)
	require.Len(t, finished, 2)
	assert.Equal(t, 1, engine.PendingRecurrences())

	assert.True(t, engine.StopTimer(finished[1]))
	assert.Equal(t, 0, engine.PendingRecurrences())

	runSeconds(clock, engine, 30)
	assert.Equal(t, 2, countTitle(sentTitles(notifier), titleCompleted))
}

func TestTimerEngine_StudySession(t *testing.T) {
	clock := newTestClock()
	engine, _ := newTestEngine(t, clock)
	ctx := context.Background()

	var credited []entities.Timer
	engine.OnComplete(func(ctx context.Context, tm entities.Timer) {
		credited = append(credited, tm)
	})

	session, timer, err := engine.StartStudySession(ctx, "u1", "ch1", "Go", 120)
	require.NoError(t, err)
	assert.Equal(t, "Study: Go", timer.Name)
	assert.Equal(t, 2, session.DurationMinutes)
	assert.False(t, session.Completed)

	runSeconds(clock, engine, 120)

	sessions := engine.StudySessions("u1")
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Completed)
	assert.Equal(t, clock.Now(), sessions[0].EndedAt)

	require.Len(t, credited, 1)
	assert.Equal(t, entities.TimerKindStudy, credited[0].Kind)
	assert.Equal(t, 120, credited[0].DurationSeconds)
}

func TestTimerEngine_StoppedStudySessionIsNotCompleted(t *testing.T) {
	clock := newTestClock()
	engine, _ := newTestEngine(t, clock)

	_, timer, err := engine.StartStudySession(context.Background(), "u1", "ch1", "Math", 600)
	require.NoError(t, err)

	runSeconds(clock, engine, 30)
	require.True(t, engine.StopTimer(timer.ID))

	sessions := engine.StudySessions("u1")
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].Completed)
	assert.False(t, sessions[0].EndedAt.IsZero())
}

func TestTimerEngine_Cleanup(t *testing.T) {
	clock := newTestClock()
	engine, _ := newTestEngine(t, clock)
	ctx := context.Background()

	done, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 1, "Done", entities.TimerOptions{})
	require.NoError(t, err)
	running, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 7200, "Long", entities.TimerOptions{})
	require.NoError(t, err)
	runSeconds(clock, engine, 1)

	clock.Advance(DefaultCleanupGrace)
	assert.Equal(t, 0, engine.Cleanup())

	clock.Advance(time.Second)
	assert.Equal(t, 1, engine.Cleanup())

	_, ok := engine.GetTimer(done.ID)
	assert.False(t, ok)
	_, ok = engine.GetTimer(running.ID)
	assert.True(t, ok)
}

func TestTimerEngine_NotifierFailuresDoNotBlockTransitions(t *testing.T) {
	clock := newTestClock()
	engine, notifier := newTestEngine(t, clock)
	notifier.ExpectedCalls = nil
	notifier.On("ResolveChannel", mock.Anything, "gone").Return(errors.New("unknown channel"))
	notifier.On("ResolveChannel", mock.Anything, "flaky").Return(nil)
	notifier.On("SendMessage", mock.Anything, "flaky", mock.Anything).Return(errors.New("missing permissions"))
	ctx := context.Background()

	a, err := engine.CreateTimer(ctx, "u1", "gone", entities.TimerKindCustom, 3, "A", entities.TimerOptions{})
	require.NoError(t, err)
	b, err := engine.StartPomodoro(ctx, "u1", "flaky", entities.PomodoroPlan{WorkSeconds: 3, ShortBreakSeconds: 1, LongBreakSeconds: 1, TotalCycles: 2})
	require.NoError(t, err)

	runSeconds(clock, engine, 3)

	gotA, _ := engine.GetTimer(a.ID)
	assert.Equal(t, entities.TimerStateCompleted, gotA.State())
	gotB, _ := engine.GetTimer(b.ID)
	assert.Equal(t, 1, gotB.CycleIndex)
	assert.Len(t, engine.ActiveTimers("u1"), 1)

	notifier.AssertNotCalled(t, "SendMessage", mock.Anything, "gone", mock.Anything)
}

func TestTimerEngine_CreateValidation(t *testing.T) {
	engine, _ := newTestEngine(t, newTestClock())
	ctx := context.Background()

	_, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 0, "zero", entities.TimerOptions{})
	assert.True(t, errors.Is(err, ErrInvalidTimer))

	_, err = engine.CreateTimer(ctx, "u1", "ch1", "lap", 10, "bad kind", entities.TimerOptions{})
	assert.True(t, errors.Is(err, ErrInvalidTimer))

	_, err = engine.StartPreset(ctx, "u1", "ch1", "pomodoro_999")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestTimerEngine_StartPresetAndOwnerFilter(t *testing.T) {
	engine, _ := newTestEngine(t, newTestClock())
	ctx := context.Background()

	brk, err := engine.StartPreset(ctx, "u1", "ch1", "break_5")
	require.NoError(t, err)
	assert.Equal(t, entities.TimerKindBreak, brk.Kind)
	assert.Equal(t, 300, brk.DurationSeconds)
	assert.Equal(t, "Quick Break", brk.Name)
	assert.False(t, brk.InSession())

	_, err = engine.StartPreset(ctx, "u2", "ch1", "pomodoro_25")
	require.NoError(t, err)

	assert.Len(t, engine.ActiveTimers(""), 2)
	mine := engine.ActiveTimers("u1")
	require.Len(t, mine, 1)
	assert.Equal(t, brk.ID, mine[0].ID)
}

func TestPresets(t *testing.T) {
	assert.Len(t, Presets(), 12)
	assert.Len(t, PresetsByCategory(entities.PresetCategoryProductivity), 3)
	assert.Len(t, PresetsByCategory(entities.PresetCategoryStudy), 3)
	assert.Len(t, PresetsByCategory(entities.PresetCategoryWellness), 6)
	assert.Empty(t, PresetsByCategory(entities.PresetCategoryCustom))

	p, ok := FindPreset("meditation_20")
	require.True(t, ok)
	assert.Equal(t, entities.TimerKindCustom, p.Kind)
	assert.Equal(t, 1200, p.DurationSeconds)
}

func TestTimerViews(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "0:59", FormatClock(59))
	assert.Equal(t, "25:00", FormatClock(1500))
	assert.Equal(t, "1:00:00", FormatClock(3600))
	assert.Equal(t, "1:02:05", FormatClock(3725))

	tm := entities.Timer{DurationSeconds: 100, RemainingSeconds: 25}
	assert.Equal(t, "███████████████░░░░░ 75%", ProgressBar(tm, 20))
	assert.Equal(t, "░░░░░░░░░░ 0%", ProgressBar(entities.Timer{DurationSeconds: 60, RemainingSeconds: 60}, 10))
	assert.Equal(t, "██████████ 100%", ProgressBar(entities.Timer{DurationSeconds: 60}, 10))

	assert.Equal(t, "⏸️ Paused", Status(entities.Timer{IsActive: true, IsPaused: true, RemainingSeconds: 1}))
	assert.Equal(t, "🍅", TimerEmoji(entities.TimerKindPomodoro))
	assert.Equal(t, "⏰", TimerEmoji(entities.TimerKindReminder))
}
