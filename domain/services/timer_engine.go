package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/events"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// DefaultCleanupGrace is how long a finished timer stays visible before the cleanup sweep reaps it
const DefaultCleanupGrace = 30 * time.Minute

// CompletionHook runs after a timer has run down naturally
type CompletionHook func(ctx context.Context, t entities.Timer)

// pendingSpawn is a recurring successor waiting for its interval to pass
type pendingSpawn struct {
	parentID string
	dueAt    time.Time
	next     entities.Timer
}

// TimerEngine owns a guild's in-memory timers. Timers are advanced by Tick, one second
// per call, so removing a timer from the engine is all it takes to stop it ticking.
type TimerEngine struct {
	guildID   string
	clock     clockwork.Clock
	notifier  interfaces.Notifier
	publisher interfaces.EventPublisher
	grace     time.Duration
	newID     func() string

	mu       sync.Mutex
	timers   map[string]*entities.Timer
	order    []string
	pending  []pendingSpawn
	sessions map[string]*entities.StudySession
	hooks    []CompletionHook
}

// NewTimerEngine creates an empty engine for one guild
func NewTimerEngine(
	guildID string,
	clock clockwork.Clock,
	notifier interfaces.Notifier,
	publisher interfaces.EventPublisher,
	grace time.Duration,
) *TimerEngine {
	if grace <= 0 {
		grace = DefaultCleanupGrace
	}
	return &TimerEngine{
		guildID:   guildID,
		clock:     clock,
		notifier:  notifier,
		publisher: publisher,
		grace:     grace,
		newID:     uuid.NewString,
		timers:    make(map[string]*entities.Timer),
		sessions:  make(map[string]*entities.StudySession),
	}
}

// OnComplete registers a hook invoked for every naturally completed timer
func (e *TimerEngine) OnComplete(hook CompletionHook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, hook)
}

// CreateTimer starts a running timer immediately
func (e *TimerEngine) CreateTimer(
	ctx context.Context,
	ownerID, channelID string,
	kind entities.TimerKind,
	durationSeconds int,
	name string,
	opts entities.TimerOptions,
) (entities.Timer, error) {
	if !kind.Valid() {
		return entities.Timer{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTimer, kind)
	}
	if durationSeconds <= 0 {
		return entities.Timer{}, fmt.Errorf("%w: duration must be positive", ErrInvalidTimer)
	}
	if opts.Recurring != nil && (opts.Recurring.IntervalSeconds < 0 || opts.Recurring.Times < 0) {
		return entities.Timer{}, fmt.Errorf("%w: bad recurrence", ErrInvalidTimer)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.newTimer(ownerID, channelID, kind, durationSeconds, name, opts)
	e.add(t)

	log.WithFields(log.Fields{
		"guildID":  e.guildID,
		"timerID":  t.ID,
		"kind":     kind,
		"duration": durationSeconds,
	}).Info("Timer started")
	return t.Clone(), nil
}

func (e *TimerEngine) newTimer(
	ownerID, channelID string,
	kind entities.TimerKind,
	durationSeconds int,
	name string,
	opts entities.TimerOptions,
) *entities.Timer {
	now := e.clock.Now()
	t := &entities.Timer{
		ID:               e.newID(),
		OwnerID:          ownerID,
		GuildID:          e.guildID,
		ChannelID:        channelID,
		Kind:             kind,
		Name:             name,
		Description:      opts.Description,
		DurationSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		StartedAt:        now,
		ScheduledEndAt:   now.Add(time.Duration(durationSeconds) * time.Second),
		IsActive:         true,
		Phase:            opts.Phase,
		CycleIndex:       opts.CycleIndex,
		TotalCycles:      opts.TotalCycles,
		Plan:             opts.Plan,
		SessionID:        opts.SessionID,
		Notifications:    entities.AllNotifications(),
		Settings:         entities.TimerSettings{MentionOwner: true, ShowProgress: true},
	}
	if opts.Recurring != nil {
		r := *opts.Recurring
		t.Recurring = &r
	}
	if opts.Notifications != nil {
		t.Notifications = *opts.Notifications
	}
	if opts.Settings != nil {
		t.Settings = *opts.Settings
	}
	return t
}

func (e *TimerEngine) add(t *entities.Timer) {
	e.timers[t.ID] = t
	e.order = append(e.order, t.ID)
}

func (e *TimerEngine) remove(id string) {
	delete(e.timers, id)
	e.order = slices.DeleteFunc(e.order, func(v string) bool { return v == id })
}

// StartPomodoro starts the first work phase of a multi-cycle session
func (e *TimerEngine) StartPomodoro(ctx context.Context, ownerID, channelID string, plan entities.PomodoroPlan) (entities.Timer, error) {
	if plan.WorkSeconds <= 0 || plan.ShortBreakSeconds <= 0 || plan.LongBreakSeconds <= 0 || plan.TotalCycles <= 0 {
		return entities.Timer{}, fmt.Errorf("%w: pomodoro plan must be positive", ErrInvalidTimer)
	}

	return e.CreateTimer(ctx, ownerID, channelID, entities.TimerKindPomodoro, plan.WorkSeconds, "Pomodoro Session", entities.TimerOptions{
		Description: fmt.Sprintf("%d-cycle Pomodoro session with %dmin work periods", plan.TotalCycles, plan.WorkSeconds/60),
		Phase:       entities.PhaseWork,
		TotalCycles: plan.TotalCycles,
		Plan:        plan,
		SessionID:   e.newID(),
	})
}

// StartStudySession opens a study session and its backing study timer
func (e *TimerEngine) StartStudySession(ctx context.Context, ownerID, channelID, subject string, durationSeconds int) (entities.StudySession, entities.Timer, error) {
	t, err := e.CreateTimer(ctx, ownerID, channelID, entities.TimerKindStudy, durationSeconds, "Study: "+subject, entities.TimerOptions{
		Description: fmt.Sprintf("Studying %s for %d minutes", subject, durationSeconds/60),
	})
	if err != nil {
		return entities.StudySession{}, entities.Timer{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := &entities.StudySession{
		ID:              "study-" + e.newID(),
		UserID:          ownerID,
		Subject:         subject,
		TimerID:         t.ID,
		StartedAt:       t.StartedAt,
		DurationMinutes: durationSeconds / 60,
	}
	e.sessions[s.ID] = s
	return *s, t, nil
}

// StartPreset starts a timer from the built-in preset catalog
func (e *TimerEngine) StartPreset(ctx context.Context, ownerID, channelID, presetID string) (entities.Timer, error) {
	p, ok := FindPreset(presetID)
	if !ok {
		return entities.Timer{}, fmt.Errorf("%w: %s", ErrUnknownPreset, presetID)
	}
	return e.CreateTimer(ctx, ownerID, channelID, p.Kind, p.DurationSeconds, p.Name, entities.TimerOptions{
		Description: p.Description,
	})
}

// PauseTimer freezes a running timer
func (e *TimerEngine) PauseTimer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok || !t.IsActive || t.IsPaused {
		return false
	}
	t.IsPaused = true
	return true
}

// ResumeTimer restarts a paused timer and moves its end time to now plus the remaining time
func (e *TimerEngine) ResumeTimer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok || !t.IsActive || !t.IsPaused {
		return false
	}
	t.IsPaused = false
	t.ScheduledEndAt = e.clock.Now().Add(time.Duration(t.RemainingSeconds) * time.Second)
	return true
}

// StopTimer removes an active timer, or cancels the pending recurrence of a finished one.
// A finished timer with nothing pending is left for cleanup and reports false.
// No notification fires for a stopped timer.
func (e *TimerEngine) StopTimer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	active := ok && t.IsActive
	if active {
		e.remove(id)
		for _, s := range e.sessions {
			if s.TimerID == id && !s.Completed && s.EndedAt.IsZero() {
				s.EndedAt = e.clock.Now()
			}
		}
	}

	before := len(e.pending)
	e.pending = slices.DeleteFunc(e.pending, func(p pendingSpawn) bool { return p.parentID == id })
	found := active || len(e.pending) != before

	if found {
		log.WithFields(log.Fields{
			"guildID": e.guildID,
			"timerID": id,
		}).Info("Timer stopped")
	}
	return found
}

// GetTimer returns a snapshot of a timer
func (e *TimerEngine) GetTimer(id string) (entities.Timer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return entities.Timer{}, false
	}
	return t.Clone(), true
}

// ActiveTimers returns running and paused timers in creation order, optionally for one owner
func (e *TimerEngine) ActiveTimers(ownerID string) []entities.Timer {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []entities.Timer
	for _, id := range e.order {
		t := e.timers[id]
		if !t.IsActive || (ownerID != "" && t.OwnerID != ownerID) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// StudySessions returns a member's study sessions ordered by start time
func (e *TimerEngine) StudySessions(userID string) []entities.StudySession {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []entities.StudySession
	for _, s := range e.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	slices.SortFunc(out, func(a, b entities.StudySession) int { return a.StartedAt.Compare(b.StartedAt) })
	return out
}

// PendingRecurrences returns the number of successors waiting to start
func (e *TimerEngine) PendingRecurrences() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Tick advances every running timer by one second, then starts due recurring successors
// so they begin counting on the next tick. Notifications and completion hooks are
// delivered outside the lock.
func (e *TimerEngine) Tick(ctx context.Context) {
	var batch events.Batch
	defer batch.Flush(e.publisher)

	e.mu.Lock()
	var notes []entities.TimerNotification
	var completed []entities.Timer

	for _, id := range e.order {
		t := e.timers[id]
		if !t.IsActive || t.IsPaused {
			continue
		}

		t.RemainingSeconds--
		if t.RemainingSeconds > 0 {
			notes = append(notes, e.thresholds(t)...)
			continue
		}

		notes = append(notes, e.complete(t)...)
		completed = append(completed, t.Clone())
		batch.Add(events.TimerCompletedEvent{
			GuildID:         e.guildID,
			UserID:          t.OwnerID,
			TimerID:         t.ID,
			Kind:            string(t.Kind),
			DurationSeconds: t.DurationSeconds,
		})
	}
	e.spawnDue()
	hooks := slices.Clone(e.hooks)
	e.mu.Unlock()

	e.deliver(ctx, notes)
	for _, t := range completed {
		for _, h := range hooks {
			h(ctx, t)
		}
	}
}

// spawnDue starts every recurring successor whose interval has passed. Caller holds mu.
func (e *TimerEngine) spawnDue() {
	now := e.clock.Now()
	keep := e.pending[:0]
	for _, p := range e.pending {
		if now.Before(p.dueAt) {
			keep = append(keep, p)
			continue
		}
		t := p.next
		t.ID = e.newID()
		t.StartedAt = now
		t.ScheduledEndAt = now.Add(time.Duration(t.DurationSeconds) * time.Second)
		e.add(&t)

		log.WithFields(log.Fields{
			"guildID":  e.guildID,
			"timerID":  t.ID,
			"parentID": p.parentID,
		}).Debug("Recurring timer restarted")
	}
	e.pending = keep
}

// thresholds evaluates the edge-triggered warnings for a timer that just ticked. Caller holds mu.
func (e *TimerEngine) thresholds(t *entities.Timer) []entities.TimerNotification {
	var notes []entities.TimerNotification
	note := func(kind entities.NotificationKind, title, body string) {
		notes = append(notes, entities.TimerNotification{
			Kind:      kind,
			ChannelID: t.ChannelID,
			Timer:     t.Clone(),
			Message:   thresholdMessage(*t, title, body),
		})
	}

	if t.Notifications.Halfway && !t.HalfwaySent && t.RemainingSeconds*2 <= t.DurationSeconds {
		t.HalfwaySent = true
		note(entities.NotificationHalfway, "⏰ Halfway point reached!", "You're halfway through your timer.")
	}
	if t.Notifications.FiveMin && t.RemainingSeconds == 300 {
		note(entities.NotificationFiveMinutes, "⏰ 5 minutes remaining!", "Almost there! Keep going strong.")
	}
	if t.Notifications.OneMin && t.RemainingSeconds == 60 {
		note(entities.NotificationOneMinute, "⏰ 1 minute remaining!", "Final stretch! You've got this.")
	}
	return notes
}

// complete finishes a timer that ran down and routes it by session phase. Caller holds mu.
func (e *TimerEngine) complete(t *entities.Timer) []entities.TimerNotification {
	now := e.clock.Now()
	t.IsActive = false
	t.IsPaused = false
	t.RemainingSeconds = 0
	t.ScheduledEndAt = now

	if t.Kind == entities.TimerKindStudy {
		for _, s := range e.sessions {
			if s.TimerID == t.ID && !s.Completed {
				s.Completed = true
				s.EndedAt = now
			}
		}
	}

	if t.InSession() {
		return e.advanceSession(t)
	}

	notes := []entities.TimerNotification{{
		Kind:      entities.NotificationCompleted,
		ChannelID: t.ChannelID,
		Timer:     t.Clone(),
		Message:   completionMessage(*t),
	}}

	if r := t.Recurring; r != nil && r.Times != 1 {
		next := t.Clone()
		next.RemainingSeconds = next.DurationSeconds
		next.IsActive = true
		next.HalfwaySent = false
		if r.Times > 1 {
			next.Recurring.Times = r.Times - 1
		}
		e.pending = append(e.pending, pendingSpawn{
			parentID: t.ID,
			dueAt:    now.Add(time.Duration(r.IntervalSeconds) * time.Second),
			next:     next,
		})
	}
	return notes
}

// advanceSession moves a pomodoro session to its next phase. Caller holds mu.
func (e *TimerEngine) advanceSession(t *entities.Timer) []entities.TimerNotification {
	opts := entities.TimerOptions{
		TotalCycles:   t.TotalCycles,
		Plan:          t.Plan,
		SessionID:     t.SessionID,
		Notifications: &t.Notifications,
		Settings:      &t.Settings,
	}

	var next *entities.Timer
	switch {
	case t.Phase == entities.PhaseWork:
		t.CycleIndex++
		if t.CycleIndex >= t.TotalCycles {
			return e.sessionComplete(t)
		}
		opts.CycleIndex = t.CycleIndex
		if t.CycleIndex%entities.LongBreakEvery == 0 {
			opts.Phase = entities.PhaseLongBreak
			opts.Description = fmt.Sprintf("Long break after work session %d", t.CycleIndex)
			next = e.newTimer(t.OwnerID, t.ChannelID, entities.TimerKindBreak, t.Plan.LongBreakSeconds, "Long Break", opts)
		} else {
			opts.Phase = entities.PhaseShortBreak
			opts.Description = fmt.Sprintf("Short break after work session %d", t.CycleIndex)
			next = e.newTimer(t.OwnerID, t.ChannelID, entities.TimerKindBreak, t.Plan.ShortBreakSeconds, "Short Break", opts)
		}
	case t.CycleIndex < t.TotalCycles:
		opts.CycleIndex = t.CycleIndex
		opts.Phase = entities.PhaseWork
		opts.Description = fmt.Sprintf("Work session %d of %d", t.CycleIndex+1, t.TotalCycles)
		next = e.newTimer(t.OwnerID, t.ChannelID, entities.TimerKindPomodoro, t.Plan.WorkSeconds,
			fmt.Sprintf("Work Session %d", t.CycleIndex+1), opts)
	default:
		return e.sessionComplete(t)
	}

	e.add(next)
	n := next.Clone()
	return []entities.TimerNotification{{
		Kind:      entities.NotificationPhaseTransition,
		ChannelID: t.ChannelID,
		Timer:     t.Clone(),
		Next:      &n,
		Message:   transitionMessage(*t, n),
	}}
}

func (e *TimerEngine) sessionComplete(t *entities.Timer) []entities.TimerNotification {
	log.WithFields(log.Fields{
		"guildID":   e.guildID,
		"sessionID": t.SessionID,
		"cycles":    t.CycleIndex,
	}).Info("Pomodoro session complete")

	return []entities.TimerNotification{{
		Kind:      entities.NotificationSessionComplete,
		ChannelID: t.ChannelID,
		Timer:     t.Clone(),
		Message:   sessionCompleteMessage(*t),
	}}
}

// deliver sends notifications. Failures are logged and never undo the transition.
func (e *TimerEngine) deliver(ctx context.Context, notes []entities.TimerNotification) {
	if e.notifier == nil {
		return
	}
	for _, n := range notes {
		fields := log.Fields{
			"guildID":   e.guildID,
			"timerID":   n.Timer.ID,
			"channelID": n.ChannelID,
			"kind":      n.Kind,
		}
		if err := e.notifier.ResolveChannel(ctx, n.ChannelID); err != nil {
			fields["error"] = err
			log.WithFields(fields).Warn("Timer channel unavailable, dropping notification")
			continue
		}
		if err := e.notifier.SendMessage(ctx, n.ChannelID, n.Message); err != nil {
			fields["error"] = err
			log.WithFields(fields).Warn("Failed to send timer notification")
		}
	}
}

// Cleanup reaps finished timers whose end is older than the grace window and
// forgets finished study sessions of the same age. It returns the number of timers removed.
func (e *TimerEngine) Cleanup() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.clock.Now().Add(-e.grace)
	removed := 0
	for _, id := range slices.Clone(e.order) {
		t := e.timers[id]
		if !t.IsActive && t.ScheduledEndAt.Before(cutoff) {
			e.remove(id)
			removed++
		}
	}
	for id, s := range e.sessions {
		if !s.EndedAt.IsZero() && s.EndedAt.Before(cutoff) {
			delete(e.sessions, id)
		}
	}

	if removed > 0 {
		log.WithFields(log.Fields{
			"guildID": e.guildID,
			"removed": removed,
		}).Debug("Cleaned up finished timers")
	}
	return removed
}
