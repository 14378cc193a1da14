package application

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc/pool"
	log "github.com/sirupsen/logrus"
)

// Sweep schedules
const (
	TimerCleanupSchedule = "@every 5m"
	StreakSweepSchedule  = "@hourly"
	MuteExpirySchedule   = "@every 15s"
)

// Scheduler drives the once-per-second timer tick and the periodic sweeps
type Scheduler struct {
	registry *Registry
	clock    clockwork.Clock
}

// NewScheduler creates a scheduler over every guild in registry
func NewScheduler(registry *Registry, clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{registry: registry, clock: clock}
}

// Start lifts overdue mutes, then starts the tick driver and the cron sweeps.
// It returns a cleanup function that stops both and waits for them to finish.
func (s *Scheduler) Start(ctx context.Context) func() {
	s.ExpireMutes(ctx)

	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.StandardLogger()))))
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{TimerCleanupSchedule, "timer cleanup", func() { s.CleanupTimers() }},
		{StreakSweepSchedule, "streak sweep", func() { s.SweepStreaks(ctx) }},
		{MuteExpirySchedule, "mute expiry", func() { s.ExpireMutes(ctx) }},
	}
	for _, j := range jobs {
		if _, err := c.AddFunc(j.spec, j.run); err != nil {
			log.WithFields(log.Fields{
				"job":   j.name,
				"error": err,
			}).Error("Failed to schedule sweep")
		}
	}
	c.Start()

	ticker := s.clock.NewTicker(time.Second)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.Info("Timer tick driver started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Timer tick driver shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Timer tick driver shutting down (stop requested)...")
				return
			case <-ticker.Chan():
				s.TickAll(ctx)
			}
		}
	}()

	return func() {
		<-c.Stop().Done()
		ticker.Stop()
		close(stopChan)
		<-done
	}
}

// TickAll advances the timers of every built guild by one second
func (s *Scheduler) TickAll(ctx context.Context) {
	p := pool.New().WithContext(ctx)
	for _, id := range s.registry.Guilds() {
		g := s.registry.Guild(id)
		p.Go(func(ctx context.Context) error {
			g.Timers.Tick(ctx)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		log.WithError(err).Error("Timer tick failed")
	}
}

// CleanupTimers reaps finished timers past their grace window in every built guild
func (s *Scheduler) CleanupTimers() int {
	removed := 0
	for _, id := range s.registry.Guilds() {
		removed += s.registry.Guild(id).Timers.Cleanup()
	}
	return removed
}

// SweepStreaks runs the streak sweep for every guild with activity on record
func (s *Scheduler) SweepStreaks(ctx context.Context) int {
	updated := 0
	for _, id := range s.registry.KnownGuilds() {
		updated += s.registry.Guild(id).Activity.UpdateStreaks(ctx)
	}
	if updated > 0 {
		log.WithField("updated", updated).Info("Streak sweep finished")
	}
	return updated
}

// ExpireMutes lifts overdue mutes in every guild with mutes on record
func (s *Scheduler) ExpireMutes(ctx context.Context) int {
	lifted := 0
	for _, id := range s.registry.KnownGuilds() {
		lifted += s.registry.Guild(id).Moderation.ExpireDue(ctx)
	}
	return lifted
}
