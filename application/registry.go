package application

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/domain/services"
	"guildbot/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Dependencies are the shared collaborators every guild's managers are built from
type Dependencies struct {
	Store     storage.Store
	Clock     clockwork.Clock
	Notifier  interfaces.Notifier
	Moderator interfaces.MemberModerator
	Publisher interfaces.EventPublisher

	StartingBalance  int64
	CleanupGrace     time.Duration
	AutoMuteWarnings int
}

// GuildManagers is the set of stateful managers owned by one guild
type GuildManagers struct {
	GuildID    string
	Economy    *services.EconomyLedger
	Activity   *services.ActivityLedger
	Timers     *services.TimerEngine
	Moderation *services.ModerationStore
	Config     *services.GuildConfigStore
	Welcome    *services.WelcomeService
	Filter     *services.ContentFilter
}

// Registry lazily builds and memoizes GuildManagers per guild id for the process lifetime
type Registry struct {
	deps  Dependencies
	voice *services.VoiceTracker

	economy  *storage.Document[entities.UserEconomy]
	activity *storage.Document[entities.UserActivity]
	warnings *storage.Document[[]entities.Warning]
	mutes    *storage.Document[entities.MuteRecord]
	welcome  *storage.Document[entities.WelcomeConfig]
	audit    *storage.Document[entities.AuditConfig]
	badWords *storage.Document[[]string]

	mu     sync.Mutex
	guilds map[string]*GuildManagers
}

// NewRegistry loads every shared document from deps.Store
func NewRegistry(ctx context.Context, deps Dependencies) *Registry {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	r := &Registry{
		deps:     deps,
		voice:    services.NewVoiceTracker(deps.Clock),
		economy:  storage.OpenDocument[entities.UserEconomy](ctx, deps.Store, storage.DocumentEconomy),
		activity: storage.OpenDocument[entities.UserActivity](ctx, deps.Store, storage.DocumentActivity),
		warnings: storage.OpenDocument[[]entities.Warning](ctx, deps.Store, storage.DocumentWarnings),
		mutes:    storage.OpenDocument[entities.MuteRecord](ctx, deps.Store, storage.DocumentMutes),
		welcome:  storage.OpenDocument[entities.WelcomeConfig](ctx, deps.Store, storage.DocumentWelcome),
		audit:    storage.OpenDocument[entities.AuditConfig](ctx, deps.Store, storage.DocumentAudit),
		badWords: storage.OpenDocument[[]string](ctx, deps.Store, storage.DocumentBadWords),
		guilds:   make(map[string]*GuildManagers),
	}

	log.WithFields(log.Fields{
		"economy":  r.economy.Len(),
		"activity": r.activity.Len(),
		"mutes":    r.mutes.Len(),
	}).Info("Documents loaded")
	return r
}

// Guild returns the managers for guildID, building them on first use
func (r *Registry) Guild(guildID string) *GuildManagers {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.guilds[guildID]; ok {
		return g
	}

	d := r.deps
	g := &GuildManagers{
		GuildID:    guildID,
		Economy:    services.NewEconomyLedger(guildID, r.economy, d.Clock, d.Publisher, d.StartingBalance),
		Activity:   services.NewActivityLedger(guildID, r.activity, d.Clock, d.Publisher),
		Timers:     services.NewTimerEngine(guildID, d.Clock, d.Notifier, d.Publisher, d.CleanupGrace),
		Moderation: services.NewModerationStore(guildID, r.warnings, r.mutes, d.Clock, d.Publisher, d.Moderator, d.AutoMuteWarnings),
		Config:     services.NewGuildConfigStore(guildID, r.welcome, r.audit, r.badWords),
	}
	g.Welcome = services.NewWelcomeService(g.Config, g.Economy, d.Publisher)
	g.Filter = services.NewContentFilter(g.Config)
	g.Timers.OnComplete(creditStudyTime(g.Activity))

	r.guilds[guildID] = g
	log.WithField("guildID", guildID).Debug("Guild managers created")
	return g
}

// creditStudyTime books the minutes of every finished study timer as study activity
func creditStudyTime(activity *services.ActivityLedger) services.CompletionHook {
	return func(ctx context.Context, t entities.Timer) {
		if t.Kind != entities.TimerKindStudy {
			return
		}
		minutes := int64(t.DurationSeconds / 60)
		if minutes <= 0 {
			return
		}
		if _, err := activity.AddActivity(ctx, t.OwnerID, entities.ActivityStudy, minutes); err != nil {
			log.WithFields(log.Fields{
				"guildID": t.GuildID,
				"userID":  t.OwnerID,
				"error":   err,
			}).Error("Failed to credit study time")
		}
	}
}

// Voice returns the process-wide voice session tracker
func (r *Registry) Voice() *services.VoiceTracker {
	return r.voice
}

// Guilds lists the guilds whose managers have been built, sorted
func (r *Registry) Guilds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.guilds))
	for id := range r.guilds {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// KnownGuilds lists built guilds plus every guild with persisted member records,
// so periodic sweeps reach guilds nobody has touched since the last restart.
func (r *Registry) KnownGuilds() []string {
	ids := r.Guilds()
	for _, keys := range [][]string{r.economy.Keys(), r.activity.Keys(), r.mutes.Keys()} {
		for _, k := range keys {
			if guildID, _, ok := strings.Cut(k, "-"); ok && guildID != "" {
				ids = append(ids, guildID)
			}
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
