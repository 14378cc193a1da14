package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/domain/testhelpers"
	"guildbot/storage"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
)

const (
	testGuildID = "100"
	otherGuild  = "200"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(testEpoch)
}

func newTestEconomy(t *testing.T, clock clockwork.Clock) (*EconomyLedger, *storage.Document[entities.UserEconomy]) {
	t.Helper()
	doc := storage.OpenDocument[entities.UserEconomy](context.Background(), testhelpers.NewMemoryStore(), storage.DocumentEconomy)
	return NewEconomyLedger(testGuildID, doc, clock, nil, 100), doc
}

func newTestActivity(t *testing.T, clock clockwork.Clock) *ActivityLedger {
	t.Helper()
	doc := storage.OpenDocument[entities.UserActivity](context.Background(), testhelpers.NewMemoryStore(), storage.DocumentActivity)
	ledger := NewActivityLedger(testGuildID, doc, clock, nil)
	ledger.randN = func(n int64) int64 { return 0 }
	return ledger
}

func newTestEngine(t *testing.T, clock *clockwork.FakeClock) (*TimerEngine, *testhelpers.MockNotifier) {
	t.Helper()
	notifier := new(testhelpers.MockNotifier)
	notifier.On("ResolveChannel", mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	engine := NewTimerEngine(testGuildID, clock, notifier, nil, DefaultCleanupGrace)
	n := 0
	engine.newID = func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
	return engine, notifier
}

// runSeconds advances the clock and ticks the engine once per simulated second
func runSeconds(clock *clockwork.FakeClock, engine *TimerEngine, seconds int) {
	for i := 0; i < seconds; i++ {
		clock.Advance(time.Second)
		engine.Tick(context.Background())
	}
}

// sentTitles lists the titles of every message the notifier delivered
func sentTitles(notifier *testhelpers.MockNotifier) []string {
	var titles []string
	for _, call := range notifier.Calls {
		if call.Method != "SendMessage" {
			continue
		}
		titles = append(titles, call.Arguments.Get(2).(entities.Message).Title)
	}
	return titles
}

func countTitle(titles []string, title string) int {
	n := 0
	for _, v := range titles {
		if v == title {
			n++
		}
	}
	return n
}

func newTestModeration(t *testing.T, clock clockwork.Clock, moderator *testhelpers.MockMemberModerator) *ModerationStore {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	warnings := storage.OpenDocument[[]entities.Warning](context.Background(), store, storage.DocumentWarnings)
	mutes := storage.OpenDocument[entities.MuteRecord](context.Background(), store, storage.DocumentMutes)
	var mm interfaces.MemberModerator
	if moderator != nil {
		mm = moderator
	}
	return NewModerationStore(testGuildID, warnings, mutes, clock, nil, mm, DefaultAutoMuteWarnings)
}

func newTestConfigStore(t *testing.T, store storage.Store, guildID string) *GuildConfigStore {
	t.Helper()
	ctx := context.Background()
	return NewGuildConfigStore(
		guildID,
		storage.OpenDocument[entities.WelcomeConfig](ctx, store, storage.DocumentWelcome),
		storage.OpenDocument[entities.AuditConfig](ctx, store, storage.DocumentAudit),
		storage.OpenDocument[[]string](ctx, store, storage.DocumentBadWords),
	)
}
