package services

import (
	"context"
	"errors"
	"testing"

	"guildbot/domain/entities"
	"guildbot/domain/testhelpers"
	"guildbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigStore_WelcomeDefaults(t *testing.T) {
	cfg := newTestConfigStore(t, testhelpers.NewMemoryStore(), testGuildID)
	ctx := context.Background()

	w := cfg.Welcome(ctx)
	assert.True(t, w.Enabled)
	assert.True(t, w.CardEnabled)
	assert.False(t, w.DMWelcome)
	assert.True(t, w.MentionUser)
	assert.Equal(t, "#667eea", w.EmbedColor)
	assert.Equal(t, int64(100), w.BonusCoins)
	assert.Equal(t, entities.DefaultWelcomeMessage, w.Message)
}

func TestGuildConfigStore_WelcomeUpdates(t *testing.T) {
	backing := testhelpers.NewMemoryStore()
	cfg := newTestConfigStore(t, backing, testGuildID)
	ctx := context.Background()

	cfg.SetWelcomeChannel(ctx, "ch1")
	cfg.SetWelcomeMessage(ctx, "Hi {user}")
	assert.False(t, cfg.ToggleWelcome(ctx).Enabled)
	assert.False(t, cfg.ToggleWelcomeCard(ctx).CardEnabled)
	assert.True(t, cfg.ToggleWelcomeDM(ctx).DMWelcome)
	cfg.SetAutoRole(ctx, "role1")

	_, ok := cfg.SetBonusCoins(ctx, -1)
	assert.False(t, ok)
	w, ok := cfg.SetBonusCoins(ctx, 0)
	assert.True(t, ok)
	assert.Zero(t, w.BonusCoins)

	reloaded := newTestConfigStore(t, backing, testGuildID).Welcome(ctx)
	assert.Equal(t, "ch1", reloaded.ChannelID)
	assert.Equal(t, "Hi {user}", reloaded.Message)
	assert.Equal(t, "role1", reloaded.AutoRoleID)
	assert.False(t, reloaded.Enabled)
	assert.False(t, reloaded.CardEnabled)
	assert.True(t, reloaded.DMWelcome)

	assert.Equal(t, entities.DefaultWelcomeMessage, cfg.SetWelcomeMessage(ctx, "  ").Message)
	assert.True(t, newTestConfigStore(t, backing, otherGuild).Welcome(ctx).Enabled)
}

func TestGuildConfigStore_Audit(t *testing.T) {
	cfg := newTestConfigStore(t, testhelpers.NewMemoryStore(), testGuildID)
	ctx := context.Background()

	a := cfg.Audit(ctx)
	assert.False(t, a.Enabled)
	assert.Len(t, a.Events, len(entities.AuditEvents))
	assert.False(t, cfg.ShouldLog(entities.AuditMemberJoin))

	a = cfg.SetLogChannel(ctx, "logs")
	assert.True(t, a.Enabled)
	assert.True(t, cfg.ShouldLog(entities.AuditMemberJoin))

	a, err := cfg.ToggleEvent(ctx, entities.AuditMemberJoin)
	require.NoError(t, err)
	assert.False(t, a.Events[entities.AuditMemberJoin])
	assert.False(t, cfg.ShouldLog(entities.AuditMemberJoin))
	assert.True(t, cfg.ShouldLog(entities.AuditMemberWarn))

	_, err = cfg.ToggleEvent(ctx, "memberDance")
	assert.True(t, errors.Is(err, ErrUnknownEvent))
	assert.False(t, cfg.ShouldLog("memberDance"))

	assert.False(t, cfg.ToggleLogging(ctx).Enabled)
	assert.False(t, cfg.ShouldLog(entities.AuditMemberWarn))

	// callers cannot mutate stored state through the returned map
	a.Events[entities.AuditMemberWarn] = false
	assert.True(t, cfg.Audit(ctx).Events[entities.AuditMemberWarn])
}

func TestGuildConfigStore_BadWords(t *testing.T) {
	backing := testhelpers.NewMemoryStore()
	cfg := newTestConfigStore(t, backing, testGuildID)
	ctx := context.Background()

	assert.True(t, cfg.AddBadWord(ctx, "Darn"))
	assert.False(t, cfg.AddBadWord(ctx, "darn"))
	assert.False(t, cfg.AddBadWord(ctx, "  "))
	assert.True(t, cfg.AddBadWord(ctx, "heck"))
	assert.Equal(t, []string{"darn", "heck"}, cfg.BadWords())

	assert.False(t, cfg.RemoveBadWord(ctx, "gosh"))
	assert.True(t, cfg.RemoveBadWord(ctx, "DARN"))
	assert.Equal(t, []string{"heck"}, newTestConfigStore(t, backing, testGuildID).BadWords())
	assert.Empty(t, newTestConfigStore(t, backing, otherGuild).BadWords())
}

func TestWelcomeService_HandleMemberJoin(t *testing.T) {
	clock := newTestClock()
	economy, _ := newTestEconomy(t, clock)
	cfg := newTestConfigStore(t, testhelpers.NewMemoryStore(), testGuildID)
	pub := new(testhelpers.MockEventPublisher)
	pub.On("Publish", mock.MatchedBy(func(e events.MemberWelcomedEvent) bool {
		return e.UserID == "u1" && e.BonusCoins == 100
	})).Return(nil).Once()
	svc := NewWelcomeService(cfg, economy, pub)
	ctx := context.Background()

	cfg.SetWelcomeChannel(ctx, "welcome")
	cfg.SetAutoRole(ctx, "newbie")

	plan, ok := svc.HandleMemberJoin(ctx, entities.JoiningMember{
		UserID:      "u1",
		Username:    "ada",
		ServerName:  "Study Hall",
		MemberCount: 42,
	})
	require.True(t, ok)
	assert.Equal(t, "welcome", plan.ChannelID)
	assert.Equal(t, "newbie", plan.AutoRoleID)
	assert.Equal(t, int64(100), plan.BonusCoins)
	assert.True(t, plan.Card)
	assert.Contains(t, plan.Content, "Welcome to **Study Hall**, <@u1>!")

	stats := economy.GetStats(ctx, "u1")
	assert.Equal(t, int64(200), stats.Balance)
	assert.Equal(t, int64(200), stats.TotalEarned)
	assert.Equal(t, int64(WelcomeXP), stats.XP)
	pub.AssertExpectations(t)
}

func TestWelcomeService_Disabled(t *testing.T) {
	economy, doc := newTestEconomy(t, newTestClock())
	cfg := newTestConfigStore(t, testhelpers.NewMemoryStore(), testGuildID)
	svc := NewWelcomeService(cfg, economy, nil)
	ctx := context.Background()

	cfg.ToggleWelcome(ctx)
	_, ok := svc.HandleMemberJoin(ctx, entities.JoiningMember{UserID: "u1"})
	assert.False(t, ok)
	assert.Zero(t, doc.Len())
}

func TestRenderWelcome(t *testing.T) {
	m := entities.JoiningMember{UserID: "7", Username: "ada", DisplayName: "Ada", ServerName: "Hall", MemberCount: 3}
	got := RenderWelcome("{displayName} ({username}) is member #{memberCount} of {server}, hi {user} {user}", m)
	assert.Equal(t, "Ada (ada) is member #3 of Hall, hi <@7> <@7>", got)
}
