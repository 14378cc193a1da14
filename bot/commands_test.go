package bot

import (
	"testing"

	"guildbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	cmds := Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		assert.False(t, names[c.Name], "duplicate command %s", c.Name)
		names[c.Name] = true
		assert.NotEmpty(t, c.Description, c.Name)

		var walk func(opts []*discordgo.ApplicationCommandOption)
		walk = func(opts []*discordgo.ApplicationCommandOption) {
			seen := make(map[string]bool)
			for _, o := range opts {
				assert.False(t, seen[o.Name], "duplicate option %s on %s", o.Name, c.Name)
				seen[o.Name] = true
				assert.LessOrEqual(t, len(o.Choices), 25, "%s.%s", c.Name, o.Name)
				walk(o.Options)
			}
		}
		walk(c.Options)
	}

	for _, want := range []string{
		"balance", "daily", "weekly", "deposit", "withdraw", "pay", "coinflip",
		"timer", "pomodoro", "study",
		"warn", "warnings", "clearwarnings", "mute", "unmute", "badwords",
		"leaderboard", "profile", "achievements",
		"welcome", "logs",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestCoinflipCommand(t *testing.T) {
	var coinflip, leaderboard *discordgo.ApplicationCommand
	for _, c := range Commands() {
		switch c.Name {
		case "coinflip":
			coinflip = c
		case "leaderboard":
			leaderboard = c
		}
	}
	require.NotNil(t, coinflip)
	require.Len(t, coinflip.Options, 2)

	amount := coinflip.Options[0]
	require.NotNil(t, amount.MinValue)
	assert.Equal(t, 10.0, *amount.MinValue)
	assert.Equal(t, 10000.0, amount.MaxValue)

	var sides []string
	for _, c := range coinflip.Options[1].Choices {
		sides = append(sides, c.Value.(string))
	}
	assert.Equal(t, []string{"heads", "tails"}, sides)

	require.NotNil(t, leaderboard)
	var boards []string
	for _, c := range leaderboard.Options[0].Choices {
		boards = append(boards, c.Value.(string))
	}
	assert.Contains(t, boards, "economy_level")
	assert.Contains(t, boards, "level")
}

func TestModerationCommandsRequirePermission(t *testing.T) {
	for _, c := range Commands() {
		switch c.Name {
		case "warn", "warnings", "clearwarnings", "mute", "unmute", "badwords":
			require.NotNil(t, c.DefaultMemberPermissions, c.Name)
			assert.Equal(t, int64(discordgo.PermissionKickMembers), *c.DefaultMemberPermissions, c.Name)
		case "welcome", "logs":
			require.NotNil(t, c.DefaultMemberPermissions, c.Name)
			assert.Equal(t, int64(discordgo.PermissionAdministrator), *c.DefaultMemberPermissions, c.Name)
		default:
			assert.Nil(t, c.DefaultMemberPermissions, c.Name)
		}
	}
}

func TestWelcomeMessage(t *testing.T) {
	m := entities.JoiningMember{UserID: "u1", DisplayName: "Ada", MemberCount: 42}

	t.Run("plain content without card", func(t *testing.T) {
		msg := welcomeMessage(entities.WelcomePlan{Content: "hi <@u1>"}, "#667eea", m)
		assert.Equal(t, entities.Message{Content: "hi <@u1>"}, msg)
	})

	t.Run("card carries color and footer", func(t *testing.T) {
		msg := welcomeMessage(entities.WelcomePlan{Content: "hi", Card: true, BonusCoins: 100}, "#667eea", m)
		assert.Equal(t, "👋 Welcome, Ada!", msg.Title)
		assert.Equal(t, "hi", msg.Description)
		assert.Equal(t, 0x667eea, msg.Color)
		assert.Equal(t, "Member #42 • +100 coins welcome bonus", msg.Footer)
	})

	t.Run("card without bonus", func(t *testing.T) {
		msg := welcomeMessage(entities.WelcomePlan{Content: "hi", Card: true}, "bad", entities.JoiningMember{DisplayName: "Bo"})
		assert.Empty(t, msg.Footer)
	})
}
