package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guildbot/bot/common"
	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

const (
	defaultLimit = 10
	maxLimit     = 25
)

type economyBoard struct {
	metric entities.EconomyMetric
	title  string
	format func(v int64) string
}

func formatLevel(v int64) string {
	return fmt.Sprintf("Level %d", v)
}

// economyBoards maps the economy leaderboards onto ledger metrics. The level board
// has its own key since "level" already names the activity category.
var economyBoards = map[string]economyBoard{
	"coins":         {entities.EconomyMetricBalance, "💰 Richest Members", common.FormatCoins},
	"earned":        {entities.EconomyMetricTotal, "💎 Top Earners", common.FormatCoins},
	"economy_level": {entities.EconomyMetricLevel, "📈 Economy Level Leaderboard", formatLevel},
}

func economyLines(b *strings.Builder, board economyBoard, rows []entities.EconomyRanking) {
	for _, r := range rows {
		fmt.Fprintf(b, "%s %s %s\n", rankLabel(r.Rank), common.Mention(r.UserID), board.format(r.Value))
	}
}

var medals = []string{"🥇", "🥈", "🥉"}

func rankLabel(rank int) string {
	if rank <= len(medals) {
		return medals[rank-1]
	}
	return fmt.Sprintf("**#%d**", rank)
}

func targetUserID(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	if o, ok := opts["user"]; ok {
		if u := o.UserValue(s); u != nil {
			return u.ID
		}
	}
	return common.InvokerID(i)
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := common.Options(i.ApplicationCommandData().Options)
	categoryID := common.StringOption(opts, "category", "xp")
	limit := int(common.IntOption(opts, "limit", defaultLimit))
	if limit < 1 || limit > maxLimit {
		return common.NewUserError(fmt.Sprintf("Limit must be between 1 and %d.", maxLimit), "leaderboard limit out of range")
	}

	guild := f.registry.Guild(i.GuildID)

	var b strings.Builder
	var title string
	if board, ok := economyBoards[categoryID]; ok {
		title = board.title
		economyLines(&b, board, guild.Economy.GetLeaderboard(board.metric, limit))
	} else {
		cat, ok := services.FindCategory(categoryID)
		if !ok {
			return common.NewUserError("Unknown leaderboard category.", "unknown category "+categoryID)
		}
		rows, err := guild.Activity.GetLeaderboard(categoryID, limit)
		if err != nil {
			return common.NewSystemError(err, "failed to build leaderboard")
		}
		title = fmt.Sprintf("%s %s Leaderboard", cat.Emoji, cat.Name)
		for _, r := range rows {
			fmt.Fprintf(&b, "%s %s %s\n", rankLabel(r.Rank), common.Mention(r.Stats.UserID), cat.Format(r.Value))
		}
	}

	if b.Len() == 0 {
		b.WriteString("Nobody has been ranked yet.")
	}
	return common.RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       common.ColorGold,
	}, false)
}

func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	userID := targetUserID(s, i, opts)

	activity := f.registry.Guild(i.GuildID).Activity
	stats := activity.GetUserStats(ctx, userID)
	rank, err := activity.GetUserRank(ctx, userID, "xp")
	if err != nil {
		return common.NewSystemError(err, "failed to rank member")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Activity Profile",
		Description: common.Mention(userID),
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⭐ Level", Value: fmt.Sprintf("%d (%s xp)", stats.Level, humanize.Comma(stats.XP)), Inline: true},
			{Name: "📈 Next Level", Value: humanize.Comma(services.GetXPToNextLevel(stats)) + " xp", Inline: true},
			{Name: "🏅 Rank", Value: fmt.Sprintf("#%d of %d", rank, activity.Participants()), Inline: true},
			{Name: "💬 Messages", Value: humanize.Comma(stats.Messages), Inline: true},
			{Name: "🎤 Voice", Value: minutes(stats.VoiceMinutes), Inline: true},
			{Name: "📚 Study", Value: minutes(stats.StudyMinutes), Inline: true},
			{Name: "👍 Reactions", Value: fmt.Sprintf("%d given / %d received", stats.ReactionsGiven, stats.ReactionsReceived), Inline: true},
			{Name: "🔥 Streak", Value: fmt.Sprintf("%d days, %d weeks", stats.DailyStreak, stats.WeeklyStreak), Inline: true},
			{Name: "🏆 Achievements", Value: fmt.Sprintf("%d / %d", len(stats.Achievements), len(services.Achievements())), Inline: true},
		},
	}
	return common.RespondWithEmbed(s, i, embed, false)
}

func (f *Feature) handleAchievements(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	userID := targetUserID(s, i, opts)

	stats := f.registry.Guild(i.GuildID).Activity.GetUserStats(ctx, userID)

	var b strings.Builder
	for _, a := range services.Achievements() {
		mark := "🔒"
		if stats.HasAchievement(a.ID) {
			mark = a.Emoji
		}
		fmt.Fprintf(&b, "%s **%s** (%s) %s\n", mark, a.Name, a.Rarity, a.Description)
	}
	return common.RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏆 Achievements %d/%d", len(stats.Achievements), len(services.Achievements())),
		Description: b.String(),
		Color:       common.ColorGold,
	}, true)
}

func minutes(m int64) string {
	return common.FormatDuration(time.Duration(m) * time.Minute)
}
