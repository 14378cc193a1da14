package timers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guildbot/bot/common"
	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/bwmarrin/discordgo"
)

const maxTimerMinutes = 24 * 60

func (f *Feature) handleTimer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	sub, opts := common.Subcommand(i)
	engine := f.registry.Guild(i.GuildID).Timers
	userID := common.InvokerID(i)

	switch sub {
	case "start":
		minutes := common.IntOption(opts, "minutes", 0)
		if minutes <= 0 || minutes > maxTimerMinutes {
			return common.NewUserError(fmt.Sprintf("Minutes must be between 1 and %d.", maxTimerMinutes), "timer minutes out of range")
		}
		kind := entities.TimerKind(common.StringOption(opts, "type", string(entities.TimerKindCustom)))
		t, err := engine.CreateTimer(ctx, userID, i.ChannelID, kind, int(minutes)*60, common.StringOption(opts, "name", "Timer"), entities.TimerOptions{
			Description: common.StringOption(opts, "description", ""),
		})
		if err != nil {
			return timerError(err)
		}
		return common.RespondWithEmbed(s, i, timerEmbed("⏰ Timer Started", t), false)

	case "preset":
		t, err := engine.StartPreset(ctx, userID, i.ChannelID, common.StringOption(opts, "id", ""))
		if err != nil {
			return timerError(err)
		}
		return common.RespondWithEmbed(s, i, timerEmbed("⏰ Timer Started", t), false)

	case "presets":
		var b strings.Builder
		for _, p := range services.Presets() {
			fmt.Fprintf(&b, "%s `%s` **%s** (%s) %s\n", p.Emoji, p.ID, p.Name, services.FormatClock(p.DurationSeconds), p.Description)
		}
		return common.RespondWithEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "⏱️ Timer Presets",
			Description: b.String(),
			Color:       entities.ColorInfo,
		}, true)

	case "pause", "resume", "stop":
		id := common.StringOption(opts, "id", "")
		t, ok := engine.GetTimer(id)
		if !ok {
			return timerError(services.ErrTimerNotFound)
		}
		if t.OwnerID != userID {
			return timerError(services.ErrTimerNotOwned)
		}

		var done bool
		switch sub {
		case "pause":
			done = engine.PauseTimer(id)
		case "resume":
			done = engine.ResumeTimer(id)
		default:
			done = engine.StopTimer(id)
		}
		if !done {
			return common.NewUserError(fmt.Sprintf("Timer `%s` can't be %s right now.", id, pastTense(sub)), "timer state change rejected")
		}
		return common.RespondWithSuccess(s, i, fmt.Sprintf("Timer **%s** %s.", t.Name, pastTense(sub)), true)

	case "list":
		active := engine.ActiveTimers(userID)
		if len(active) == 0 {
			return common.RespondWithMessage(s, i, "You have no active timers.", true)
		}
		var b strings.Builder
		for _, t := range active {
			b.WriteString(services.Summary(t))
			b.WriteString("\n\n")
		}
		return common.RespondWithEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "⏰ Your Timers",
			Description: b.String(),
			Color:       entities.ColorInfo,
		}, true)
	}
	return common.NewUserError("Unknown timer command.", "unknown timer subcommand "+sub)
}

func (f *Feature) handlePomodoro(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)

	def := entities.DefaultPomodoroPlan()
	plan := entities.PomodoroPlan{
		WorkSeconds:       int(common.IntOption(opts, "work", int64(def.WorkSeconds/60))) * 60,
		ShortBreakSeconds: int(common.IntOption(opts, "short_break", int64(def.ShortBreakSeconds/60))) * 60,
		LongBreakSeconds:  int(common.IntOption(opts, "long_break", int64(def.LongBreakSeconds/60))) * 60,
		TotalCycles:       int(common.IntOption(opts, "cycles", int64(def.TotalCycles))),
	}

	t, err := f.registry.Guild(i.GuildID).Timers.StartPomodoro(ctx, common.InvokerID(i), i.ChannelID, plan)
	if err != nil {
		return timerError(err)
	}
	return common.RespondWithEmbed(s, i, timerEmbed("🍅 Pomodoro Started", t), false)
}

func (f *Feature) handleStudy(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)

	minutes := common.IntOption(opts, "minutes", 60)
	if minutes <= 0 || minutes > maxTimerMinutes {
		return common.NewUserError(fmt.Sprintf("Minutes must be between 1 and %d.", maxTimerMinutes), "study minutes out of range")
	}

	_, t, err := f.registry.Guild(i.GuildID).Timers.StartStudySession(ctx, common.InvokerID(i), i.ChannelID,
		common.StringOption(opts, "subject", "General"), int(minutes)*60)
	if err != nil {
		return timerError(err)
	}
	return common.RespondWithEmbed(s, i, timerEmbed("📚 Study Session Started", t), false)
}

func timerEmbed(title string, t entities.Timer) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: services.Summary(t),
		Color:       entities.ColorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Ends"},
		Timestamp:   t.ScheduledEndAt.Format(time.RFC3339),
	}
}

func timerError(err error) error {
	switch {
	case errors.Is(err, services.ErrTimerNotFound):
		return common.NewUserError("Timer not found.", err.Error())
	case errors.Is(err, services.ErrTimerNotOwned):
		return common.NewUserError("That timer belongs to someone else.", err.Error())
	case errors.Is(err, services.ErrUnknownPreset):
		return common.NewUserError("Unknown preset. Use `/timer presets` to see them all.", err.Error())
	case errors.Is(err, services.ErrInvalidTimer):
		return common.NewUserError("Those timer settings aren't valid.", err.Error())
	}
	return common.NewSystemError(err, "failed to manage timer")
}

func pastTense(verb string) string {
	switch verb {
	case "stop":
		return "stopped"
	case "pause":
		return "paused"
	default:
		return verb + "d"
	}
}
