package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guildbot/bot/common"
	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func targetUser(s *discordgo.Session, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.User, error) {
	o, ok := opts["user"]
	if !ok {
		return nil, common.NewUserError("Please choose a member.", "missing target user")
	}
	u := o.UserValue(s)
	if u == nil {
		return nil, common.NewUserError("Member not found.", "unresolvable target user")
	}
	return u, nil
}

func (f *Feature) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	target, err := targetUser(s, opts)
	if err != nil {
		return err
	}

	res := f.registry.Guild(i.GuildID).Moderation.Warn(ctx, target.ID, common.InvokerID(i), common.StringOption(opts, "reason", ""))

	reply := fmt.Sprintf("⚠️ %s has been warned.\n📝 Reason: %s\n📚 Total warnings: %d",
		common.Mention(target.ID), res.Warning.Reason, res.Count)
	if res.ThresholdReached {
		reply += "\n🔇 Warning limit reached, member has been muted."
	}

	f.audit.Audit(ctx, i.GuildID, entities.AuditMemberWarn, entities.Message{
		Title:       "⚠️ Member Warned",
		Description: fmt.Sprintf("%s warned %s\n**Reason:** %s", common.Mention(common.InvokerID(i)), common.Mention(target.ID), res.Warning.Reason),
		Color:       entities.ColorWarning,
	})
	return common.RespondWithMessage(s, i, reply, false)
}

func (f *Feature) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := common.Options(i.ApplicationCommandData().Options)
	target, err := targetUser(s, opts)
	if err != nil {
		return err
	}

	list := f.registry.Guild(i.GuildID).Moderation.Warnings(target.ID)
	if len(list) == 0 {
		return common.RespondWithMessage(s, i, fmt.Sprintf("✅ %s has no warnings.", common.Mention(target.ID)), true)
	}

	var b strings.Builder
	for n, w := range list {
		fmt.Fprintf(&b, "**%d.** %s\n🆔 `%s` by %s %s\n", n+1, w.Reason, w.ID,
			common.Mention(w.ModeratorID), common.FormatDiscordTimestamp(w.Timestamp, "R"))
	}
	return common.RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚠️ Warnings for %s", target.Username),
		Description: b.String(),
		Color:       entities.ColorWarning,
	}, true)
}

func (f *Feature) handleClearWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	target, err := targetUser(s, opts)
	if err != nil {
		return err
	}

	n, err := f.registry.Guild(i.GuildID).Moderation.ClearWarnings(ctx, target.ID, common.StringOption(opts, "id", ""))
	if errors.Is(err, services.ErrWarningNotFound) {
		return common.NewUserError("No warning with that id.", err.Error())
	}
	if err != nil {
		return common.NewSystemError(err, "failed to clear warnings")
	}
	return common.RespondWithSuccess(s, i, fmt.Sprintf("Cleared %d warning(s) for %s.", n, common.Mention(target.ID)), true)
}

func (f *Feature) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	target, err := targetUser(s, opts)
	if err != nil {
		return err
	}

	d, err := services.ParseDuration(common.StringOption(opts, "duration", ""))
	if err != nil {
		return common.NewUserError("Invalid duration. Use formats like `10m`, `1h` or `1d`.", err.Error())
	}

	if err := f.roles.AddMuteRole(ctx, i.GuildID, target.ID); err != nil {
		return common.NewUserError("I couldn't apply the mute role. Make sure a `Muted` role exists and I can manage it.", err.Error())
	}
	rec, err := f.registry.Guild(i.GuildID).Moderation.Mute(ctx, target.ID, d)
	if err != nil {
		return common.NewSystemError(err, "failed to record mute")
	}

	reason := common.StringOption(opts, "reason", "No reason provided")
	log.WithFields(log.Fields{
		"guildID":  i.GuildID,
		"userID":   target.ID,
		"duration": d,
	}).Info("Member muted by moderator")

	f.audit.Audit(ctx, i.GuildID, entities.AuditMemberMute, entities.Message{
		Title:       "🔇 Member Muted",
		Description: fmt.Sprintf("%s muted %s for %s\n**Reason:** %s", common.Mention(common.InvokerID(i)), common.Mention(target.ID), common.FormatDuration(d), reason),
		Color:       entities.ColorWarning,
	})
	return common.RespondWithMessage(s, i, fmt.Sprintf("🔇 %s has been muted until %s.\n📝 Reason: %s",
		common.Mention(target.ID), common.FormatDiscordTimestamp(rec.UnmuteAt, "f"), reason), false)
}

func (f *Feature) handleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	target, err := targetUser(s, opts)
	if err != nil {
		return err
	}

	if err := f.roles.RemoveMuteRole(ctx, i.GuildID, target.ID); err != nil {
		return common.NewUserError("I couldn't remove the mute role.", err.Error())
	}
	f.registry.Guild(i.GuildID).Moderation.Unmute(ctx, target.ID)

	f.audit.Audit(ctx, i.GuildID, entities.AuditMemberUnmute, entities.Message{
		Title:       "🔊 Member Unmuted",
		Description: fmt.Sprintf("%s unmuted %s", common.Mention(common.InvokerID(i)), common.Mention(target.ID)),
		Color:       entities.ColorSuccess,
	})
	return common.RespondWithSuccess(s, i, fmt.Sprintf("%s has been unmuted.", common.Mention(target.ID)), false)
}

func (f *Feature) handleBadWords(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	sub, opts := common.Subcommand(i)
	cfg := f.registry.Guild(i.GuildID).Config
	word := common.StringOption(opts, "word", "")

	switch sub {
	case "add":
		if !cfg.AddBadWord(ctx, word) {
			return common.NewUserError("That word is already listed.", "duplicate bad word")
		}
		return common.RespondWithSuccess(s, i, fmt.Sprintf("Added `%s` to the filter.", strings.ToLower(word)), true)
	case "remove":
		if !cfg.RemoveBadWord(ctx, word) {
			return common.NewUserError("That word isn't listed.", "unknown bad word")
		}
		return common.RespondWithSuccess(s, i, fmt.Sprintf("Removed `%s` from the filter.", strings.ToLower(word)), true)
	case "list":
		words := cfg.BadWords()
		if len(words) == 0 {
			return common.RespondWithMessage(s, i, "The filter list is empty.", true)
		}
		return common.RespondWithMessage(s, i, "🚫 Filtered words: `"+strings.Join(words, "`, `")+"`", true)
	}
	return common.NewUserError("Unknown badwords command.", "unknown badwords subcommand "+sub)
}
