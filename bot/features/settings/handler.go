package settings

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

func onOff(b bool) string {
	if b {
		return "✅ enabled"
	}
	return "❌ disabled"
}

func channelOrNone(id string) string {
	if id == "" {
		return "not set"
	}
	return "<#" + id + ">"
}

func welcomeEmbed(cfg entities.WelcomeConfig) *discordgo.MessageEmbed {
	role := "none"
	if cfg.AutoRoleID != "" {
		role = "<@&" + cfg.AutoRoleID + ">"
	}
	return &discordgo.MessageEmbed{
		Title: "👋 Welcome Settings",
		Color: common.ParseHexColor(cfg.EmbedColor),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: onOff(cfg.Enabled), Inline: true},
			{Name: "Channel", Value: channelOrNone(cfg.ChannelID), Inline: true},
			{Name: "Auto Role", Value: role, Inline: true},
			{Name: "Card", Value: onOff(cfg.CardEnabled), Inline: true},
			{Name: "DM", Value: onOff(cfg.DMWelcome), Inline: true},
			{Name: "Bonus", Value: common.FormatCoins(cfg.BonusCoins), Inline: true},
			{Name: "Message", Value: cfg.Message},
		},
	}
}

func (f *Feature) handleWelcome(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	sub, opts := common.Subcommand(i)
	store := f.registry.Guild(i.GuildID).Config

	var cfg entities.WelcomeConfig
	switch sub {
	case "show":
		cfg = store.Welcome(ctx)
	case "channel":
		o, ok := opts["channel"]
		if !ok {
			return common.NewUserError("Please choose a channel.", "missing welcome channel")
		}
		cfg = store.SetWelcomeChannel(ctx, o.ChannelValue(s).ID)
	case "message":
		cfg = store.SetWelcomeMessage(ctx, common.StringOption(opts, "text", ""))
	case "toggle":
		cfg = store.ToggleWelcome(ctx)
	case "card":
		cfg = store.ToggleWelcomeCard(ctx)
	case "dm":
		cfg = store.ToggleWelcomeDM(ctx)
	case "autorole":
		roleID := ""
		if o, ok := opts["role"]; ok {
			roleID = o.RoleValue(s, i.GuildID).ID
		}
		cfg = store.SetAutoRole(ctx, roleID)
	case "bonus":
		var ok bool
		cfg, ok = store.SetBonusCoins(ctx, common.IntOption(opts, "coins", 0))
		if !ok {
			return common.NewUserError("Bonus coins can't be negative.", "negative welcome bonus")
		}
	default:
		return common.NewUserError("Unknown welcome command.", "unknown welcome subcommand "+sub)
	}

	if sub != "show" {
		log.WithFields(log.Fields{
			"guildID": i.GuildID,
			"userID":  common.InvokerID(i),
			"setting": sub,
		}).Info("Welcome settings updated")
	}
	return common.RespondWithEmbed(s, i, welcomeEmbed(cfg), true)
}

func auditEmbed(cfg entities.AuditConfig) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, ev := range entities.AuditEvents {
		mark := "❌"
		if cfg.Events[ev] {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s `%s`\n", mark, ev)
	}
	return &discordgo.MessageEmbed{
		Title: "📋 Audit Log Settings",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: onOff(cfg.Enabled), Inline: true},
			{Name: "Channel", Value: channelOrNone(cfg.ChannelID), Inline: true},
			{Name: "Events", Value: b.String()},
		},
	}
}

func (f *Feature) handleLogs(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	sub, opts := common.Subcommand(i)
	store := f.registry.Guild(i.GuildID).Config

	var cfg entities.AuditConfig
	switch sub {
	case "show":
		cfg = store.Audit(ctx)
	case "channel":
		o, ok := opts["channel"]
		if !ok {
			return common.NewUserError("Please choose a channel.", "missing log channel")
		}
		cfg = store.SetLogChannel(ctx, o.ChannelValue(s).ID)
	case "toggle":
		cfg = store.ToggleLogging(ctx)
	case "event":
		var err error
		cfg, err = store.ToggleEvent(ctx, entities.AuditEvent(common.StringOption(opts, "event", "")))
		if errors.Is(err, services.ErrUnknownEvent) {
			return common.NewUserError("Unknown audit event.", err.Error())
		}
		if err != nil {
			return common.NewSystemError(err, "failed to toggle audit event")
		}
	default:
		return common.NewUserError("Unknown logs command.", "unknown logs subcommand "+sub)
	}
	return common.RespondWithEmbed(s, i, auditEmbed(cfg), true)
}
