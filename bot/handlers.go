package bot

import (
	"context"
	"fmt"
	"strings"

	"guildbot/bot/common"
	"guildbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) recordCommand(i *discordgo.InteractionCreate) {
	userID := common.InvokerID(i)
	if userID == "" {
		return
	}
	if _, err := b.registry.Guild(i.GuildID).Activity.AddActivity(context.Background(), userID, entities.ActivityCommand, 1); err != nil {
		log.WithError(err).Warn("Failed to record command activity")
	}
}

// handleMessageCreate runs the content filter and credits message activity
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	ctx := context.Background()
	guild := b.registry.Guild(m.GuildID)

	if reason := guild.Filter.Check(m.Content); reason != "" {
		b.removeMessage(ctx, s, m, reason)
		return
	}

	result, err := guild.Activity.AddActivity(ctx, m.Author.ID, entities.ActivityMessage, 1)
	if err != nil {
		log.WithError(err).Warn("Failed to record message activity")
		return
	}

	if result.LevelUp {
		b.announce(ctx, m.ChannelID, entities.Message{
			Title:       "🎉 Level Up!",
			Description: fmt.Sprintf("%s reached **level %d**!", common.Mention(m.Author.ID), result.NewLevel),
			Color:       common.ColorGold,
		})
	}
	for _, a := range result.Unlocked {
		b.announce(ctx, m.ChannelID, entities.Message{
			Title:       fmt.Sprintf("%s Achievement Unlocked!", a.Emoji),
			Description: fmt.Sprintf("%s earned **%s**\n%s\n+%d xp", common.Mention(m.Author.ID), a.Name, a.Description, a.RewardXP),
			Color:       common.ColorGold,
		})
	}
}

func (b *Bot) removeMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, reason string) {
	fields := log.Fields{
		"guildID": m.GuildID,
		"userID":  m.Author.ID,
		"reason":  reason,
	}
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID, discordgo.WithContext(ctx)); err != nil {
		fields["error"] = err
		log.WithFields(fields).Warn("Failed to delete filtered message")
		return
	}
	log.WithFields(fields).Info("Filtered message removed")

	b.announce(ctx, m.ChannelID, entities.Message{
		Content: fmt.Sprintf("⚠️ %s, your message was removed: %s", common.Mention(m.Author.ID), reason),
	})
	b.audit.Audit(ctx, m.GuildID, entities.AuditMessageDelete, entities.Message{
		Title:       "🗑️ Message Filtered",
		Description: fmt.Sprintf("Message from %s in <#%s> removed\n**Reason:** %s", common.Mention(m.Author.ID), m.ChannelID, reason),
		Color:       entities.ColorError,
	})
}

func (b *Bot) announce(ctx context.Context, channelID string, msg entities.Message) {
	if err := b.notifier.SendMessage(ctx, channelID, msg); err != nil {
		log.WithFields(log.Fields{
			"channelID": channelID,
			"error":     err,
		}).Warn("Failed to queue announcement")
	}
}

// messageAuthor returns the author of a reacted message, from state when cached
func messageAuthor(s *discordgo.Session, channelID, messageID string) string {
	if msg, err := s.State.Message(channelID, messageID); err == nil && msg.Author != nil {
		return msg.Author.ID
	}
	msg, err := s.ChannelMessage(channelID, messageID)
	if err != nil || msg.Author == nil {
		return ""
	}
	return msg.Author.ID
}

func (b *Bot) creditReaction(s *discordgo.Session, r *discordgo.MessageReaction, amount int64) {
	if r.GuildID == "" {
		return
	}
	ctx := context.Background()
	activity := b.registry.Guild(r.GuildID).Activity

	if _, err := activity.AddActivity(ctx, r.UserID, entities.ActivityReactionGiven, amount); err != nil {
		log.WithError(err).Warn("Failed to record reaction")
	}

	author := messageAuthor(s, r.ChannelID, r.MessageID)
	if author == "" || author == r.UserID {
		return
	}
	if _, err := activity.AddActivity(ctx, author, entities.ActivityReactionReceived, amount); err != nil {
		log.WithError(err).Warn("Failed to record received reaction")
	}
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}
	b.creditReaction(s, r.MessageReaction, 1)
}

func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.creditReaction(s, r.MessageReaction, -1)
}

// handleVoiceStateUpdate credits whole voice minutes when a member leaves or switches channel
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.GuildID == "" || (v.Member != nil && v.Member.User != nil && v.Member.User.Bot) {
		return
	}

	before := ""
	if v.BeforeUpdate != nil {
		before = v.BeforeUpdate.ChannelID
	}
	after := v.ChannelID
	voice := b.registry.Voice()

	var minutes int64
	switch {
	case before == "" && after != "":
		voice.Join(v.GuildID, v.UserID, after)
		return
	case before != "" && after == "":
		minutes = voice.Leave(v.GuildID, v.UserID)
	case before != after:
		minutes = voice.Switch(v.GuildID, v.UserID, after)
	default:
		return
	}

	if minutes < 1 {
		return
	}
	if _, err := b.registry.Guild(v.GuildID).Activity.AddActivity(context.Background(), v.UserID, entities.ActivityVoice, minutes); err != nil {
		log.WithError(err).Warn("Failed to record voice activity")
	}
}

// handleMemberAdd credits the join bonus and posts the welcome
func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}
	ctx := context.Background()
	guild := b.registry.Guild(m.GuildID)

	member := entities.JoiningMember{
		UserID:      m.User.ID,
		Username:    m.User.Username,
		DisplayName: m.User.Username,
	}
	if m.Nick != "" {
		member.DisplayName = m.Nick
	} else if m.User.GlobalName != "" {
		member.DisplayName = m.User.GlobalName
	}
	if g, err := s.State.Guild(m.GuildID); err == nil {
		member.ServerName = g.Name
		member.MemberCount = g.MemberCount
	}

	b.audit.Audit(ctx, m.GuildID, entities.AuditMemberJoin, entities.Message{
		Title:       "📥 Member Joined",
		Description: fmt.Sprintf("%s (%s)", common.Mention(m.User.ID), m.User.Username),
		Color:       entities.ColorSuccess,
	})

	plan, ok := guild.Welcome.HandleMemberJoin(ctx, member)
	if !ok {
		return
	}

	if plan.AutoRoleID != "" {
		if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, plan.AutoRoleID, discordgo.WithContext(ctx)); err != nil {
			log.WithFields(log.Fields{
				"guildID": m.GuildID,
				"userID":  m.User.ID,
				"roleID":  plan.AutoRoleID,
				"error":   err,
			}).Warn("Failed to assign auto role")
		}
	}

	msg := welcomeMessage(plan, guild.Config.Welcome(ctx).EmbedColor, member)
	if plan.ChannelID != "" {
		b.announce(ctx, plan.ChannelID, msg)
	}
	if plan.DM {
		ch, err := s.UserChannelCreate(m.User.ID, discordgo.WithContext(ctx))
		if err != nil {
			log.WithError(err).Warn("Failed to open welcome DM")
			return
		}
		b.announce(ctx, ch.ID, msg)
	}
}

func welcomeMessage(plan entities.WelcomePlan, color string, m entities.JoiningMember) entities.Message {
	if !plan.Card {
		return entities.Message{Content: plan.Content}
	}

	var footer strings.Builder
	if m.MemberCount > 0 {
		fmt.Fprintf(&footer, "Member #%d", m.MemberCount)
	}
	if plan.BonusCoins > 0 {
		if footer.Len() > 0 {
			footer.WriteString(" • ")
		}
		fmt.Fprintf(&footer, "+%s welcome bonus", common.FormatCoins(plan.BonusCoins))
	}
	return entities.Message{
		Title:       "👋 Welcome, " + m.DisplayName + "!",
		Description: plan.Content,
		Color:       common.ParseHexColor(color),
		Footer:      footer.String(),
	}
}

func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil || m.User.Bot {
		return
	}
	b.audit.Audit(context.Background(), m.GuildID, entities.AuditMemberLeave, entities.Message{
		Title:       "📤 Member Left",
		Description: fmt.Sprintf("%s (%s)", common.Mention(m.User.ID), m.User.Username),
		Color:       entities.ColorError,
	})
}
