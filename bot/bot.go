package bot

import (
	"context"
	"fmt"

	"guildbot/application"
	"guildbot/bot/features/coinflip"
	"guildbot/bot/features/economy"
	"guildbot/bot/features/leaderboard"
	"guildbot/bot/features/moderation"
	"guildbot/bot/features/settings"
	"guildbot/bot/features/timers"
	"guildbot/domain/entities"
	"guildbot/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// NewSession creates a Discord session with the intents the bot listens on
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
	return dg, nil
}

type Bot struct {
	session  *discordgo.Session
	registry *application.Registry
	notifier *ChannelNotifier
	roles    *MuteRoles
	audit    *AuditLogger
	eventBus *events.Bus

	economyFeature     *economy.Feature
	coinflipFeature    *coinflip.Feature
	timersFeature      *timers.Feature
	moderationFeature  *moderation.Feature
	leaderboardFeature *leaderboard.Feature
	settingsFeature    *settings.Feature
}

// New registers the gateway handlers, opens the session and registers the slash commands
func New(session *discordgo.Session, registry *application.Registry, notifier *ChannelNotifier, roles *MuteRoles, eventBus *events.Bus) (*Bot, error) {
	audit := NewAuditLogger(registry, notifier)
	bot := &Bot{
		session:  session,
		registry: registry,
		notifier: notifier,
		roles:    roles,
		audit:    audit,
		eventBus: eventBus,

		economyFeature:     economy.New(registry),
		coinflipFeature:    coinflip.New(registry),
		timersFeature:      timers.New(registry),
		moderationFeature:  moderation.New(registry, roles, audit),
		leaderboardFeature: leaderboard.New(registry),
		settingsFeature:    settings.New(registry),
	}

	session.AddHandler(bot.handleCommands)
	session.AddHandler(bot.handleMessageCreate)
	session.AddHandler(bot.handleReactionAdd)
	session.AddHandler(bot.handleReactionRemove)
	session.AddHandler(bot.handleVoiceStateUpdate)
	session.AddHandler(bot.handleMemberAdd)
	session.AddHandler(bot.handleMemberRemove)

	bot.subscribe()

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) subscribe() {
	b.eventBus.Subscribe(events.EventTypeAutoMuteThreshold, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.AutoMuteThresholdEvent)
		if !ok {
			return
		}
		if err := b.roles.AddMuteRole(ctx, e.GuildID, e.UserID); err != nil {
			log.WithFields(log.Fields{
				"guildID": e.GuildID,
				"userID":  e.UserID,
				"error":   err,
			}).Warn("Failed to apply auto-mute")
			return
		}
		b.audit.Audit(ctx, e.GuildID, entities.AuditMemberMute, entities.Message{
			Title:       "🔇 Member Auto-Muted",
			Description: fmt.Sprintf("<@%s> reached %d warnings", e.UserID, e.Warnings),
			Color:       entities.ColorWarning,
		})
	})

	b.eventBus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.LevelUpEvent); ok {
			log.WithFields(log.Fields{
				"guildID":  e.GuildID,
				"userID":   e.UserID,
				"source":   e.Source,
				"newLevel": e.NewLevel,
			}).Info("Member leveled up")
		}
	})

	b.eventBus.Subscribe(events.EventTypeAchievementUnlocked, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.AchievementUnlockedEvent); ok {
			log.WithFields(log.Fields{
				"guildID":     e.GuildID,
				"userID":      e.UserID,
				"achievement": e.AchievementID,
			}).Info("Achievement unlocked")
		}
	})
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || i.GuildID == "" {
		return
	}

	b.recordCommand(i)

	switch i.ApplicationCommandData().Name {
	case "balance", "daily", "weekly", "deposit", "withdraw", "pay":
		b.economyFeature.HandleCommand(s, i)
	case "coinflip":
		b.coinflipFeature.HandleCommand(s, i)
	case "timer", "pomodoro", "study":
		b.timersFeature.HandleCommand(s, i)
	case "warn", "warnings", "clearwarnings", "mute", "unmute", "badwords":
		b.moderationFeature.HandleCommand(s, i)
	case "leaderboard", "profile", "achievements":
		b.leaderboardFeature.HandleCommand(s, i)
	case "welcome", "logs":
		b.settingsFeature.HandleCommand(s, i)
	}
}
