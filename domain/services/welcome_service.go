package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/events"

	log "github.com/sirupsen/logrus"
)

// WelcomeXP is the economy xp credited alongside the join bonus
const WelcomeXP = 50

// WelcomeService credits new members and plans their welcome
type WelcomeService struct {
	config    *GuildConfigStore
	economy   *EconomyLedger
	publisher interfaces.EventPublisher
}

// NewWelcomeService creates a welcome service for one guild
func NewWelcomeService(config *GuildConfigStore, economy *EconomyLedger, publisher interfaces.EventPublisher) *WelcomeService {
	return &WelcomeService{config: config, economy: economy, publisher: publisher}
}

// HandleMemberJoin credits the join bonus and returns what the gateway should post.
// It returns false when welcomes are disabled for the guild.
func (s *WelcomeService) HandleMemberJoin(ctx context.Context, m entities.JoiningMember) (entities.WelcomePlan, bool) {
	cfg := s.config.Welcome(ctx)
	if !cfg.Enabled {
		return entities.WelcomePlan{}, false
	}

	var credited int64
	if cfg.BonusCoins > 0 && s.economy.AddMoney(ctx, m.UserID, cfg.BonusCoins, false) {
		credited = cfg.BonusCoins
		s.economy.AddXP(ctx, m.UserID, WelcomeXP)
	}

	content := RenderWelcome(cfg.Message, m)
	if cfg.MentionUser && !strings.Contains(cfg.Message, "{user}") {
		content = fmt.Sprintf("<@%s> %s", m.UserID, content)
	}

	plan := entities.WelcomePlan{
		ChannelID:  cfg.ChannelID,
		Content:    content,
		AutoRoleID: cfg.AutoRoleID,
		DM:         cfg.DMWelcome,
		BonusCoins: credited,
		Card:       cfg.CardEnabled,
	}

	if s.publisher != nil {
		event := events.MemberWelcomedEvent{GuildID: s.economy.guildID, UserID: m.UserID, BonusCoins: credited}
		if err := s.publisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"userID": m.UserID,
				"error":  err,
			}).Warn("Failed to publish welcome event")
		}
	}
	return plan, true
}

// RenderWelcome fills the {user}, {username}, {displayName}, {server} and {memberCount} placeholders
func RenderWelcome(template string, m entities.JoiningMember) string {
	return strings.NewReplacer(
		"{user}", "<@"+m.UserID+">",
		"{username}", m.Username,
		"{displayName}", m.DisplayName,
		"{server}", m.ServerName,
		"{memberCount}", strconv.Itoa(m.MemberCount),
	).Replace(template)
}
