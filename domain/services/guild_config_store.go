package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"guildbot/domain/entities"
	"guildbot/storage"

	log "github.com/sirupsen/logrus"
)

// GuildConfigStore holds a guild's welcome, audit log and bad word settings
type GuildConfigStore struct {
	guildID  string
	welcome  *storage.Document[entities.WelcomeConfig]
	audit    *storage.Document[entities.AuditConfig]
	badWords *storage.Document[[]string]

	mu sync.Mutex
}

// NewGuildConfigStore creates the settings container for one guild
func NewGuildConfigStore(
	guildID string,
	welcome *storage.Document[entities.WelcomeConfig],
	audit *storage.Document[entities.AuditConfig],
	badWords *storage.Document[[]string],
) *GuildConfigStore {
	return &GuildConfigStore{
		guildID:  guildID,
		welcome:  welcome,
		audit:    audit,
		badWords: badWords,
	}
}

// Welcome returns the welcome config, writing the defaults on first access
func (s *GuildConfigStore) Welcome(ctx context.Context) entities.WelcomeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.welcomeConfig(ctx)
}

func (s *GuildConfigStore) welcomeConfig(ctx context.Context) entities.WelcomeConfig {
	if c, ok := s.welcome.Get(s.guildID); ok {
		return c
	}
	c := entities.DefaultWelcomeConfig()
	s.welcome.Put(ctx, s.guildID, c)
	return c
}

func (s *GuildConfigStore) updateWelcome(ctx context.Context, fn func(*entities.WelcomeConfig)) entities.WelcomeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.welcomeConfig(ctx)
	fn(&c)
	s.welcome.Put(ctx, s.guildID, c)
	return c
}

// SetWelcomeChannel sets the channel welcome messages are posted to
func (s *GuildConfigStore) SetWelcomeChannel(ctx context.Context, channelID string) entities.WelcomeConfig {
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.ChannelID = channelID })
}

// SetWelcomeMessage replaces the welcome template. An empty template restores the default.
func (s *GuildConfigStore) SetWelcomeMessage(ctx context.Context, message string) entities.WelcomeConfig {
	if strings.TrimSpace(message) == "" {
		message = entities.DefaultWelcomeMessage
	}
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.Message = message })
}

// ToggleWelcome flips whether new members are welcomed
func (s *GuildConfigStore) ToggleWelcome(ctx context.Context) entities.WelcomeConfig {
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.Enabled = !c.Enabled })
}

// ToggleWelcomeCard flips whether the welcome card is attached
func (s *GuildConfigStore) ToggleWelcomeCard(ctx context.Context) entities.WelcomeConfig {
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.CardEnabled = !c.CardEnabled })
}

// ToggleWelcomeDM flips whether the welcome is also sent by direct message
func (s *GuildConfigStore) ToggleWelcomeDM(ctx context.Context) entities.WelcomeConfig {
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.DMWelcome = !c.DMWelcome })
}

// SetAutoRole sets the role granted on join. An empty id disables it.
func (s *GuildConfigStore) SetAutoRole(ctx context.Context, roleID string) entities.WelcomeConfig {
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.AutoRoleID = roleID })
}

// SetBonusCoins sets the coins credited to new members. Negative amounts are rejected.
func (s *GuildConfigStore) SetBonusCoins(ctx context.Context, coins int64) (entities.WelcomeConfig, bool) {
	if coins < 0 {
		return s.Welcome(ctx), false
	}
	return s.updateWelcome(ctx, func(c *entities.WelcomeConfig) { c.BonusCoins = coins }), true
}

// Audit returns the audit log config, writing the defaults on first access
func (s *GuildConfigStore) Audit(ctx context.Context) entities.AuditConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auditConfig(ctx).Clone()
}

func (s *GuildConfigStore) auditConfig(ctx context.Context) entities.AuditConfig {
	if c, ok := s.audit.Get(s.guildID); ok {
		if c.Events == nil {
			c.Events = entities.DefaultAuditConfig().Events
		}
		return c.Clone()
	}
	c := entities.DefaultAuditConfig()
	s.audit.Put(ctx, s.guildID, c)
	return c.Clone()
}

func (s *GuildConfigStore) updateAudit(ctx context.Context, fn func(*entities.AuditConfig)) entities.AuditConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.auditConfig(ctx)
	fn(&c)
	s.audit.Put(ctx, s.guildID, c)
	return c.Clone()
}

// SetLogChannel sets the audit log channel and enables logging
func (s *GuildConfigStore) SetLogChannel(ctx context.Context, channelID string) entities.AuditConfig {
	return s.updateAudit(ctx, func(c *entities.AuditConfig) {
		c.ChannelID = channelID
		c.Enabled = true
	})
}

// ToggleLogging flips audit logging as a whole
func (s *GuildConfigStore) ToggleLogging(ctx context.Context) entities.AuditConfig {
	return s.updateAudit(ctx, func(c *entities.AuditConfig) { c.Enabled = !c.Enabled })
}

// ToggleEvent flips logging of one audit event
func (s *GuildConfigStore) ToggleEvent(ctx context.Context, event entities.AuditEvent) (entities.AuditConfig, error) {
	if !slices.Contains(entities.AuditEvents, event) {
		return entities.AuditConfig{}, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	return s.updateAudit(ctx, func(c *entities.AuditConfig) { c.Events[event] = !c.Events[event] }), nil
}

// ShouldLog reports whether event should be written to the audit channel
func (s *GuildConfigStore) ShouldLog(event entities.AuditEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.audit.Get(s.guildID)
	if !ok || !c.Enabled || c.ChannelID == "" {
		return false
	}
	on, known := c.Events[event]
	return on || (!known && slices.Contains(entities.AuditEvents, event))
}

// BadWords returns the guild's bad words in the order they were added
func (s *GuildConfigStore) BadWords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	words, _ := s.badWords.Get(s.guildID)
	return slices.Clone(words)
}

// AddBadWord stores word lower-cased. It reports false when the word is already listed.
func (s *GuildConfigStore) AddBadWord(ctx context.Context, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	words, _ := s.badWords.Get(s.guildID)
	if slices.Contains(words, word) {
		return false
	}
	s.badWords.Put(ctx, s.guildID, append(slices.Clone(words), word))

	log.WithFields(log.Fields{
		"guildID": s.guildID,
		"count":   len(words) + 1,
	}).Info("Bad word added")
	return true
}

// RemoveBadWord deletes word. It reports false when the word was not listed.
func (s *GuildConfigStore) RemoveBadWord(ctx context.Context, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))

	s.mu.Lock()
	defer s.mu.Unlock()

	words, _ := s.badWords.Get(s.guildID)
	rest := slices.DeleteFunc(slices.Clone(words), func(w string) bool { return w == word })
	if len(rest) == len(words) {
		return false
	}
	s.badWords.Put(ctx, s.guildID, rest)
	return true
}
