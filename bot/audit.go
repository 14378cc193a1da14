package bot

import (
	"context"

	"guildbot/application"
	"guildbot/domain/entities"
	"guildbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// AuditLogger posts audit entries to a guild's log channel when that event is switched on
type AuditLogger struct {
	registry *application.Registry
	notifier interfaces.Notifier
}

func NewAuditLogger(registry *application.Registry, notifier interfaces.Notifier) *AuditLogger {
	return &AuditLogger{registry: registry, notifier: notifier}
}

// Audit sends msg to the guild's log channel if event should be logged
func (a *AuditLogger) Audit(ctx context.Context, guildID string, event entities.AuditEvent, msg entities.Message) {
	cfg := a.registry.Guild(guildID).Config
	if !cfg.ShouldLog(event) {
		return
	}

	channelID := cfg.Audit(ctx).ChannelID
	if err := a.notifier.SendMessage(ctx, channelID, msg); err != nil {
		log.WithFields(log.Fields{
			"guildID":   guildID,
			"event":     event,
			"channelID": channelID,
			"error":     err,
		}).Warn("Failed to post audit entry")
	}
}
