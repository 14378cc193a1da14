package moderation

import (
	"context"

	"guildbot/application"
	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// RoleManager applies the mute role on the platform
type RoleManager interface {
	AddMuteRole(ctx context.Context, guildID, userID string) error
	RemoveMuteRole(ctx context.Context, guildID, userID string) error
}

// Feature serves the warning, mute and bad word commands
type Feature struct {
	registry *application.Registry
	roles    RoleManager
	audit    common.AuditSink
}

func New(registry *application.Registry, roles RoleManager, audit common.AuditSink) *Feature {
	return &Feature{registry: registry, roles: roles, audit: audit}
}

// HandleCommand routes the moderation slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "warn":
		err = f.handleWarn(s, i)
	case "warnings":
		err = f.handleWarnings(s, i)
	case "clearwarnings":
		err = f.handleClearWarnings(s, i)
	case "mute":
		err = f.handleMute(s, i)
	case "unmute":
		err = f.handleUnmute(s, i)
	case "badwords":
		err = f.handleBadWords(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}
