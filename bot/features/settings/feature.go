package settings

import (
	"guildbot/application"
	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the welcome and audit log configuration commands
type Feature struct {
	registry *application.Registry
}

func New(registry *application.Registry) *Feature {
	return &Feature{registry: registry}
}

// HandleCommand routes settings commands to the matching handler
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "welcome":
		err = f.handleWelcome(s, i)
	case "logs":
		err = f.handleLogs(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}
