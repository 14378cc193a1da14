package coinflip

import (
	"guildbot/application"
	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the /coinflip wager
type Feature struct {
	registry *application.Registry
}

func New(registry *application.Registry) *Feature {
	return &Feature{registry: registry}
}

// HandleCommand handles the coinflip slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := f.handleCoinflip(s, i); err != nil {
		common.HandleError(s, i, err)
	}
}
