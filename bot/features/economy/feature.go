package economy

import (
	"guildbot/application"
	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the wallet, bank and reward commands
type Feature struct {
	registry *application.Registry
}

func New(registry *application.Registry) *Feature {
	return &Feature{registry: registry}
}

// HandleCommand routes the economy slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "balance":
		err = f.handleBalance(s, i)
	case "daily":
		err = f.handleClaim(s, i, false)
	case "weekly":
		err = f.handleClaim(s, i, true)
	case "deposit":
		err = f.handleBankMove(s, i, true)
	case "withdraw":
		err = f.handleBankMove(s, i, false)
	case "pay":
		err = f.handlePay(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}
