package timers

import (
	"guildbot/application"
	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the timer, pomodoro and study commands
type Feature struct {
	registry *application.Registry
}

func New(registry *application.Registry) *Feature {
	return &Feature{registry: registry}
}

// HandleCommand routes the timer slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "timer":
		err = f.handleTimer(s, i)
	case "pomodoro":
		err = f.handlePomodoro(s, i)
	case "study":
		err = f.handleStudy(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}
