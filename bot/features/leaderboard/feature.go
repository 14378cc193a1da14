package leaderboard

import (
	"guildbot/application"
	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the ranking, profile and achievement commands
type Feature struct {
	registry *application.Registry
}

func New(registry *application.Registry) *Feature {
	return &Feature{registry: registry}
}

// HandleCommand routes the leaderboard slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "leaderboard":
		err = f.handleLeaderboard(s, i)
	case "profile":
		err = f.handleProfile(s, i)
	case "achievements":
		err = f.handleAchievements(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}
