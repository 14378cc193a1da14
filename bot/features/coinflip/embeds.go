package coinflip

import (
	"fmt"

	"guildbot/bot/common"
	"guildbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func sideLabel(side entities.CoinSide) string {
	if side == entities.CoinHeads {
		return "🪙 Heads"
	}
	return "🪙 Tails"
}

func buildResultEmbed(result *entities.CoinflipResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Choice", Value: sideLabel(result.Choice), Inline: true},
			{Name: "Result", Value: sideLabel(result.Landed), Inline: true},
			{Name: "Bet", Value: common.FormatCoins(result.Amount), Inline: true},
		},
	}

	if result.Won {
		embed.Title = "🎉 You Won!"
		embed.Color = entities.ColorSuccess
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Winnings", Value: "+" + common.FormatCoins(result.Amount), Inline: true,
		})
	} else {
		embed.Title = "💸 You Lost"
		embed.Color = entities.ColorError
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Lost", Value: "-" + common.FormatCoins(result.Amount), Inline: true,
		})
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Wallet", Value: common.FormatCoins(result.NewBalance), Inline: true},
		&discordgo.MessageEmbedField{Name: "XP", Value: fmt.Sprintf("+%d", result.XP), Inline: true},
	)
	if result.Level.LevelUp {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("⭐ Level up! You reached level %d", result.Level.NewLevel)}
	}
	return embed
}
