package coinflip

import (
	"context"
	"errors"
	"fmt"

	"guildbot/bot/common"
	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	userID := common.InvokerID(i)

	amount := common.IntOption(opts, "amount", 0)
	side := entities.CoinSide(common.StringOption(opts, "side", ""))

	ledger := f.registry.Guild(i.GuildID).Economy
	result, err := ledger.Coinflip(ctx, userID, amount, side)
	if err != nil {
		return betError(err, ledger.GetBalance(ctx, userID).Balance)
	}

	if result.Won {
		log.Infof("Coinflip WON: %s wagered %s on %s. New balance: %s",
			userID, common.FormatCoins(amount), side, common.FormatCoins(result.NewBalance))
	} else {
		log.Infof("Coinflip LOST: %s wagered %s on %s. New balance: %s",
			userID, common.FormatCoins(amount), side, common.FormatCoins(result.NewBalance))
	}

	return common.RespondWithEmbed(s, i, buildResultEmbed(result), false)
}

func betError(err error, wallet int64) error {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return common.NewUserError(
			fmt.Sprintf("You only have **%s** in your wallet.", common.FormatCoins(wallet)),
			"insufficient funds for coinflip",
		)
	case errors.Is(err, services.ErrBetTooLow):
		return common.NewUserError(
			fmt.Sprintf("The minimum bet is **%s**.", common.FormatCoins(services.MinCoinflipBet)),
			"coinflip bet too low",
		)
	case errors.Is(err, services.ErrBetTooHigh):
		return common.NewUserError(
			fmt.Sprintf("The maximum bet is **%s**.", common.FormatCoins(services.MaxCoinflipBet)),
			"coinflip bet too high",
		)
	case errors.Is(err, services.ErrInvalidSide):
		return common.NewUserError("Pick heads or tails.", "invalid coinflip side")
	}
	return common.NewSystemError(err, "failed to settle coinflip")
}
