package economy

import (
	"context"
	"fmt"

	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)

	userID := common.InvokerID(i)
	if o, ok := opts["user"]; ok {
		if u := o.UserValue(s); u != nil {
			userID = u.ID
		}
	}

	ledger := f.registry.Guild(i.GuildID).Economy
	bal := ledger.GetBalance(ctx, userID)
	lvl := ledger.GetLevel(ctx, userID)

	embed := &discordgo.MessageEmbed{
		Title: "💰 Balance",
		Color: common.ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👛 Wallet", Value: common.FormatCoins(bal.Balance), Inline: true},
			{Name: "🏦 Bank", Value: common.FormatCoins(bal.Bank), Inline: true},
			{Name: "💎 Total", Value: common.FormatCoins(bal.Total), Inline: true},
			{Name: "⭐ Level", Value: fmt.Sprintf("%d (%d xp, %d to next)", lvl.Level, lvl.XP, lvl.XPForNext), Inline: false},
		},
		Description: common.Mention(userID),
	}
	return common.RespondWithEmbed(s, i, embed, false)
}

func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate, weekly bool) error {
	ctx := context.Background()
	userID := common.InvokerID(i)
	ledger := f.registry.Guild(i.GuildID).Economy

	var amount int64
	if weekly {
		amount = ledger.ClaimWeekly(ctx, userID)
	} else {
		amount = ledger.ClaimDaily(ctx, userID)
	}

	if amount == 0 {
		next := ledger.NextDailyClaim(ctx, userID)
		if weekly {
			next = ledger.NextWeeklyClaim(ctx, userID)
		}
		return common.NewUserError(
			fmt.Sprintf("You already claimed this reward. Come back %s.", common.FormatDiscordTimestamp(next, "R")),
			"reward on cooldown",
		)
	}

	label := "daily"
	if weekly {
		label = "weekly"
	}
	bal := ledger.GetBalance(ctx, userID)
	log.WithFields(log.Fields{
		"guildID": i.GuildID,
		"userID":  userID,
		"amount":  amount,
	}).Debugf("Claimed %s reward", label)

	return common.RespondWithSuccess(s, i, fmt.Sprintf("You claimed your %s reward of **%s**! Wallet: **%s**",
		label, common.FormatCoins(amount), common.FormatCoins(bal.Balance)), false)
}

func (f *Feature) handleBankMove(s *discordgo.Session, i *discordgo.InteractionCreate, deposit bool) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	userID := common.InvokerID(i)
	ledger := f.registry.Guild(i.GuildID).Economy

	var amount int64
	if o, ok := opts["amount"]; ok {
		amount = o.IntValue()
	}
	if amount <= 0 {
		return common.NewUserError("Amount must be positive.", "non-positive bank amount")
	}

	var ok bool
	if deposit {
		ok = ledger.Deposit(ctx, userID, amount)
	} else {
		ok = ledger.Withdraw(ctx, userID, amount)
	}
	if !ok {
		return common.NewUserError("You don't have enough coins for that.", "insufficient funds for bank move")
	}

	bal := ledger.GetBalance(ctx, userID)
	verb := "Withdrew"
	if deposit {
		verb = "Deposited"
	}
	return common.RespondWithSuccess(s, i, fmt.Sprintf("%s **%s**. Wallet: **%s**, Bank: **%s**",
		verb, common.FormatCoins(amount), common.FormatCoins(bal.Balance), common.FormatCoins(bal.Bank)), true)
}

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.Options(i.ApplicationCommandData().Options)
	fromID := common.InvokerID(i)

	var amount int64
	var recipient *discordgo.User
	if o, ok := opts["amount"]; ok {
		amount = o.IntValue()
	}
	if o, ok := opts["user"]; ok {
		recipient = o.UserValue(s)
	}

	switch {
	case recipient == nil:
		return common.NewUserError("Invalid recipient user.", "missing recipient")
	case recipient.Bot:
		return common.NewUserError("You can't pay a bot.", "payment to bot")
	case recipient.ID == fromID:
		return common.NewUserError("You can't pay yourself.", "self payment")
	case amount <= 0:
		return common.NewUserError("Amount must be positive.", "non-positive payment")
	}

	if !f.registry.Guild(i.GuildID).Economy.Transfer(ctx, fromID, recipient.ID, amount) {
		return common.NewUserError("You don't have enough coins in your wallet.", "insufficient funds for payment")
	}

	return common.RespondWithSuccess(s, i, fmt.Sprintf("Sent **%s** to %s",
		common.FormatCoins(amount), common.Mention(recipient.ID)), false)
}
