package services

import (
	"context"
	"fmt"

	"guildbot/domain/entities"

	log "github.com/sirupsen/logrus"
)

const (
	MinCoinflipBet int64 = 10
	MaxCoinflipBet int64 = 10000

	// wins earn a tenth of the stake as xp, losses a fiftieth
	coinflipWinXPDivisor  = 10
	coinflipLossXPDivisor = 50
)

// Coinflip wagers amount from the wallet on an even-odds flip. A win credits the
// stake, a loss debits it, and both award economy xp scaled to the stake.
func (l *EconomyLedger) Coinflip(ctx context.Context, userID string, amount int64, choice entities.CoinSide) (*entities.CoinflipResult, error) {
	if choice != entities.CoinHeads && choice != entities.CoinTails {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSide, choice)
	}
	if amount < MinCoinflipBet {
		return nil, fmt.Errorf("%w: %d", ErrBetTooLow, amount)
	}
	if amount > MaxCoinflipBet {
		return nil, fmt.Errorf("%w: %d", ErrBetTooHigh, amount)
	}

	result := &entities.CoinflipResult{Choice: choice, Amount: amount, Landed: entities.CoinTails}

	l.mu.Lock()
	u := l.user(ctx, userID)
	if u.Balance < amount {
		l.mu.Unlock()
		return nil, ErrInsufficientFunds
	}
	if l.randN(2) == 0 {
		result.Landed = entities.CoinHeads
	}
	result.Won = result.Landed == choice

	if result.Won {
		l.addMoney(ctx, userID, amount, false)
		result.XP = amount / coinflipWinXPDivisor
	} else {
		l.removeMoney(ctx, userID, amount, false)
		result.XP = amount / coinflipLossXPDivisor
	}
	result.NewBalance = l.user(ctx, userID).Balance
	l.mu.Unlock()

	result.Level = l.AddXP(ctx, userID, result.XP)

	log.WithFields(log.Fields{
		"guildID": l.guildID,
		"userID":  userID,
		"amount":  amount,
		"won":     result.Won,
		"balance": result.NewBalance,
	}).Debug("Coinflip settled")

	return result, nil
}
