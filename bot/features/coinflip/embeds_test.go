package coinflip

import (
	"errors"
	"fmt"
	"testing"

	"guildbot/bot/common"
	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldValues(t *testing.T, result *entities.CoinflipResult) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, f := range buildResultEmbed(result).Fields {
		out[f.Name] = f.Value
	}
	return out
}

func TestBuildResultEmbed(t *testing.T) {
	t.Run("win", func(t *testing.T) {
		res := &entities.CoinflipResult{
			Choice: entities.CoinHeads, Landed: entities.CoinHeads, Won: true,
			Amount: 1000, XP: 100, NewBalance: 2000,
			Level: entities.LevelChange{LevelUp: true, NewLevel: 2},
		}
		embed := buildResultEmbed(res)
		assert.Equal(t, "🎉 You Won!", embed.Title)
		assert.Equal(t, entities.ColorSuccess, embed.Color)
		require.NotNil(t, embed.Footer)
		assert.Contains(t, embed.Footer.Text, "level 2")

		fields := fieldValues(t, res)
		assert.Equal(t, "+1,000 coins", fields["Winnings"])
		assert.Equal(t, "2,000 coins", fields["Wallet"])
		assert.Equal(t, "+100", fields["XP"])
		assert.NotContains(t, fields, "Lost")
	})

	t.Run("loss", func(t *testing.T) {
		res := &entities.CoinflipResult{
			Choice: entities.CoinHeads, Landed: entities.CoinTails,
			Amount: 500, XP: 10, NewBalance: 0,
		}
		embed := buildResultEmbed(res)
		assert.Equal(t, "💸 You Lost", embed.Title)
		assert.Equal(t, entities.ColorError, embed.Color)
		assert.Nil(t, embed.Footer)

		fields := fieldValues(t, res)
		assert.Equal(t, "-500 coins", fields["Lost"])
		assert.Equal(t, "🪙 Heads", fields["Your Choice"])
		assert.Equal(t, "🪙 Tails", fields["Result"])
	})
}

func TestBetError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient", services.ErrInsufficientFunds, "You only have **40 coins** in your wallet."},
		{"too low", fmt.Errorf("%w: 5", services.ErrBetTooLow), "The minimum bet is **10 coins**."},
		{"too high", fmt.Errorf("%w: 20000", services.ErrBetTooHigh), "The maximum bet is **10,000 coins**."},
		{"side", services.ErrInvalidSide, "Pick heads or tails."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var botErr *common.BotError
			require.True(t, errors.As(betError(tt.err, 40), &botErr))
			assert.Equal(t, tt.want, botErr.UserMessage)
			assert.Nil(t, botErr.Err)
		})
	}

	boom := errors.New("boom")
	var botErr *common.BotError
	require.True(t, errors.As(betError(boom, 0), &botErr))
	assert.ErrorIs(t, botErr, boom)
}
