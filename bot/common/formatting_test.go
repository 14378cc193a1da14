package common

import (
	"testing"
	"time"

	"guildbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCoins(t *testing.T) {
	assert.Equal(t, "999 coins", FormatCoins(999))
	assert.Equal(t, "1,000 coins", FormatCoins(1000))
	assert.Equal(t, "1,234,567 coins", FormatCoins(1234567))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"under a minute", 30 * time.Second, "< 1m"},
		{"minutes", 45 * time.Minute, "45m"},
		{"hours and minutes", 3*time.Hour + 45*time.Minute, "3h 45m"},
		{"whole hours", 2 * time.Hour, "2h"},
		{"days", 2*24*time.Hour + 14*time.Hour + 30*time.Minute, "2d 14h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestMessageSend(t *testing.T) {
	plain := MessageSend(entities.Message{Content: "hi"})
	assert.Equal(t, "hi", plain.Content)
	assert.Empty(t, plain.Embeds)

	rich := MessageSend(entities.Message{Content: "<@1>", Title: "Done", Description: "body", Color: entities.ColorSuccess, Footer: "f"})
	require.Len(t, rich.Embeds, 1)
	assert.Equal(t, "Done", rich.Embeds[0].Title)
	assert.Equal(t, entities.ColorSuccess, rich.Embeds[0].Color)
	require.NotNil(t, rich.Embeds[0].Footer)
	assert.Equal(t, "f", rich.Embeds[0].Footer.Text)
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, 0x667eea, ParseHexColor("#667eea"))
	assert.Equal(t, 0x667eea, ParseHexColor("667eea"))
	assert.Equal(t, ColorPrimary, ParseHexColor("blue"))
}
