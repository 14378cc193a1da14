package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"guildbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorGold    = 0xFFD700
)

// FormatCoins formats a coin amount with thousand separators
func FormatCoins(amount int64) string {
	return humanize.Comma(amount) + " coins"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2d 14h 30m", "3h 45m", "45m", "< 1m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// Mention returns a Discord mention string for a user
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// Embed converts a domain message into a Discord embed
func Embed(msg entities.Message) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
	}
	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	return embed
}

// MessageSend builds the outbound payload for a domain message
func MessageSend(msg entities.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.Title != "" || msg.Description != "" {
		send.Embeds = []*discordgo.MessageEmbed{Embed(msg)}
	}
	return send
}

// ParseHexColor parses "#rrggbb" into an embed color, falling back to ColorPrimary
func ParseHexColor(s string) int {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return ColorPrimary
	}
	c, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return ColorPrimary
	}
	return int(c)
}
