package bot

import (
	"fmt"

	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/bwmarrin/discordgo"
)

var (
	moderatorPermission int64 = discordgo.PermissionKickMembers
	managerPermission   int64 = discordgo.PermissionAdministrator
)

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minOne,
	}
}

func coinflipOptions() []*discordgo.ApplicationCommandOption {
	minBet := float64(services.MinCoinflipBet)
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "Coins to wager from your wallet",
			Required:    true,
			MinValue:    &minBet,
			MaxValue:    float64(services.MaxCoinflipBet),
		},
		stringOption("side", "Heads or tails", true,
			choice("🪙 Heads", string(entities.CoinHeads)),
			choice("🪙 Tails", string(entities.CoinTails)),
		),
	}
}

func subcommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func stringOption(name, description string, required bool, choices ...*discordgo.ApplicationCommandOptionChoice) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
		Choices:     choices,
	}
}

func minutesOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    &minOne,
		MaxValue:    1440,
	}
}

var minOne = 1.0

func choice(name, value string) *discordgo.ApplicationCommandOptionChoice {
	return &discordgo.ApplicationCommandOptionChoice{Name: name, Value: value}
}

func timerKindChoices() []*discordgo.ApplicationCommandOptionChoice {
	kinds := []entities.TimerKind{
		entities.TimerKindCustom,
		entities.TimerKindStudy,
		entities.TimerKindBreak,
		entities.TimerKindReminder,
	}
	out := make([]*discordgo.ApplicationCommandOptionChoice, len(kinds))
	for n, k := range kinds {
		out[n] = choice(string(k), string(k))
	}
	return out
}

func leaderboardChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := []*discordgo.ApplicationCommandOptionChoice{
		choice("💰 Coins", "coins"),
		choice("💎 Total Earned", "earned"),
		choice("📈 Economy Level", "economy_level"),
	}
	for _, c := range services.LeaderboardCategories() {
		out = append(out, choice(c.Emoji+" "+c.Name, c.ID))
	}
	return out
}

func auditEventChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, len(entities.AuditEvents))
	for n, ev := range entities.AuditEvents {
		out[n] = choice(string(ev), string(ev))
	}
	return out
}

func channelOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  description,
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

// Commands returns every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	timerID := stringOption("id", "Timer id", true)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your wallet and bank",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to check (defaults to you)", false)},
		},
		{Name: "daily", Description: "Claim your daily reward"},
		{Name: "weekly", Description: "Claim your weekly reward"},
		{
			Name:        "deposit",
			Description: "Move coins from your wallet to the bank",
			Options:     []*discordgo.ApplicationCommandOption{amountOption("Coins to deposit")},
		},
		{
			Name:        "withdraw",
			Description: "Move coins from the bank to your wallet",
			Options:     []*discordgo.ApplicationCommandOption{amountOption("Coins to withdraw")},
		},
		{
			Name:        "coinflip",
			Description: "Wager coins on a coin flip",
			Options:     coinflipOptions(),
		},
		{
			Name:        "pay",
			Description: "Send coins to another member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to pay", true),
				amountOption("Coins to send"),
			},
		},
		{
			Name:        "timer",
			Description: "Create and manage timers",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("start", "Start a custom timer",
					minutesOption("minutes", "Duration in minutes", true),
					stringOption("type", "Timer type", false, timerKindChoices()...),
					stringOption("name", "Timer name", false),
					stringOption("description", "What the timer is for", false),
				),
				subcommand("preset", "Start a preset timer", stringOption("id", "Preset id, see /timer presets", true)),
				subcommand("presets", "List the timer presets"),
				subcommand("pause", "Pause one of your timers", timerID),
				subcommand("resume", "Resume one of your timers", timerID),
				subcommand("stop", "Stop one of your timers", timerID),
				subcommand("list", "List your active timers"),
			},
		},
		{
			Name:        "pomodoro",
			Description: "Start a pomodoro session",
			Options: []*discordgo.ApplicationCommandOption{
				minutesOption("work", "Work minutes (default 25)", false),
				minutesOption("short_break", "Short break minutes (default 5)", false),
				minutesOption("long_break", "Long break minutes (default 15)", false),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "cycles",
					Description: "Work cycles (default 4)",
					MinValue:    &minOne,
					MaxValue:    12,
				},
			},
		},
		{
			Name:        "study",
			Description: "Start a tracked study session",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("subject", "What you are studying", false),
				minutesOption("minutes", "Duration in minutes (default 60)", false),
			},
		},
		{
			Name:                     "warn",
			Description:              "Warn a member",
			DefaultMemberPermissions: &moderatorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to warn", true),
				stringOption("reason", "Reason for the warning", false),
			},
		},
		{
			Name:                     "warnings",
			Description:              "List a member's warnings",
			DefaultMemberPermissions: &moderatorPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to check", true)},
		},
		{
			Name:                     "clearwarnings",
			Description:              "Clear one or all of a member's warnings",
			DefaultMemberPermissions: &moderatorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to clear", true),
				stringOption("id", "Warning id (omit to clear all)", false),
			},
		},
		{
			Name:                     "mute",
			Description:              "Mute a member for a while",
			DefaultMemberPermissions: &moderatorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to mute", true),
				stringOption("duration", "Duration such as 10m, 1h or 1d", true),
				stringOption("reason", "Reason for the mute", false),
			},
		},
		{
			Name:                     "unmute",
			Description:              "Lift a member's mute",
			DefaultMemberPermissions: &moderatorPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to unmute", true)},
		},
		{
			Name:                     "badwords",
			Description:              "Manage the filtered word list",
			DefaultMemberPermissions: &moderatorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("add", "Add a filtered word", stringOption("word", "Word to filter", true)),
				subcommand("remove", "Remove a filtered word", stringOption("word", "Word to allow", true)),
				subcommand("list", "Show the filtered words"),
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the server rankings",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("category", "What to rank by (default xp)", false, leaderboardChoices()...),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "Rows to show (default 10)",
					MinValue:    &minOne,
					MaxValue:    25,
				},
			},
		},
		{
			Name:        "profile",
			Description: "Show activity stats",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to show (defaults to you)", false)},
		},
		{
			Name:        "achievements",
			Description: "Show unlocked achievements",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to show (defaults to you)", false)},
		},
		{
			Name:                     "welcome",
			Description:              "Configure member welcomes",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("show", "Show the welcome settings"),
				subcommand("channel", "Set the welcome channel", channelOption("Channel to post welcomes in")),
				subcommand("message", "Set the welcome message", stringOption("text", "Template with {user}, {server} and {memberCount} (omit to reset)", false)),
				subcommand("toggle", "Turn welcomes on or off"),
				subcommand("card", "Turn the welcome card on or off"),
				subcommand("dm", "Turn welcome DMs on or off"),
				subcommand("autorole", "Set the role given to new members", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to assign (omit to clear)",
				}),
				subcommand("bonus", "Set the coins credited to new members", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "coins",
					Description: "Bonus coins",
					Required:    true,
				}),
			},
		},
		{
			Name:                     "logs",
			Description:              "Configure the audit log",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("show", "Show the audit log settings"),
				subcommand("channel", "Set the log channel and enable logging", channelOption("Channel to post logs in")),
				subcommand("toggle", "Turn audit logging on or off"),
				subcommand("event", "Turn one event on or off", stringOption("event", "Event to toggle", true, auditEventChoices()...)),
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
