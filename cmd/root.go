package cmd

import (
	"fmt"
	"strconv"

	"guildbot/config"
	"guildbot/database"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the guildbot command tree. Running it without a subcommand starts the bot.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "guildbot",
		Short:         "Community Discord bot with economy, activity, timers and moderation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return Run(c.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the bot",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				return Run(c.Context())
			},
		},
		newMigrateCommand(),
	)
	return root
}

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres document schema",
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateUp(url)
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateDown(url, steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateStatus(url)
			},
		},
	)
	return migrate
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("invalid steps %q: must be a positive integer", args[0])
	}
	return steps, nil
}

func databaseURL() (string, error) {
	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required for migrations")
	}
	return cfg.GetDatabaseURL()
}
