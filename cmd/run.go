package cmd

import (
	"context"
	"fmt"

	"guildbot/application"
	"guildbot/bot"
	"guildbot/config"
	"guildbot/database"
	"guildbot/events"
	"guildbot/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := ConfigureLogging(cfg); err != nil {
		return err
	}

	log.WithField("environment", cfg.Environment).Info("Starting guild bot...")

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	eventBus := events.NewBus()

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	notifier := bot.NewChannelNotifier(session, session.State)
	stopNotifier := notifier.Start(ctx)
	defer stopNotifier()

	roles := bot.NewMuteRoles(session, cfg.MuteRoleName)

	clock := clockwork.NewRealClock()
	registry := application.NewRegistry(ctx, application.Dependencies{
		Store:            store,
		Clock:            clock,
		Notifier:         notifier,
		Moderator:        roles,
		Publisher:        eventBus,
		StartingBalance:  cfg.StartingBalance,
		CleanupGrace:     cfg.TimerCleanupGrace,
		AutoMuteWarnings: cfg.AutoMuteWarnings,
	})
	log.Info("Guild registry initialized")

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(session, registry, notifier, roles, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	stopScheduler := application.NewScheduler(registry, clock).Start(ctx)

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	stopScheduler()

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord connection: %v", err)
	}
	eventBus.Wait()

	log.Info("Shutdown complete")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		url, err := cfg.GetDatabaseURL()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build database url: %w", err)
		}
		if err := database.MigrateUp(url); err != nil {
			return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		db, err := database.NewConnection(ctx, url)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Using postgres document store")
		return storage.NewPostgresStore(db), db.Close, nil
	default:
		log.WithField("dir", cfg.DataDir).Info("Using file document store")
		return storage.NewFileStore(cfg.DataDir), func() {}, nil
	}
}

// ConfigureLogging applies the configured level and output format to the standard logger
func ConfigureLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
