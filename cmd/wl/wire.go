package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"worklog/internal/api"
	"worklog/internal/cli"
	"worklog/internal/config"
	"worklog/internal/drafts"
	"worklog/internal/logging"
	"worklog/internal/notify"
	"worklog/internal/services"
	"worklog/internal/validation"
)

// buildApp wires every component from the loaded configuration. The
// returned cleanup flushes open sessions and closes the local store.
func buildApp(cfg *config.Config) (*cli.App, func(), error) {
	logger, logCloser := logging.New(cfg.Logging)

	store, err := config.CreateLocalStore(cfg)
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("failed to open local draft store: %w", err)
	}
	logger.Debug("local draft store opened", "backend", cfg.Local.Backend, "path", cfg.GetLocalStorePath())
	logging.Debugf("drafts: %s (%s), remote: %s, debounce: %s\n",
		cfg.GetLocalStorePath(), cfg.Local.Backend, cfg.Remote.BaseURL, cfg.Autosave.DebounceDelay)

	local := drafts.NewStore(store, logger)
	client := api.NewClient(cfg.Remote, logger)
	validator := validation.NewTimeRangeValidatorWithConfig(cfg.Validation, nil)

	sessions := services.NewSessionManager(client, local, newNotifier(cfg, logger), validator, services.SessionOptions{
		DebounceDelay: cfg.Autosave.DebounceDelay,
		SaveTimeout:   cfg.Autosave.SaveTimeout,
		RecoveryTTL:   cfg.Local.RecoveryTTL,
		Logger:        logger,
	})

	app := cli.NewApp(services.NewServiceContainer(sessions), local, cfg, cli.WithLogger(logger))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Autosave.SaveTimeout)
		defer cancel()

		if err := app.Shutdown(ctx); err != nil {
			logger.Warn("pending changes could not be saved; they are kept locally", "error", err)
			fmt.Fprintln(os.Stderr, "Some changes could not be saved and are kept locally. Run 'wl resume' to continue.")
		}
		if err := store.Close(); err != nil {
			logger.Warn("failed to close local draft store", "error", err)
		}
		logCloser.Close()
		logging.Debugln("shutdown complete")
	}

	return app, cleanup, nil
}

func newNotifier(cfg *config.Config, logger *slog.Logger) notify.Notifier {
	if !cfg.Notifications.Enabled {
		return notify.Noop{}
	}

	notifiers := notify.Multi{notify.NewConsoleNotifier(os.Stderr)}
	if cfg.Notifications.Desktop {
		notifiers = append(notifiers, notify.NewDesktopNotifier("", logger))
	}
	return notifiers
}
