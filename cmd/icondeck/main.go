package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/app"
	"github.com/kapu/icondeck/internal/config"
	"github.com/kapu/icondeck/internal/tui"
	"github.com/kapu/icondeck/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "icondeck",
	Short: "Swipe through a deck of 50 notable personalities",
	Long: `IconDeck shows one personality card at a time. Keep the ones that inspire
you, pass on the rest, and export your kept list as CSV.

Keys: → keep, ← pass, backspace undo, k kept list, i card image, q quit.`,
	SilenceUsage: true,
	RunE:         runDeck,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(imagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, starts logging, and assembles services. Config
// errors are reported before a logger exists.
func bootstrap(ctx context.Context) (*app.Container, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File, util.LogRotation{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	buildCtx, buildCancel := context.WithTimeout(ctx, 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		_ = logger.Sync()
		return nil, nil, err
	}

	cleanup := func() {
		container.Close()
		_ = logger.Sync()
	}
	return container, cleanup, nil
}

func runDeck(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	container.Logger.Info("IconDeck starting",
		zap.Int("cards", container.Session.Len()),
		zap.String("log_level", container.Config.Logging.Level),
	)

	if err := tui.Run(ctx, container.Session, container.TUIOptions()); err != nil {
		container.Logger.Error("Deck exited with error", zap.Error(err))
		return err
	}

	snap := container.Session.Snapshot()
	container.Logger.Info("IconDeck finished",
		zap.Int("decided", snap.HistoryLen),
		zap.Int("kept", snap.KeptCount),
	)
	return nil
}
