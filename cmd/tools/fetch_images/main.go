package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/config"
	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/service/cache"
	"github.com/kapu/icondeck/internal/service/wiki"
	"github.com/kapu/icondeck/internal/util"
)

var (
	purge      bool
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "fetch_images",
	Short: "Warm the Redis image cache for the whole roster",
	Long: `Looks up every personality's portrait one at a time, with a polite delay
between requests, and stores the result in Redis so the deck starts with
images already cached. Requires REDIS_HOST.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&purge, "purge", false, "Delete cached image entries before fetching")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "Also write the id to URL map as JSON to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Redis.Enabled() {
		return fmt.Errorf("REDIS_HOST is required to warm the image cache")
	}

	logger, err := util.NewLogger(cfg.Logging.Level, "", util.LogRotation{})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()

	roster, err := domain.LoadRoster()
	if err != nil {
		return err
	}

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		ImageTTL: cfg.Images.CacheTTL,
	}, logger)
	if err != nil {
		return err
	}
	defer cacheSvc.Close()

	if purge {
		deleted, err := cacheSvc.PurgeImages(ctx)
		if err != nil {
			return err
		}
		logger.Info("Purged cached images", zap.Int64("deleted", deleted))
	}

	httpClient := &http.Client{Timeout: cfg.Wiki.Timeout}
	api := wiki.NewAPIClient(httpClient, wiki.APIClientConfig{
		BaseURL:   cfg.Wiki.BaseURL,
		ThumbSize: cfg.Wiki.ThumbSize,
		UserAgent: cfg.Wiki.UserAgent,
	}, logger)
	var scraper *wiki.Scraper
	if cfg.Wiki.ScrapeFallback {
		scraper = wiki.NewScraper(httpClient, cfg.Wiki.BaseURL, cfg.Wiki.UserAgent, logger)
	}
	lookup := wiki.NewService(api, scraper, logger)

	resolved := fetchAll(ctx, lookup, cacheSvc, roster.All(), logger)
	found := 0
	for _, url := range resolved {
		if url != "" {
			found++
		}
	}
	logger.Info("Image fetch completed",
		zap.Int("looked_up", len(resolved)),
		zap.Int("with_image", found),
		zap.Int("roster", roster.Len()),
	)

	if outputFile != "" {
		if err := writeSnapshot(outputFile, resolved); err != nil {
			return err
		}
		logger.Info("Snapshot written", zap.String("output", outputFile))
	}
	return nil
}

// fetchAll resolves people sequentially. Failed lookups are logged and left
// out of the result so the next run retries them.
func fetchAll(ctx context.Context, lookup *wiki.Service, store cache.ImageCache, people []domain.Personality, logger *zap.Logger) map[string]string {
	resolved := make(map[string]string, len(people))
	for idx, p := range people {
		if ctx.Err() != nil {
			break
		}

		logger.Info("Fetching image",
			zap.Int("index", idx+1),
			zap.String("id", p.ID),
			zap.String("name", p.Name),
		)

		url, err := lookup.Thumbnail(ctx, p.WikiLink)
		if err != nil {
			logger.Error("failed to fetch image", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		resolved[p.ID] = url

		if err := store.SetImage(ctx, p.ID, url); err != nil {
			logger.Warn("failed to cache image", zap.String("id", p.ID), zap.Error(err))
		}

		if idx < len(people)-1 {
			time.Sleep(constants.ImageConfig.PrefetchDelay)
		}
	}
	return resolved
}

func writeSnapshot(path string, resolved map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}
