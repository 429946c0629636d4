package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/config"
	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/deck"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/export"
	"github.com/kapu/icondeck/internal/service/cache"
	"github.com/kapu/icondeck/internal/service/images"
	"github.com/kapu/icondeck/internal/service/wiki"
	"github.com/kapu/icondeck/internal/tui"
)

// Container bundles assembled services for the deck front end and the CLI.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Roster    *domain.Roster
	Session   *deck.Session
	Images    cache.ImageCache
	Redis     *cache.CacheService
	Wiki      *wiki.Service
	Resolver  *images.Resolver
	Overrider *images.Overrider

	closers []func()
}

// Build assembles every service. Redis is optional: when configured but
// unreachable the in-process cache is used instead.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	roster, err := domain.LoadRoster()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	c.Roster = roster
	c.Session = deck.NewSession(roster.All(), deck.WithLogger(logger))

	c.Images = cache.NewMemoryImageCache(cfg.Images.CacheTTL, constants.ImageConfig.CleanupInterval)
	if cfg.Redis.Enabled() {
		redisSvc, redisErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			ImageTTL: cfg.Images.CacheTTL,
		}, logger)
		if redisErr != nil {
			logger.Warn("Redis unavailable, using in-memory image cache", zap.Error(redisErr))
		} else {
			c.Redis = redisSvc
			c.Images = redisSvc
			c.closers = append(c.closers, func() {
				_ = redisSvc.Close()
			})
		}
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
	c.Wiki = wiki.NewService(api, scraper, logger)

	var lookup images.Lookup
	if !cfg.Images.Offline {
		lookup = c.Wiki
	}
	c.Resolver = images.NewResolver(lookup, c.Images, images.ResolverConfig{
		CriticalCount: cfg.Images.CriticalCount,
		BatchSize:     cfg.Images.BatchSize,
		Concurrency:   cfg.Images.Concurrency,
		MinDisplay:    cfg.Images.MinDisplay,
	}, logger)
	c.Overrider = images.NewOverrider(roster, c.Session, logger)

	logger.Info("Services assembled",
		zap.Int("personalities", roster.Len()),
		zap.Bool("redis", c.Redis != nil),
		zap.Bool("offline", cfg.Images.Offline),
	)
	return c, nil
}

// Export writes rows into the configured export directory.
func (c *Container) Export(rows [][]string) (string, error) {
	return export.WriteFile(c.Config.Export.Dir, rows)
}

// TUIOptions wires the container into the terminal front end.
func (c *Container) TUIOptions() tui.Options {
	return tui.Options{
		Images:       c.Resolver,
		Overrides:    c.Overrider,
		Export:       c.Export,
		SwipeDelay:   c.Config.Deck.SwipeDelay,
		ClearConfirm: c.Config.Deck.ClearConfirm,
		KeepFlash:    constants.DeckConfig.KeepFlashDuration,
		Logger:       c.Logger,
	}
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
