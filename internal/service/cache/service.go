package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/constants"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

// CacheService is a Redis-backed cache shared between runs and the prefetch tool.
type CacheService struct {
	client   *redis.Client
	logger   *zap.Logger
	imageTTL time.Duration
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	ImageTTL time.Duration
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return NewCacheServiceWithClient(client, cfg.ImageTTL, logger), nil
}

// NewCacheServiceWithClient wraps an existing client without pinging it.
func NewCacheServiceWithClient(client *redis.Client, imageTTL time.Duration, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		client:   client,
		logger:   logger,
		imageTTL: imageTTL,
	}
}

// Get decodes the JSON value at key into dest. A missing key is not an error
// and leaves dest untouched; found reports which case happened.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, apperrors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, apperrors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewCacheError("marshal failed", "set", key, err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("Cache delete failed", zap.Int("count", len(keys)), zap.Error(err))
		return 0, apperrors.NewCacheError("delete failed", "del", fmt.Sprintf("%d keys", len(keys)), err)
	}
	return deleted, nil
}

// GetImage implements ImageCache.
func (c *CacheService) GetImage(ctx context.Context, key string) (string, bool, error) {
	var url string
	found, err := c.Get(ctx, imageKey(key), &url)
	if err != nil || !found {
		return "", false, err
	}
	return url, true, nil
}

// SetImage implements ImageCache.
func (c *CacheService) SetImage(ctx context.Context, key, url string) error {
	return c.Set(ctx, imageKey(key), url, c.imageTTL)
}

// PurgeImages removes every cached image entry and returns how many were deleted.
func (c *CacheService) PurgeImages(ctx context.Context) (int64, error) {
	var (
		cursor uint64
		total  int64
	)
	pattern := constants.RedisConfig.KeyPrefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Error("Cache scan failed", zap.String("pattern", pattern), zap.Error(err))
			return total, apperrors.NewCacheError("scan failed", "scan", pattern, err)
		}
		deleted, err := c.Del(ctx, keys...)
		if err != nil {
			return total, err
		}
		total += deleted
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func imageKey(key string) string {
	return constants.RedisConfig.KeyPrefix + key
}
