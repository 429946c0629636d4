package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ImageCache remembers resolved thumbnail URLs by personality id.
// A cached empty string means "looked up, no image".
type ImageCache interface {
	GetImage(ctx context.Context, key string) (url string, found bool, err error)
	SetImage(ctx context.Context, key, url string) error
}

// MemoryImageCache is an in-process ImageCache with expiry.
type MemoryImageCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

func NewMemoryImageCache(ttl, cleanupInterval time.Duration) *MemoryImageCache {
	return &MemoryImageCache{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (m *MemoryImageCache) GetImage(_ context.Context, key string) (string, bool, error) {
	if v, found := m.store.Get(key); found {
		url, _ := v.(string)
		return url, true, nil
	}
	return "", false, nil
}

func (m *MemoryImageCache) SetImage(_ context.Context, key, url string) error {
	m.store.Set(key, url, gocache.DefaultExpiration)
	return nil
}

func (m *MemoryImageCache) Len() int {
	return m.store.ItemCount()
}
