package images

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/service/cache"
	"github.com/kapu/icondeck/internal/util"
)

// Lookup finds a thumbnail for a wiki link. "" with a nil error means no image.
type Lookup interface {
	Thumbnail(ctx context.Context, wikiLink string) (string, error)
}

// Batch is one chunk of resolved images keyed by personality id. Seq 0 is the
// critical batch; streamed batches count up from 1.
type Batch struct {
	Seq    int
	Images map[string]string
}

type ResolverConfig struct {
	CriticalCount int
	BatchSize     int
	Concurrency   int
	MinDisplay    time.Duration
}

// Resolver attaches images to personalities in stages: a small critical set
// up front, then the rest in background batches.
type Resolver struct {
	lookup        Lookup
	cache         cache.ImageCache
	criticalCount int
	batchSize     int
	concurrency   int
	minDisplay    time.Duration
	logger        *zap.Logger
}

// NewResolver builds a resolver. lookup may be nil for cache-only operation;
// imageCache may be nil to disable caching.
func NewResolver(lookup Lookup, imageCache cache.ImageCache, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CriticalCount < 0 {
		cfg.CriticalCount = constants.ImageConfig.CriticalCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = constants.ImageConfig.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = constants.ImageConfig.Concurrency
	}
	if cfg.MinDisplay < 0 {
		cfg.MinDisplay = 0
	}

	return &Resolver{
		lookup:        lookup,
		cache:         imageCache,
		criticalCount: cfg.CriticalCount,
		batchSize:     cfg.BatchSize,
		concurrency:   cfg.Concurrency,
		minDisplay:    cfg.MinDisplay,
		logger:        logger,
	}
}

func (r *Resolver) split(people []domain.Personality) (critical, rest []domain.Personality) {
	k := util.Clamp(r.criticalCount, 0, len(people))
	return people[:k], people[k:]
}

// Critical resolves the first CriticalCount people and returns once both the
// lookups and the minimum display time are done. A cancelled context cuts the
// wait short and returns whatever was resolved.
func (r *Resolver) Critical(ctx context.Context, people []domain.Personality) Batch {
	floor := time.NewTimer(r.minDisplay)
	defer floor.Stop()

	critical, _ := r.split(people)
	images := r.resolveAll(ctx, critical)

	select {
	case <-floor.C:
	case <-ctx.Done():
	}

	r.logger.Info("Critical images resolved",
		zap.Int("requested", len(critical)),
		zap.Int("found", len(images)),
	)
	return Batch{Seq: 0, Images: images}
}

// Stream resolves everyone after the critical set in consecutive batches and
// emits one Batch per chunk. The channel closes when all chunks are sent or
// ctx is cancelled.
func (r *Resolver) Stream(ctx context.Context, people []domain.Personality) <-chan Batch {
	_, rest := r.split(people)
	chunks := util.Chunk(len(rest), r.batchSize)
	out := make(chan Batch)

	go func() {
		defer close(out)
		for i, bounds := range chunks {
			if ctx.Err() != nil {
				return
			}
			batch := Batch{
				Seq:    i + 1,
				Images: r.resolveAll(ctx, rest[bounds[0]:bounds[1]]),
			}
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
			r.logger.Debug("Image batch delivered",
				zap.Int("seq", batch.Seq),
				zap.Int("found", len(batch.Images)),
			)
		}
	}()

	return out
}

// Resolve looks up a single personality, cache first. ok is false when the
// lookup failed; a successful lookup with no image returns ("", true).
func (r *Resolver) Resolve(ctx context.Context, p domain.Personality) (string, bool) {
	if r.cache != nil {
		url, found, err := r.cache.GetImage(ctx, p.ID)
		if err != nil {
			r.logger.Warn("Image cache read failed", zap.String("id", p.ID), zap.Error(err))
		} else if found {
			return url, true
		}
	}

	if r.lookup == nil {
		return "", false
	}

	url, err := r.lookup.Thumbnail(ctx, p.WikiLink)
	if err != nil {
		r.logger.Debug("Image lookup failed",
			zap.String("id", p.ID),
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return "", false
	}

	if r.cache != nil {
		if err := r.cache.SetImage(ctx, p.ID, url); err != nil {
			r.logger.Warn("Image cache write failed", zap.String("id", p.ID), zap.Error(err))
		}
	}
	return url, true
}

// resolveAll fans out lookups for people without an image. Only found images
// appear in the result.
func (r *Resolver) resolveAll(ctx context.Context, people []domain.Personality) map[string]string {
	images := make(map[string]string, len(people))
	if len(people) == 0 {
		return images
	}

	p := pool.New().WithMaxGoroutines(r.concurrency)
	var mu sync.Mutex

	for _, person := range people {
		person := person
		if person.HasImage() {
			continue
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			url, ok := r.Resolve(ctx, person)
			if !ok || url == "" {
				return
			}
			mu.Lock()
			images[person.ID] = url
			mu.Unlock()
		})
	}

	p.Wait()
	return images
}
