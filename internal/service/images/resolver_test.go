package images

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kapu/icondeck/internal/deck"
	"github.com/kapu/icondeck/internal/domain"
)

type fakeLookup struct {
	mu      sync.Mutex
	calls   map[string]int
	fail    map[string]bool
	missing map[string]bool
	block   chan struct{}
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		calls:   map[string]int{},
		fail:    map[string]bool{},
		missing: map[string]bool{},
	}
}

func (f *fakeLookup) Thumbnail(ctx context.Context, link string) (string, error) {
	f.mu.Lock()
	f.calls[link]++
	fail, missing, block := f.fail[link], f.missing[link], f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if fail {
		return "", errors.New("upstream down")
	}
	if missing {
		return "", nil
	}
	return "img:" + link, nil
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func (c *fakeCache) GetImage(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) SetImage(_ context.Context, key, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = url
	return nil
}

func roster(n int) []domain.Personality {
	out := make([]domain.Personality, n)
	for i := range out {
		id := string(rune('a' + i))
		out[i] = domain.Personality{ID: id, Name: "P " + id, WikiLink: id}
	}
	return out
}

func testConfig() ResolverConfig {
	return ResolverConfig{CriticalCount: 5, BatchSize: 5, Concurrency: 3}
}

func TestCriticalResolvesFirstK(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := newFakeLookup()
	lookup.missing["b"] = true
	lookup.fail["c"] = true
	r := NewResolver(lookup, nil, testConfig(), nil)

	batch := r.Critical(context.Background(), roster(12))

	assert.Equal(t, 0, batch.Seq)
	assert.Equal(t, map[string]string{"a": "img:a", "d": "img:d", "e": "img:e"}, batch.Images)
	assert.Equal(t, 5, lookup.callCount())
}

func TestCriticalWaitsForLoadingFloor(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.MinDisplay = 60 * time.Millisecond
	r := NewResolver(newFakeLookup(), nil, cfg, nil)

	start := time.Now()
	r.Critical(context.Background(), roster(2))
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestStreamEmitsBatchesInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := newFakeLookup()
	r := NewResolver(lookup, nil, testConfig(), nil)

	var seqs []int
	seen := map[string]string{}
	for batch := range r.Stream(context.Background(), roster(17)) {
		seqs = append(seqs, batch.Seq)
		for id, url := range batch.Images {
			seen[id] = url
		}
	}

	assert.Equal(t, []int{1, 2, 3}, seqs)
	assert.Len(t, seen, 12)
	assert.NotContains(t, seen, "a", "critical entries are not streamed")
	assert.Equal(t, "img:q", seen["q"])
}

func TestStreamSkipsEntriesWithImages(t *testing.T) {
	defer goleak.VerifyNone(t)

	people := roster(7)
	people[6].ImageURL = "file:///me.png"
	lookup := newFakeLookup()
	r := NewResolver(lookup, nil, testConfig(), nil)

	for batch := range r.Stream(context.Background(), people) {
		assert.NotContains(t, batch.Images, "g")
	}
	assert.Equal(t, 1, lookup.callCount())
}

func TestStreamStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	lookup := newFakeLookup()
	lookup.block = make(chan struct{})
	r := NewResolver(lookup, nil, testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	ch := r.Stream(ctx, roster(20))
	cancel()

	for range ch {
	}
}

func TestResolveUsesCacheFirst(t *testing.T) {
	lookup := newFakeLookup()
	c := &fakeCache{values: map[string]string{"a": "cached:a", "b": ""}}
	r := NewResolver(lookup, c, testConfig(), nil)

	url, ok := r.Resolve(context.Background(), domain.Personality{ID: "a", WikiLink: "a"})
	assert.True(t, ok)
	assert.Equal(t, "cached:a", url)

	url, ok = r.Resolve(context.Background(), domain.Personality{ID: "b", WikiLink: "b"})
	assert.True(t, ok)
	assert.Equal(t, "", url, "cached miss is remembered")

	url, ok = r.Resolve(context.Background(), domain.Personality{ID: "c", WikiLink: "c"})
	assert.True(t, ok)
	assert.Equal(t, "img:c", url)
	assert.Equal(t, "img:c", c.values["c"])
	assert.Equal(t, 1, lookup.callCount())
}

func TestResolveDoesNotCacheFailures(t *testing.T) {
	lookup := newFakeLookup()
	lookup.fail["x"] = true
	c := &fakeCache{values: map[string]string{}}
	r := NewResolver(lookup, c, testConfig(), nil)

	_, ok := r.Resolve(context.Background(), domain.Personality{ID: "x", WikiLink: "x"})
	assert.False(t, ok)
	assert.NotContains(t, c.values, "x")
}

func TestResolveWithoutLookupIsCacheOnly(t *testing.T) {
	r := NewResolver(nil, nil, testConfig(), nil)
	_, ok := r.Resolve(context.Background(), domain.Personality{ID: "x"})
	assert.False(t, ok)
}

func TestStreamedBatchesMergeIntoSession(t *testing.T) {
	defer goleak.VerifyNone(t)

	people := roster(12)
	s := deck.NewSession(people)
	for i := 0; i < 8; i++ {
		_, err := s.Decide(domain.ActionKeep)
		require.NoError(t, err)
	}
	before := s.Snapshot()

	r := NewResolver(newFakeLookup(), nil, testConfig(), nil)
	var applied atomic.Int32
	applied.Add(int32(s.MergeImages(r.Critical(context.Background(), people).Images)))
	for batch := range r.Stream(context.Background(), people) {
		applied.Add(int32(s.MergeImages(batch.Images)))
	}

	assert.Equal(t, int32(12), applied.Load())
	assert.Equal(t, before, s.Snapshot())
	item, ok := s.Kept().Get("g")
	require.True(t, ok)
	assert.Equal(t, "img:g", item.ImageURL)
}
