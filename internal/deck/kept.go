package deck

import (
	"sync"
	"time"

	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/util"
)

// isoMillis is ISO-8601 UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// KeptCollection holds kept personalities, most recently kept first, at most one per id.
type KeptCollection struct {
	mu    sync.RWMutex
	items []domain.KeptItem
	ids   map[string]struct{}
	now   func() time.Time
}

func NewKeptCollection(now func() time.Time) *KeptCollection {
	if now == nil {
		now = time.Now
	}
	return &KeptCollection{
		ids: make(map[string]struct{}),
		now: now,
	}
}

// Add prepends p stamped with the current time. Returns false if p.ID is already kept.
func (k *KeptCollection) Add(p domain.Personality) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.ids[p.ID]; exists {
		return false
	}
	item := domain.KeptItem{Personality: p, KeptAt: k.now()}
	k.items = append([]domain.KeptItem{item}, k.items...)
	k.ids[p.ID] = struct{}{}
	return true
}

func (k *KeptCollection) Remove(id string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.ids[id]; !exists {
		return false
	}
	for i := range k.items {
		if k.items[i].ID == id {
			k.items = append(k.items[:i], k.items[i+1:]...)
			break
		}
	}
	delete(k.ids, id)
	return true
}

func (k *KeptCollection) ClearAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.items = nil
	k.ids = make(map[string]struct{})
}

func (k *KeptCollection) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.items)
}

func (k *KeptCollection) Contains(id string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.ids[id]
	return ok
}

func (k *KeptCollection) Get(id string) (domain.KeptItem, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if _, ok := k.ids[id]; !ok {
		return domain.KeptItem{}, false
	}
	for _, item := range k.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.KeptItem{}, false
}

// Items returns a copy of the collection in display order.
func (k *KeptCollection) Items() []domain.KeptItem {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]domain.KeptItem, len(k.items))
	copy(out, k.items)
	return out
}

// Search filters by case-insensitive substring on name or field.
func (k *KeptCollection) Search(term string) []domain.KeptItem {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]domain.KeptItem, 0, len(k.items))
	for _, item := range k.items {
		if util.ContainsFold(item.Name, term) || util.ContainsFold(item.Field, term) {
			out = append(out, item)
		}
	}
	return out
}

// SetImage patches the image of a kept item. Returns false when id is not kept.
func (k *KeptCollection) SetImage(id, url string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.setImageLocked(id, url, true)
}

// fillImage sets url only when the kept item has no image yet.
func (k *KeptCollection) fillImage(id, url string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.setImageLocked(id, url, false)
}

func (k *KeptCollection) setImageLocked(id, url string, overwrite bool) bool {
	if _, ok := k.ids[id]; !ok {
		return false
	}
	for i := range k.items {
		if k.items[i].ID != id {
			continue
		}
		if !overwrite && k.items[i].ImageURL != "" {
			return false
		}
		k.items[i].ImageURL = url
		return true
	}
	return false
}

// ExportRows renders one delimited-text row per kept item:
// id, "name", "field", "bio", wiki link, kept-at (ISO-8601 UTC).
func (k *KeptCollection) ExportRows() [][]string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	rows := make([][]string, 0, len(k.items))
	for _, item := range k.items {
		rows = append(rows, []string{
			item.ID,
			util.QuoteField(item.Name),
			util.QuoteField(item.Field),
			util.QuoteField(item.Bio),
			item.WikiLink,
			item.KeptAt.UTC().Format(isoMillis),
		})
	}
	return rows
}
