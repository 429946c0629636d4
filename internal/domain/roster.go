package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/personalities.json
var personalitiesJSON []byte

// Roster is the seed store of personalities, indexed by id.
type Roster struct {
	mu            sync.RWMutex
	personalities []*Personality
	byID          map[string]*Personality
}

// LoadRoster parses the embedded seed list.
func LoadRoster() (*Roster, error) {
	return ParseRoster(personalitiesJSON)
}

// ParseRoster builds a roster from a JSON array of personalities.
func ParseRoster(data []byte) (*Roster, error) {
	var people []*Personality
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("failed to parse personalities: %w", err)
	}
	return NewRoster(people)
}

// NewRoster indexes people by id, rejecting blank or duplicate ids.
func NewRoster(people []*Personality) (*Roster, error) {
	r := &Roster{
		personalities: make([]*Personality, 0, len(people)),
		byID:          make(map[string]*Personality, len(people)),
	}
	for i, p := range people {
		if p == nil {
			continue
		}
		if p.ID == "" {
			return nil, fmt.Errorf("personality at position %d has no id", i)
		}
		if _, exists := r.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate personality id %q", p.ID)
		}
		clone := *p
		r.personalities = append(r.personalities, &clone)
		r.byID[p.ID] = &clone
	}
	return r, nil
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personalities)
}

// All returns a copy of the roster in seed order.
func (r *Roster) All() []Personality {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Personality, len(r.personalities))
	for i, p := range r.personalities {
		out[i] = *p
	}
	return out
}

func (r *Roster) FindByID(id string) (Personality, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return Personality{}, false
	}
	return *p, true
}

// Fields returns the distinct field labels in seed order.
func (r *Roster) Fields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	fields := make([]string, 0)
	for _, p := range r.personalities {
		if _, ok := seen[p.Field]; ok {
			continue
		}
		seen[p.Field] = struct{}{}
		fields = append(fields, p.Field)
	}
	return fields
}

// SetImage patches the image URL for id. An empty url clears it.
func (r *Roster) SetImage(id, url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return false
	}
	p.ImageURL = url
	return true
}
