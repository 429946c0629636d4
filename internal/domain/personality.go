package domain

import "time"

// Personality is a single card in the deck.
type Personality struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Field    string `json:"field"`
	Bio      string `json:"bio"`
	WikiLink string `json:"wikiLink"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// HasImage reports whether an image URL is attached.
func (p Personality) HasImage() bool {
	return p.ImageURL != ""
}

// KeptItem is a personality the user chose to keep.
type KeptItem struct {
	Personality
	KeptAt time.Time `json:"keptAt"`
}

type Action string

const (
	ActionKeep Action = "keep"
	ActionPass Action = "pass"
)

func (a Action) String() string {
	return string(a)
}

func (a Action) IsValid() bool {
	switch a {
	case ActionKeep, ActionPass:
		return true
	default:
		return false
	}
}

// HistoryEntry records one decision so it can be undone.
type HistoryEntry struct {
	Index  int    `json:"index"`
	Action Action `json:"action"`
	ID     string `json:"id"`
}
