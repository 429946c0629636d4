package deck

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/util"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

// ErrDeckExhausted is returned by Decide when no card is left at the cursor.
var ErrDeckExhausted = errors.New("deck exhausted")

// Session owns the deck, cursor, decision history, and kept collection.
// Every transition goes through its methods.
type Session struct {
	mu         sync.RWMutex
	deck       []domain.Personality
	byID       map[string]int
	cursor     int
	history    []domain.HistoryEntry
	overridden map[string]struct{}
	kept       *KeptCollection
	logger     *zap.Logger
}

type Option func(*Session)

// WithClock sets the clock used to stamp kept items.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.kept = NewKeptCollection(now)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Snapshot is a read-only view of session counters.
type Snapshot struct {
	Cursor     int
	DeckLen    int
	HistoryLen int
	KeptCount  int
	Exhausted  bool
}

// NewSession starts a session over people in the given order.
func NewSession(people []domain.Personality, opts ...Option) *Session {
	s := &Session{
		deck:       make([]domain.Personality, len(people)),
		byID:       make(map[string]int, len(people)),
		overridden: make(map[string]struct{}),
		logger:     zap.NewNop(),
	}
	copy(s.deck, people)
	for i, p := range s.deck {
		s.byID[p.ID] = i
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kept == nil {
		s.kept = NewKeptCollection(nil)
	}
	return s
}

// Decide records action for the card at the cursor and advances.
func (s *Session) Decide(action domain.Action) (domain.HistoryEntry, error) {
	if !action.IsValid() {
		return domain.HistoryEntry{}, apperrors.NewValidationError("unknown decision", "action", string(action))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.deck) {
		return domain.HistoryEntry{}, ErrDeckExhausted
	}

	subject := s.deck[s.cursor]
	entry := domain.HistoryEntry{Index: s.cursor, Action: action, ID: subject.ID}
	s.history = append(s.history, entry)
	if action == domain.ActionKeep {
		s.kept.Add(subject)
	}
	s.cursor++

	s.logger.Debug("Decision recorded",
		zap.String("id", subject.ID),
		zap.String("action", action.String()),
		zap.Int("cursor", s.cursor),
	)
	return entry, nil
}

// Undo reverts the most recent decision. Returns false when there is nothing to undo.
func (s *Session) Undo() (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return domain.HistoryEntry{}, false
	}

	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.cursor = util.Clamp(s.cursor-1, 0, len(s.deck))
	if last.Action == domain.ActionKeep {
		s.kept.Remove(last.ID)
	}

	s.logger.Debug("Decision undone",
		zap.String("id", last.ID),
		zap.String("action", last.Action.String()),
		zap.Int("cursor", s.cursor),
	)
	return last, true
}

// Restart rewinds to the first card and forgets history. Kept items stay.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor = 0
	s.history = nil
	s.logger.Debug("Deck restarted", zap.Int("kept", s.kept.Len()))
}

func (s *Session) IsExhausted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor >= len(s.deck)
}

// VisibleWindow returns up to n cards starting at the cursor, top card first.
func (s *Session) VisibleWindow(n int) []domain.Personality {
	if n <= 0 {
		n = constants.DeckConfig.VisibleCards
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	end := util.Clamp(s.cursor+n, s.cursor, len(s.deck))
	out := make([]domain.Personality, end-s.cursor)
	copy(out, s.deck[s.cursor:end])
	return out
}

// Current returns the card at the cursor.
func (s *Session) Current() (domain.Personality, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cursor >= len(s.deck) {
		return domain.Personality{}, false
	}
	return s.deck[s.cursor], true
}

func (s *Session) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deck)
}

func (s *Session) History() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Deck returns a copy of the deck in order.
func (s *Session) Deck() []domain.Personality {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Personality, len(s.deck))
	copy(out, s.deck)
	return out
}

func (s *Session) Kept() *KeptCollection {
	return s.kept
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Cursor:     s.cursor,
		DeckLen:    len(s.deck),
		HistoryLen: len(s.history),
		KeptCount:  s.kept.Len(),
		Exhausted:  s.cursor >= len(s.deck),
	}
}

// SetImage applies a user image override to the deck and kept list. An empty
// url clears the image. Later batch merges leave overridden ids alone.
func (s *Session) SetImage(id, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	s.deck[idx].ImageURL = url
	s.overridden[id] = struct{}{}
	s.kept.SetImage(id, url)

	s.logger.Info("Card image overridden",
		zap.String("id", id),
		zap.Bool("cleared", url == ""),
	)
	return true
}

// MergeImages attaches resolved image URLs by id. Only ImageURL fields change.
func (s *Session) MergeImages(images map[string]string) int {
	if len(images) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for id, url := range images {
		if url == "" {
			continue
		}
		if _, manual := s.overridden[id]; manual {
			continue
		}
		idx, ok := s.byID[id]
		if !ok {
			continue
		}
		s.deck[idx].ImageURL = url
		s.kept.fillImage(id, url)
		applied++
	}
	return applied
}
