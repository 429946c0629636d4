package deck

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/icondeck/internal/domain"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

func people(ids ...string) []domain.Personality {
	out := make([]domain.Personality, len(ids))
	for i, id := range ids {
		out[i] = domain.Personality{
			ID:       id,
			Name:     "Person " + id,
			Field:    "Field " + id,
			Bio:      "Bio " + id,
			WikiLink: "https://en.wikipedia.org/wiki/" + id,
		}
	}
	return out
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func keptIDs(k *KeptCollection) []string {
	items := k.Items()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestDecideAdvancesAndLogsHistory(t *testing.T) {
	s := NewSession(people("a", "b", "c", "d"))
	actions := []domain.Action{domain.ActionKeep, domain.ActionPass, domain.ActionPass, domain.ActionKeep}

	for i, action := range actions {
		entry, err := s.Decide(action)
		require.NoError(t, err)
		assert.Equal(t, i, entry.Index)
		assert.Equal(t, action, entry.Action)
		assert.Equal(t, len(s.History()), s.Cursor())
	}

	assert.True(t, s.IsExhausted())
	assert.ElementsMatch(t, []string{"a", "d"}, keptIDs(s.Kept()))
}

func TestDecideWhenExhaustedIsGuarded(t *testing.T) {
	s := NewSession(people("a"))
	_, err := s.Decide(domain.ActionPass)
	require.NoError(t, err)

	_, err = s.Decide(domain.ActionKeep)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, 1, s.Cursor())
	assert.Len(t, s.History(), 1)
	assert.Equal(t, 0, s.Kept().Len())
}

func TestDecideRejectsUnknownAction(t *testing.T) {
	s := NewSession(people("a"))
	_, err := s.Decide(domain.Action("superlike"))

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "action", validationErr.Field)
	assert.Equal(t, 0, s.Cursor())
}

func TestUndoIsLeftInverseOfDecide(t *testing.T) {
	for _, action := range []domain.Action{domain.ActionKeep, domain.ActionPass} {
		s := NewSession(people("a", "b"))
		_, err := s.Decide(domain.ActionPass)
		require.NoError(t, err)

		before := s.Cursor()
		_, err = s.Decide(action)
		require.NoError(t, err)

		entry, ok := s.Undo()
		require.True(t, ok)
		assert.Equal(t, "b", entry.ID)
		assert.Equal(t, before, s.Cursor())
		assert.False(t, s.Kept().Contains("b"))
	}
}

func TestUndoOnEmptyHistoryIsNoop(t *testing.T) {
	s := NewSession(people("a"))
	_, ok := s.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Cursor())
}

func TestUndoFromExhaustedReturnsToActive(t *testing.T) {
	s := NewSession(people("a", "b"))
	_, _ = s.Decide(domain.ActionKeep)
	_, _ = s.Decide(domain.ActionKeep)
	require.True(t, s.IsExhausted())

	_, ok := s.Undo()
	require.True(t, ok)
	assert.False(t, s.IsExhausted())
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", current.ID)
	assert.Equal(t, []string{"a"}, keptIDs(s.Kept()))
}

func TestKeepPassUndoKeepScenario(t *testing.T) {
	s := NewSession(people("A", "B", "C"))

	_, err := s.Decide(domain.ActionKeep)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cursor())

	_, err = s.Decide(domain.ActionPass)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cursor())

	_, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, []domain.HistoryEntry{{Index: 0, Action: domain.ActionKeep, ID: "A"}}, s.History())

	_, err = s.Decide(domain.ActionKeep)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cursor())

	assert.ElementsMatch(t, []string{"A", "B"}, keptIDs(s.Kept()))
	assert.Equal(t, []domain.HistoryEntry{
		{Index: 0, Action: domain.ActionKeep, ID: "A"},
		{Index: 1, Action: domain.ActionKeep, ID: "B"},
	}, s.History())
}

func TestRestartKeepsKeptItems(t *testing.T) {
	s := NewSession(people("a", "b", "c"))
	_, _ = s.Decide(domain.ActionKeep)
	_, _ = s.Decide(domain.ActionPass)
	_, _ = s.Decide(domain.ActionKeep)
	require.True(t, s.IsExhausted())

	s.Restart()

	assert.Equal(t, 0, s.Cursor())
	assert.Empty(t, s.History())
	assert.ElementsMatch(t, []string{"a", "c"}, keptIDs(s.Kept()))

	_, ok := s.Undo()
	assert.False(t, ok, "history should be gone after restart")
}

func TestReplayAfterRestartDoesNotDuplicateKept(t *testing.T) {
	s := NewSession(people("a"))
	_, _ = s.Decide(domain.ActionKeep)
	s.Restart()
	_, _ = s.Decide(domain.ActionKeep)

	assert.Equal(t, 1, s.Kept().Len())
}

func TestVisibleWindow(t *testing.T) {
	s := NewSession(people("a", "b", "c"))

	window := s.VisibleWindow(2)
	require.Len(t, window, 2)
	assert.Equal(t, "a", window[0].ID)
	assert.Equal(t, "b", window[1].ID)

	_, _ = s.Decide(domain.ActionPass)
	_, _ = s.Decide(domain.ActionPass)
	window = s.VisibleWindow(2)
	require.Len(t, window, 1)
	assert.Equal(t, "c", window[0].ID)

	_, _ = s.Decide(domain.ActionPass)
	assert.Empty(t, s.VisibleWindow(2))
	assert.Len(t, NewSession(people("a", "b", "c")).VisibleWindow(0), 2)
}

func TestLateBatchMergeLeavesDecisionStateAlone(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	s := NewSession(people(ids...))
	for i := 0; i < 11; i++ {
		action := domain.ActionPass
		if i%3 == 0 {
			action = domain.ActionKeep
		}
		_, err := s.Decide(action)
		require.NoError(t, err)
	}

	before := s.Snapshot()
	history := s.History()
	kept := keptIDs(s.Kept())

	batch := map[string]string{}
	for _, id := range ids[5:10] {
		batch[id] = "https://img/" + id + ".jpg"
	}
	applied := s.MergeImages(batch)

	assert.Equal(t, 5, applied)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, history, s.History())
	assert.Equal(t, kept, keptIDs(s.Kept()))

	for _, p := range s.Deck()[5:10] {
		assert.Equal(t, "https://img/"+p.ID+".jpg", p.ImageURL)
	}
	item, ok := s.Kept().Get("g")
	require.True(t, ok)
	assert.Equal(t, "https://img/g.jpg", item.ImageURL)
}

func TestMergeSkipsUserOverrides(t *testing.T) {
	s := NewSession(people("a", "b"))
	require.True(t, s.SetImage("a", "file:///tmp/a.png"))
	require.True(t, s.SetImage("b", ""))

	applied := s.MergeImages(map[string]string{
		"a":       "https://img/a.jpg",
		"b":       "https://img/b.jpg",
		"missing": "https://img/x.jpg",
	})

	assert.Equal(t, 0, applied)
	deck := s.Deck()
	assert.Equal(t, "file:///tmp/a.png", deck[0].ImageURL)
	assert.Equal(t, "", deck[1].ImageURL)
}

func TestSetImageUpdatesKeptItem(t *testing.T) {
	s := NewSession(people("a"), WithClock(fixedClock()))
	_, _ = s.Decide(domain.ActionKeep)

	require.True(t, s.SetImage("a", "https://img/a.png"))
	item, ok := s.Kept().Get("a")
	require.True(t, ok)
	assert.Equal(t, "https://img/a.png", item.ImageURL)

	require.True(t, s.SetImage("a", ""))
	item, _ = s.Kept().Get("a")
	assert.Equal(t, "", item.ImageURL)

	assert.False(t, s.SetImage("nope", "x"))
}

func TestSessionCopiesInput(t *testing.T) {
	input := people("a")
	s := NewSession(input)
	input[0].Name = "mutated"

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Person a", current.Name)
}
