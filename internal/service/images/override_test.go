package images

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/icondeck/internal/deck"
	"github.com/kapu/icondeck/internal/domain"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

func TestParseOverrideRemoteURL(t *testing.T) {
	got, err := ParseOverride("  https://upload.wikimedia.org/a.jpg ")
	require.NoError(t, err)
	assert.Equal(t, "https://upload.wikimedia.org/a.jpg", got)

	_, err = ParseOverride("https://")
	assert.Error(t, err)
}

func TestParseOverrideLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.PNG")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	got, err := ParseOverride(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "file://"))
	assert.True(t, strings.HasSuffix(got, "face.PNG"))

	again, err := ParseOverride("file://" + path)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestParseOverrideRejects(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0o755))

	for _, input := range []string{
		"",
		"   ",
		notImage,
		filepath.Join(dir, "missing.jpg"),
		filepath.Join(dir, "folder.png"),
		"ftp://host/a.png",
	} {
		_, err := ParseOverride(input)
		var validationErr *apperrors.ValidationError
		assert.True(t, errors.As(err, &validationErr), "input %q", input)
	}
}

func TestOverriderApplyAndClear(t *testing.T) {
	people := []*domain.Personality{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}
	r, err := domain.NewRoster(people)
	require.NoError(t, err)
	s := deck.NewSession(r.All())
	o := NewOverrider(r, s, nil)

	got, err := o.Apply("1", "https://img.example/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/a.png", got)

	stored, _ := r.FindByID("1")
	assert.Equal(t, got, stored.ImageURL)
	current, _ := s.Current()
	assert.Equal(t, got, current.ImageURL)

	assert.Equal(t, 0, s.MergeImages(map[string]string{"1": "https://wiki/a.jpg"}))
	current, _ = s.Current()
	assert.Equal(t, got, current.ImageURL, "override survives later batches")

	require.NoError(t, o.Clear("1"))
	current, _ = s.Current()
	assert.Empty(t, current.ImageURL)
	assert.Equal(t, 0, s.MergeImages(map[string]string{"1": "https://wiki/a.jpg"}))

	_, err = o.Apply("zzz", "https://img.example/a.png")
	assert.Error(t, err)
	assert.Error(t, o.Clear("zzz"))
}
