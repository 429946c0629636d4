package images

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/deck"
	"github.com/kapu/icondeck/internal/domain"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
	".svg":  {},
}

// ParseOverride turns user input into an image URL. Remote http(s) URLs pass
// through; local image files become file:// URLs of their absolute path.
func ParseOverride(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", apperrors.NewValidationError("image source is empty", "image", input)
	}

	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "" {
			return "", apperrors.NewValidationError("image URL has no host", "image", input)
		}
		return u.String(), nil
	}

	path := strings.TrimPrefix(input, "file://")
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", apperrors.NewValidationError("cannot expand home directory", "image", input)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
		return "", apperrors.NewValidationError("not an image file", "image", input)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewValidationError("invalid file path", "image", input)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", apperrors.NewValidationError("image file not found", "image", input)
	}
	if !info.Mode().IsRegular() {
		return "", apperrors.NewValidationError("image path is not a file", "image", input)
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Overrider applies user-chosen images to the roster and the live session.
type Overrider struct {
	roster  *domain.Roster
	session *deck.Session
	logger  *zap.Logger
}

func NewOverrider(roster *domain.Roster, session *deck.Session, logger *zap.Logger) *Overrider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Overrider{
		roster:  roster,
		session: session,
		logger:  logger,
	}
}

// Apply validates input and sets it as id's image. Returns the stored URL.
func (o *Overrider) Apply(id, input string) (string, error) {
	imageURL, err := ParseOverride(input)
	if err != nil {
		return "", err
	}
	if err := o.set(id, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}

// Clear removes id's image. Background batches will not restore it.
func (o *Overrider) Clear(id string) error {
	return o.set(id, "")
}

func (o *Overrider) set(id, imageURL string) error {
	if !o.session.SetImage(id, imageURL) {
		return apperrors.NewValidationError("unknown personality", "id", id)
	}
	if o.roster != nil {
		o.roster.SetImage(id, imageURL)
	}
	o.logger.Debug("Image override stored", zap.String("id", id), zap.String("url", imageURL))
	return nil
}
