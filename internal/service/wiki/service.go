package wiki

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/kapu/icondeck/pkg/errors"
)

// Service resolves a wiki link to a thumbnail URL, falling back to the
// article's og:image when configured.
type Service struct {
	api     *APIClient
	scraper *Scraper
	logger  *zap.Logger
}

// NewService builds a lookup service. scraper may be nil.
func NewService(api *APIClient, scraper *Scraper, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:     api,
		scraper: scraper,
		logger:  logger,
	}
}

// Thumbnail returns "" with a nil error when the page simply has no image.
func (s *Service) Thumbnail(ctx context.Context, wikiLink string) (string, error) {
	title, err := TitleFromLink(wikiLink)
	if err != nil {
		return "", err
	}

	source, err := s.api.PageImage(ctx, title)
	if err != nil {
		return "", apperrors.NewServiceError("page image lookup failed", "wiki", "thumbnail", err)
	}
	if source != "" || s.scraper == nil {
		return source, nil
	}

	fallback, err := s.scraper.OGImage(ctx, title)
	if err != nil {
		s.logger.Debug("og:image fallback failed", zap.String("title", title), zap.Error(err))
		return "", nil
	}
	return fallback, nil
}
