package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/constants"
)

// Scraper reads the Open Graph image from an article page. Used when the
// page-images API has no thumbnail for a title.
type Scraper struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

func NewScraper(httpClient *http.Client, baseURL, userAgent string, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.WikiTimeout}
	}
	if baseURL == "" {
		baseURL = constants.APIConfig.WikiBaseURL
	}
	if userAgent == "" {
		userAgent = constants.APIConfig.UserAgent
	}
	return &Scraper{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		logger:     logger,
	}
}

func (s *Scraper) OGImage(ctx context.Context, title string) (string, error) {
	pageURL := s.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", constants.APIConfig.AcceptLanguage)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	image := strings.TrimSpace(doc.Find(`meta[property="og:image"]`).First().AttrOr("content", ""))
	s.logger.Debug("Scraped og:image",
		zap.String("title", title),
		zap.Bool("found", image != ""),
	)
	return image, nil
}
