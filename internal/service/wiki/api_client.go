package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/util"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

var (
	// ErrNoTitle is returned when a link has no /wiki/<title> segment.
	ErrNoTitle = errors.New("wiki link has no page title")
	// ErrCircuitOpen is returned while the upstream is being left alone.
	ErrCircuitOpen = errors.New("wiki circuit breaker open")
)

// APIClient talks to the MediaWiki action API.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	thumbSize  int
	userAgent  string
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

type APIClientConfig struct {
	BaseURL   string
	ThumbSize int
	UserAgent string
}

func NewAPIClient(httpClient *http.Client, cfg APIClientConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.APIConfig.WikiTimeout}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.APIConfig.WikiBaseURL
	}
	if cfg.ThumbSize <= 0 {
		cfg.ThumbSize = constants.ImageConfig.ThumbnailSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.APIConfig.UserAgent
	}

	return &APIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		thumbSize:  cfg.ThumbSize,
		userAgent:  cfg.UserAgent,
		breaker: util.NewCircuitBreaker("wiki",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
		sleep:  sleepContext,
	}
}

// TitleFromLink extracts the page title that follows /wiki/ in link.
func TitleFromLink(link string) (string, error) {
	idx := strings.Index(link, "/wiki/")
	if idx < 0 {
		return "", ErrNoTitle
	}
	title := link[idx+len("/wiki/"):]
	if cut := strings.IndexAny(title, "?#"); cut >= 0 {
		title = title[:cut]
	}
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrNoTitle
	}
	return title, nil
}

// PageImage returns the page thumbnail for title, or "" when the page is
// missing or has no image.
func (c *APIClient) PageImage(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "pageimages")
	params.Set("format", "json")
	params.Set("pithumbsize", strconv.Itoa(c.thumbSize))
	params.Set("redirects", "1")

	body, err := c.DoRequest(ctx, "/w/api.php", params)
	if err != nil {
		return "", err
	}
	return parseThumbnail(body)
}

func parseThumbnail(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apperrors.NewAPIError("malformed page-images response", http.StatusOK, nil)
	}

	pages := gjson.GetBytes(body, "query.pages")
	if !pages.Exists() {
		return "", nil
	}

	var source string
	pages.ForEach(func(pageID, page gjson.Result) bool {
		if pageID.String() != "-1" {
			source = page.Get("thumbnail.source").String()
		}
		return false
	})
	return source, nil
}

// DoRequest performs a GET against path with retry and circuit breaking.
func (c *APIClient) DoRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if !c.breaker.CanExecute() {
		c.logger.Debug("Wiki circuit open, skipping request",
			zap.Duration("retry_after", c.breaker.RetryAfter()))
		return nil, ErrCircuitOpen
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < constants.RetryConfig.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, computeDelay(attempt-1)); err != nil {
				return nil, err
			}
		}

		body, err := c.fetch(ctx, reqURL)
		if err == nil {
			c.breaker.RecordSuccess()
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var apiErr *apperrors.APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return nil, err
		}

		c.breaker.RecordFailure()
		if !c.breaker.CanExecute() {
			break
		}

		c.logger.Debug("Wiki request failed, retrying",
			zap.String("url", reqURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return nil, fmt.Errorf("wiki request failed: %w", lastErr)
}

func (c *APIClient) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, apperrors.NewAPIError(fmt.Sprintf("wiki responded %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"url": reqURL,
		})
	}
	return body, nil
}

func computeDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	return base + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
