package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain"
	"github.com/kailas-cloud/webrag/internal/metrics"
)

// DefaultTimeout bounds launch, navigation and text read of one page.
const DefaultTimeout = 60 * time.Second

// markupPattern strips anything that still looks like a tag after innerText.
var markupPattern = regexp.MustCompile(`<[^>]*>?`)

// Service turns a URL into clean visible text.
type Service struct {
	launcher Launcher
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates an extraction service.
func New(l Launcher, logger *zap.Logger) *Service {
	return &Service{launcher: l, timeout: DefaultTimeout, logger: logger}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Extract loads the page in a fresh session and returns its text with markup removed
// and whitespace collapsed. Every failure wraps domain.ErrFetch.
func (s *Service) Extract(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.load(ctx, rawURL)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ExtractDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("load %s: timed out after %s: %w: %w", rawURL, s.timeout, domain.ErrFetch, err)
		}
		return "", fmt.Errorf("load %s: %w: %w", rawURL, domain.ErrFetch, err)
	}

	return Clean(text), nil
}

func (s *Service) load(ctx context.Context, rawURL string) (string, error) {
	session, err := s.launcher.Launch(ctx)
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warn("Failed to close browser session", zap.String("url", rawURL), zap.Error(cerr))
		}
	}()

	text, err := session.Load(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return text, nil
}

// Clean removes tag-like markup and collapses whitespace runs to single spaces.
func Clean(text string) string {
	return strings.Join(strings.Fields(markupPattern.ReplaceAllString(text, "")), " ")
}

func validateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("empty url: %w", domain.ErrFetch)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %q: %w: %w", rawURL, domain.ErrFetch, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %s: %w", u.Scheme, rawURL, domain.ErrFetch)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %s: %w", rawURL, domain.ErrFetch)
	}
	return nil
}
