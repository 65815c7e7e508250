package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
)

const (
	SuperBowlsURL = "https://www.footballdb.com/seasons/super-bowls.html"
	// UserAgent is sent instead of Go's default; the site rejects unknown clients
	UserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	ContainerID = "leftcol"
)

// Scraper handles fetching and parsing the Super Bowl history page
type Scraper struct {
	client      *http.Client
	url         string
	userAgent   string
	containerID string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithURL overrides the page URL
func WithURL(url string) Option {
	return func(s *Scraper) { s.url = url }
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) { s.userAgent = ua }
}

// WithContainerID overrides the id of the div holding the score tables
func WithContainerID(id string) Option {
	return func(s *Scraper) { s.containerID = id }
}

// WithTimeout sets an overall HTTP timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// New creates a new Scraper. Without options it targets footballdb.com with no timeout.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:      &http.Client{},
		url:         SuperBowlsURL,
		userAgent:   UserAgent,
		containerID: ContainerID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the page and returns its markup.
// The status code does not reject the page; a non-2xx body is returned like any other.
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Unexpected status code, parsing body anyway", logger.Fields{
			"url":    s.url,
			"status": resp.StatusCode,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	logger.RecordTiming("fetch", time.Since(start))
	logger.Debug("Fetched page", logger.Fields{
		"url":    s.url,
		"status": resp.StatusCode,
		"bytes":  len(body),
	})

	return string(body), nil
}

// FetchGames fetches the page and extracts every game in page order
func (s *Scraper) FetchGames(ctx context.Context) ([]boxscore.Game, error) {
	page, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	games, err := ParsePage(strings.NewReader(page), s.containerID)
	if err != nil {
		return nil, err
	}

	logger.AddCounter("games.parsed", int64(len(games)))

	return games, nil
}
