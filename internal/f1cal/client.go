// Package f1cal fetches the Formula 1 race calendar from an external
// API and mirrors it into the races and race_sessions tables.
package f1cal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/config"
)

// CalendarRace is one round of the season as reported by the calendar API
type CalendarRace struct {
	Round    int               `json:"round"`
	Name     string            `json:"name"`
	Date     time.Time         `json:"date"`
	Sessions map[string]string `json:"sessions"` // session kind -> RFC 3339 start time
}

type seasonResponse struct {
	Year  int            `json:"year"`
	Races []CalendarRace `json:"races"`
}

// Client talks to the race calendar API
type Client struct {
	http    *rateLimitedClient
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewClient creates a calendar API client from configuration
func NewClient(cfg *config.CalendarConfig, logger *logrus.Logger) *Client {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RateLimit

	return &Client{
		http:    newRateLimitedClient(httpCfg, logger),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// FetchSeason retrieves the full race calendar for one year
func (c *Client) FetchSeason(ctx context.Context, year int) ([]CalendarRace, error) {
	url := fmt.Sprintf("%s/seasons/%d/races", c.baseURL, year)

	header := http.Header{}
	header.Set("Accept", "application/json")
	if c.apiKey != "" {
		header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Get(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calendar API returned status %d: %s", resp.StatusCode, string(body))
	}

	var season seasonResponse
	if err := json.NewDecoder(resp.Body).Decode(&season); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"year":  year,
		"races": len(season.Races),
	}).Debug("Fetched race calendar")

	return season.Races, nil
}

// Close releases the underlying HTTP client
func (c *Client) Close() error {
	return c.http.Close()
}
