package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

const (
	cinemetaBaseURL = "https://v3-cinemeta.strem.io"
)

type CinemetaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCinemetaClient creates a Cinemeta client. An empty baseURL means the public instance
// and a nil client means one without a timeout.
func NewCinemetaClient(baseURL string, httpClient *http.Client) *CinemetaClient {
	if baseURL == "" {
		baseURL = cinemetaBaseURL
	}
	return &CinemetaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(httpClient),
	}
}

type cinemetaResponse struct {
	Meta *cinemetaMeta `json:"meta"`
}

type cinemetaMeta struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Year     looseString  `json:"year"`
	Director looseStrings `json:"director"`
	Runtime  looseString  `json:"runtime"`
}

// GetMovie resolves an IMDb ID to the metadata used for the archive search
func (c *CinemetaClient) GetMovie(ctx context.Context, imdbID string) (*models.MovieMetadata, error) {
	endpoint := fmt.Sprintf("%s/meta/movie/%s.json", c.baseURL, url.PathEscape(imdbID))

	var response cinemetaResponse
	if err := getJSON(ctx, c.httpClient, endpoint, &response); err != nil {
		return nil, fmt.Errorf("cinemeta %s: %w", imdbID, err)
	}

	if response.Meta == nil || strings.TrimSpace(response.Meta.Name) == "" {
		return nil, fmt.Errorf("cinemeta %s: %w", imdbID, ErrMissingMeta)
	}

	meta := &models.MovieMetadata{
		Title:          strings.TrimSpace(response.Meta.Name),
		Year:           parseYear(string(response.Meta.Year)),
		RuntimeSeconds: ParseRuntime(string(response.Meta.Runtime)),
	}
	if len(response.Meta.Director) > 0 {
		meta.Director = strings.TrimSpace(response.Meta.Director[0])
	}

	return meta, nil
}

var (
	yearPattern    = regexp.MustCompile(`\d{4}`)
	runtimePattern = regexp.MustCompile(`(?i)^(?:(\d+)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*(?:min(?:utes?|s)?|m)?)?$`)
)

// parseYear returns the first 4-digit year in releaseInfo style strings ("1999–2003"), or 0
func parseYear(raw string) int {
	match := yearPattern.FindString(raw)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}

// ParseRuntime converts a Cinemeta runtime string ("94 min", "1h 34min") to seconds.
// Missing or malformed values yield 0.
func ParseRuntime(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	m := runtimePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*3600 + minutes*60
}
