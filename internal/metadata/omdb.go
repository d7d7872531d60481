package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production OMDB endpoint.
const DefaultBaseURL = "https://www.omdbapi.com"

// OMDBClient implements Client against the OMDB HTTP API.
type OMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// OMDBOption customizes an OMDBClient.
type OMDBOption func(*OMDBClient)

// WithBaseURL overrides the OMDB endpoint, primarily for tests.
func WithBaseURL(u string) OMDBOption {
	return func(c *OMDBClient) { c.baseURL = u }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) OMDBOption {
	return func(c *OMDBClient) { c.client = hc }
}

// NewOMDBClient builds an OMDB-backed metadata client. A missing API
// key is a fatal configuration error.
func NewOMDBClient(apiKey string, logger *zap.Logger, opts ...OMDBOption) (*OMDBClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("metadata API key is not configured")
	}
	c := &OMDBClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// omdbResponse mirrors the subset of the OMDB payload this pipeline
// consumes.
type omdbResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	Actors     string `json:"Actors"`
	Director   string `json:"Director"`
}

// Lookup fetches metadata for a title.
func (c *OMDBClient) Lookup(ctx context.Context, title string) (MovieInfo, error) {
	u := fmt.Sprintf("%s/?t=%s&apikey=%s", c.baseURL, url.QueryEscape(title), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return MovieInfo{}, fmt.Errorf("build metadata request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return MovieInfo{}, fmt.Errorf("metadata lookup for %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MovieInfo{}, fmt.Errorf("metadata lookup for %q: status %d", title, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return MovieInfo{}, fmt.Errorf("read metadata response: %w", err)
	}

	var payload omdbResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return MovieInfo{}, fmt.Errorf("parse metadata response for %q: %w", title, err)
	}
	if !strings.EqualFold(payload.Response, "True") {
		c.logger.Warn("Metadata service has no match",
			zap.String("title", title),
			zap.String("error", payload.Error),
		)
		return MovieInfo{}, fmt.Errorf("lookup %q: %w", title, ErrNotFound)
	}

	year, err := firstYear(payload.Year)
	if err != nil {
		return MovieInfo{}, fmt.Errorf("parse year %q for %q: %w", payload.Year, title, err)
	}

	rating := -1.0
	if payload.ImdbRating != "" && payload.ImdbRating != "N/A" {
		rating, err = strconv.ParseFloat(payload.ImdbRating, 64)
		if err != nil {
			return MovieInfo{}, fmt.Errorf("parse critic rating %q for %q: %w", payload.ImdbRating, title, err)
		}
	}

	return MovieInfo{
		ID:           payload.ImdbID,
		Title:        title,
		Year:         year,
		Genre:        payload.Genre,
		Poster:       payload.Poster,
		CriticRating: rating,
		Actors:       splitNames(payload.Actors),
		Directors:    splitNames(payload.Director),
	}, nil
}

// firstYear extracts the leading year from values like "2021" or
// "2021–2024" (series report a range; only the first year is kept).
func firstYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	end := len(raw)
	for i, r := range raw {
		if r < '0' || r > '9' {
			end = i
			break
		}
	}
	if end == 0 {
		return 0, fmt.Errorf("no leading year in %q", raw)
	}
	return strconv.Atoi(raw[:end])
}

// splitNames splits OMDB's comma-separated people lists.
func splitNames(raw string) []string {
	if raw == "" || raw == "N/A" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}
