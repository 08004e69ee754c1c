// Package rapidapi implements movie.Upstream against the RapidAPI
// "moviesdatabase" service.
package rapidapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"moviehub/movie"
)

const (
	DefaultHost    = "moviesdatabase.p.rapidapi.com"
	DefaultBaseURL = "https://" + DefaultHost

	defaultTimeout = 10 * time.Second

	headerHost = "x-rapidapi-host"
	headerKey  = "x-rapidapi-key"
)

type Options struct {
	Key     string
	Host    string
	BaseURL string
	Timeout time.Duration
	// RateLimit is the outbound request rate per second. Zero disables it.
	RateLimit float64
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	key        string
	host       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewClient(opts Options) *Client {
	c := &Client{
		key:        strings.TrimSpace(opts.Key),
		host:       opts.Host,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if c.host == "" {
		c.host = DefaultHost
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

type titlesResponse struct {
	Page    int            `json:"page"`
	Next    *string        `json:"next"`
	Entries int            `json:"entries"`
	Results []movie.Record `json:"results"`
}

// FetchTitles returns one page of titles. A missing key fails before any
// outbound call is made.
func (c *Client) FetchTitles(ctx context.Context, q movie.Query) ([]movie.Record, error) {
	if c.key == "" {
		c.logger.Error("MOVIE_API_KEY is not set in environment variables")
		return nil, movie.ErrAPINotConfigured
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.TitlesURL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerHost, c.host)
	req.Header.Set(headerKey, c.key)

	c.logger.Debug("fetching titles", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error("upstream error",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, &movie.UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	var payload titlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Results == nil {
		payload.Results = []movie.Record{}
	}

	c.logger.Info("fetched titles", "count", len(payload.Results), "year", q.Year, "page", q.Page)
	return payload.Results, nil
}

// TitlesURL builds the upstream search URL. The genre parameter is appended
// only for a non-blank genre.
func (c *Client) TitlesURL(q movie.Query) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/titles?year=")
	b.WriteString(strconv.Itoa(q.Year))
	b.WriteString("&sort=")
	b.WriteString(movie.SortYearDesc)
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(movie.PageSize))
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(q.Page))
	if genre := strings.TrimSpace(q.Genre); genre != "" {
		b.WriteString("&genre=")
		b.WriteString(url.QueryEscape(genre))
	}
	return b.String()
}

// statusText strips the numeric code from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
