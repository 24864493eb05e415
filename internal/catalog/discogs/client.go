package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tracksift/internal/catalog"
	"tracksift/internal/ratelimit"
)

const (
	searchPageSize = 50
	listPageSize   = 100
)

// Client talks to the Discogs API.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

var _ catalog.Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimiter routes every request through the shared limiter.
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a Discogs client.
func New(token, baseURL, userAgent string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discogs token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("discogs base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("discogs user agent required")
	}
	client := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search queries the database. KindAll searches every entity type.
func (c *Client) Search(ctx context.Context, query string, kind catalog.Kind) ([]catalog.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(searchPageSize))
	if kind != "" && kind != catalog.KindAll {
		params.Set("type", string(kind))
	}
	var payload searchResponse
	if err := c.getJSON(ctx, ratelimit.ClassSearch, "/database/search", params, &payload, "search"); err != nil {
		return nil, err
	}
	hits := make([]catalog.Hit, 0, len(payload.Results))
	for _, r := range payload.Results {
		hits = append(hits, r.hit())
	}
	return hits, nil
}

// ExpandVersions lists the releases of a master. The returned releases are
// stubs without tracklists; non-master hits expand to nothing.
func (c *Client) ExpandVersions(ctx context.Context, hit catalog.Hit) ([]catalog.Release, error) {
	if !hit.IsMaster() {
		return nil, nil
	}
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(listPageSize))
	var payload versionsResponse
	path := fmt.Sprintf("/masters/%d/versions", hit.ID)
	if err := c.getJSON(ctx, ratelimit.ClassMetadata, path, params, &payload, "master versions"); err != nil {
		return nil, err
	}
	out := make([]catalog.Release, 0, len(payload.Versions))
	for _, v := range payload.Versions {
		out = append(out, catalog.Release{
			ID:       v.ID,
			Title:    v.Title,
			Year:     int(v.Released),
			MasterID: hit.ID,
		})
	}
	return out, nil
}

// FetchRelease loads a full release including its tracklist.
func (c *Client) FetchRelease(ctx context.Context, id int64) (catalog.Release, error) {
	if id <= 0 {
		return catalog.Release{}, errors.New("release id must be positive")
	}
	var payload releasePayload
	if err := c.getJSON(ctx, ratelimit.ClassMetadata, fmt.Sprintf("/releases/%d", id), nil, &payload, "release"); err != nil {
		return catalog.Release{}, err
	}
	rel := payload.release()
	if rel.Tracklist == nil {
		rel.Tracklist = []catalog.Track{}
	}
	return rel, nil
}

// ArtistReleases lists releases and masters credited to the artist.
func (c *Client) ArtistReleases(ctx context.Context, artistID int64) ([]catalog.Hit, error) {
	if artistID <= 0 {
		return nil, errors.New("artist id must be positive")
	}
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(listPageSize))
	params.Set("sort", "year")
	var payload artistReleasesResponse
	path := fmt.Sprintf("/artists/%d/releases", artistID)
	if err := c.getJSON(ctx, ratelimit.ClassMetadata, path, params, &payload, "artist releases"); err != nil {
		return nil, err
	}
	out := make([]catalog.Hit, 0, len(payload.Releases))
	for _, r := range payload.Releases {
		out = append(out, catalog.Hit{
			ID:    r.ID,
			Type:  catalog.HitType(r.Type),
			Title: r.Title,
			Year:  int(r.Year),
		})
	}
	return out, nil
}

// Ping issues a minimal authenticated search to verify credentials and
// reachability.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("q", "test")
	params.Set("per_page", "1")
	var payload searchResponse
	return c.getJSON(ctx, ratelimit.ClassSearch, "/database/search", params, &payload, "ping")
}

func (c *Client) getJSON(ctx context.Context, class ratelimit.Class, path string, params url.Values, dest any, op string) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse discogs url: %w", err)
	}
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}
	if err := c.limiter.Wait(ctx, class); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.discogs.v2.discogs+json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("%w: discogs %s (latency=%v): %w", catalog.ErrTransport, op, latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: discogs %s %s", catalog.ErrNotFound, op, path)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: discogs %s returned %d (latency=%v): %s",
			catalog.ErrTransport, op, resp.StatusCode, latency, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode discogs %s: %w", catalog.ErrTransport, op, err)
	}
	return nil
}
