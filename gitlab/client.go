// Package gitlab is a small client for the GitLab repository files and tags APIs.
package gitlab

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

	lru "github.com/hashicorp/golang-lru/v2"

	cicompat "github.com/cicompat/cicompat"
	"github.com/cicompat/cicompat/cierrors"
	"github.com/cicompat/cicompat/logging"
	"github.com/cicompat/cicompat/pipeline"
)

const (
	// DefaultTimeout applies when no HTTP client is supplied.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheSize is the number of raw files kept in memory.
	DefaultCacheSize = 256

	// MaxResponseSize bounds the size of a fetched file or tag page.
	MaxResponseSize = 10 << 20

	// TokenHeader carries the access token.
	TokenHeader = "Private-Token"

	tagsPerPage = 100
	maxTagPages = 50
)

// FileRawURL returns the raw file endpoint for an already encoded project and
// file, e.g. http://host/api/v4/projects/foo%2Fbar/repository/files/my-file.json/raw.
func FileRawURL(host, project, file string) string {
	return apiBase(host) + "/projects/" + project + "/repository/files/" + file + "/raw"
}

// TagsURL returns the tag listing endpoint for an already encoded project.
func TagsURL(host, project string) string {
	return apiBase(host) + "/projects/" + project + "/repository/tags"
}

func apiBase(host string) string {
	return strings.TrimRight(host, "/") + "/api/v4"
}

// Client fetches files and tags from one GitLab instance.
// It implements pipeline.Fetcher and is safe for concurrent use.
type Client struct {
	host       string
	token      string
	httpClient *http.Client
	userAgent  string
	logger     logging.Logger
	cacheSize  int
	cache      *lru.Cache[string, []byte]
}

var _ pipeline.Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithCacheSize sets how many raw files are cached. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// New creates a client for the GitLab instance at host, authenticating with token.
func New(host, token string, opts ...Option) (*Client, error) {
	c := &Client{
		host:      host,
		token:     token,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.userAgent == "" {
		c.userAgent = cicompat.UserAgent()
	}
	c.logger = logging.OrNop(c.logger)

	if c.cacheSize < 0 {
		return nil, &cierrors.ConfigError{Option: "cache size", Value: c.cacheSize, Message: "must not be negative"}
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[string, []byte](c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("gitlab: create cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// FetchFile returns the raw contents of file in project at ref. project and
// file must already have "/" encoded as %2F. An empty ref reads the default
// branch. Successful responses are cached per (project, file, ref).
func (c *Client) FetchFile(ctx context.Context, project, file, ref string) ([]byte, error) {
	key := project + "\x00" + file + "\x00" + ref
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			c.logger.Debug("file cache hit", "project", project, "file", file, "ref", ref)
			return data, nil
		}
	}

	u := FileRawURL(c.host, project, file)
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}

	data, _, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(key, data)
	}
	return data, nil
}

type tag struct {
	Name string `json:"name"`
}

// Tags lists the tag names of project, following pagination.
func (c *Client) Tags(ctx context.Context, project string) ([]string, error) {
	var names []string
	page := "1"
	for i := 0; i < maxTagPages && page != ""; i++ {
		u := TagsURL(c.host, project) + "?per_page=" + strconv.Itoa(tagsPerPage) + "&page=" + url.QueryEscape(page)

		data, header, err := c.get(ctx, u)
		if err != nil {
			return nil, err
		}
		var tags []tag
		if err := json.Unmarshal(data, &tags); err != nil {
			return nil, &cierrors.FetchError{URL: u, Message: "invalid tag list", Cause: err}
		}
		for _, t := range tags {
			names = append(names, t.Name)
		}
		page = header.Get("X-Next-Page")
	}
	if page != "" {
		c.logger.Warn("tag list truncated", "project", project, "pages", maxTagPages, "count", len(names), "next_page", page)
	}
	c.logger.Debug("listed tags", "project", project, "count", len(names))
	return names, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, &cierrors.FetchError{URL: u, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	c.logger.Debug("gitlab request", "url", u)
	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:gosec // host comes from operator configuration
	if err != nil {
		return nil, nil, &cierrors.FetchError{URL: u, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("gitlab request failed", "url", u, "status", resp.StatusCode)
		return nil, nil, &cierrors.FetchError{URL: u, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, nil, &cierrors.FetchError{URL: u, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}
	if len(data) > MaxResponseSize {
		return nil, nil, &cierrors.FetchError{URL: u, StatusCode: resp.StatusCode, Message: fmt.Sprintf("response exceeds %d bytes", MaxResponseSize)}
	}
	c.logger.Debug("gitlab response", "url", u, "bytes", len(data), "elapsed", time.Since(start))
	return data, resp.Header, nil
}
