package booru

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"boorudl/internal/config"
	"boorudl/internal/core/domain"
)

const (
	defaultBaseURL = "https://gelbooru.com/index.php?page=dapi&s=post&q=index&json=1"
	userAgent      = "boorudl/0.1.0"

	searchTimeout = 1 * time.Minute
	fetchTimeout  = 30 * time.Minute // media files can be large
)

// Client issues the two remote operations against the search API: paginated
// tag queries and raw file fetches. It performs no retries; retry policy, if
// any, belongs to a caller.
type Client struct {
	baseURL string
	tags    string
	apiKey  string
	userID  string
	client  *http.Client
	logger  *zap.SugaredLogger
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the search endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// NewClient builds a Client from the run configuration. Transport selection
// (protocol version, TLS relaxation, keep-alive) is fixed here and does not
// change behavior elsewhere.
func NewClient(cfg *config.Config, logger *zap.SugaredLogger, opts ...Option) *Client {
	transport := &http.Transport{
		DisableKeepAlives: cfg.NoKeepAlive,
	}
	switch cfg.HTTPVersion {
	case config.HTTP1:
		// An empty TLSNextProto map disables the bundled HTTP/2 support.
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	case config.HTTP2:
		transport.ForceAttemptHTTP2 = true
	}
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		baseURL: defaultBaseURL,
		tags:    strings.Join(cfg.Tags, " "),
		apiKey:  cfg.APIKey,
		userID:  cfg.UserID,
		client:  &http.Client{Transport: transport},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search issues one paginated query for the configured tags.
func (c *Client) Search(ctx context.Context, limit, page int) (*domain.SearchPage, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build search request at page %d", page)
	}
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("pid", strconv.Itoa(page))
	q.Set("tags", c.tags)
	q.Set("api_key", c.apiKey)
	q.Set("user_id", c.userID)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "search failed at page %d", page)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("search returned status %d at page %d", resp.StatusCode, page)
	}

	var result domain.SearchPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrapf(err, "decode search response at page %d", page)
	}

	c.logger.Debugw("search page fetched",
		"page", page,
		"limit", limit,
		"posts", len(result.Posts),
		"count", result.Attributes.Count,
	)
	return &result, nil
}

// Fetch retrieves the raw file bytes at the post's file URL.
func (c *Client) Fetch(ctx context.Context, post domain.Post) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, post.FileURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build fetch request for %s", post.FileURL)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", post.FileURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch %s returned status %d", post.FileURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read body of %s", post.FileURL)
	}
	return data, nil
}
