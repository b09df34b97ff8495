package redmine

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	rmhttp "github.com/randalmurphal/redmine/http"
)

// Headers used by the Redmine REST API.
const (
	apiKeyHeader     = "X-Redmine-API-Key"
	switchUserHeader = "X-Redmine-Switch-User"
)

// Client provides synchronous access to the Redmine REST API. A Client is
// immutable after construction; Impersonate derives a new Client rather than
// modifying the receiver, so the original and any derived clients may be used
// concurrently from different call sites.
type Client struct {
	cfg      *Config
	http     *rmhttp.Client
	baseURL  string
	headers  map[string]string
	pageSize int
	warn     io.Writer
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, replacing the one built from
// Config.HTTP.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = rmhttp.NewClient(rmhttp.ClientConfig{
			Client:      httpClient,
			BaseURL:     c.baseURL,
			ServiceName: "redmine",
			ParseError:  parseAPIError,
		})
	}
}

// WithPageSize overrides the page size used by listing operations.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		c.pageSize = n
	}
}

// WithWarnWriter sets the destination for deprecation notices. The default
// is os.Stderr; nil silences them.
func WithWarnWriter(w io.Writer) ClientOption {
	return func(c *Client) {
		c.warn = w
	}
}

// WithHeader adds a header to every request made by the client.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a new Redmine client. The base URL is normalized once at
// construction: a trailing slash is stripped.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.Clone()

	timeout := cfg.HTTP.Timeout
	if timeout == 0 {
		timeout = rmhttp.DefaultTimeout
	}

	c := &Client{
		cfg:      cfg,
		baseURL:  strings.TrimSuffix(cfg.URL, "/"),
		headers:  make(map[string]string),
		pageSize: rmhttp.DefaultPageSize,
		warn:     os.Stderr,
	}

	c.http = rmhttp.NewClient(rmhttp.ClientConfig{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    cfg.HTTP.MaxIdleConns,
				IdleConnTimeout: cfg.HTTP.IdleConnTimeout,
			},
		},
		BaseURL:     c.baseURL,
		ServiceName: "redmine",
		ParseError:  parseAPIError,
	})

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	// The hook reads this client's header map; derived clients install
	// their own hook over their own copy.
	c.http = c.http.WithBeforeRequest(c.applyHeaders)

	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Impersonate returns a derived client that acts on behalf of the given user
// login by attaching the X-Redmine-Switch-User header to every request. The
// original client's headers are copied, never shared, so the original never
// carries the impersonation header.
func (c *Client) Impersonate(login string) (*Client, error) {
	if login == "" {
		return nil, ErrLoginRequired
	}
	derived := *c
	derived.headers = make(map[string]string, len(c.headers)+1)
	maps.Copy(derived.headers, c.headers)
	derived.headers[switchUserHeader] = login
	derived.http = c.http.WithBeforeRequest(derived.applyHeaders)
	return &derived, nil
}

// applyHeaders sets the API key and any per-client headers on a request.
func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// deprecationf writes a non-fatal deprecation notice.
func (c *Client) deprecationf(msg string) {
	if c.warn == nil {
		return
	}
	_, _ = io.WriteString(c.warn, "redmine: deprecated: "+msg+"\n")
}

// withQuery appends encoded query parameters to a path.
func withQuery(path string, values url.Values) string {
	if enc := values.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// listEnvelope decodes a listing page {"<key>": [...], "total_count": N}.
// The resource key varies per endpoint, so it is resolved at decode time.
type listEnvelope[T any] struct {
	key   string
	items []T
	total int
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if tc, ok := raw["total_count"]; ok {
		if err := json.Unmarshal(tc, &e.total); err != nil {
			return err
		}
	}
	if items, ok := raw[e.key]; ok {
		if err := json.Unmarshal(items, &e.items); err != nil {
			return err
		}
	}
	return nil
}

// listAll drives offset pagination over a listing endpoint and returns the
// full concatenation in fetch order.
func listAll[T any](ctx context.Context, c *Client, path string, values url.Values, key string) ([]T, error) {
	fetch := func(ctx context.Context, offset, limit int) ([]T, int, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(limit))

		env := &listEnvelope[T]{key: key}
		if err := c.http.Get(ctx, withQuery(path, q), env); err != nil {
			return nil, 0, err
		}

		// A few endpoints omit total_count and return everything at once.
		total := env.total
		if total == 0 {
			total = len(env.items)
		}
		return env.items, total, nil
	}

	return rmhttp.NewPageIterator(fetch, c.pageSize).All(ctx)
}
