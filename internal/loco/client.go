// Package loco talks to the Loco export API.
package loco

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultEndpoint is the Loco API host.
	DefaultEndpoint = "https://localise.biz"

	// ExportPath exports every locale of the project in one JSON document.
	ExportPath = "/api/export/all.json"

	authScheme = "Loco"
)

// Query holds the optional export parameters.
type Query struct {
	Fallback string
	// Filter is sent as a single comma-joined parameter.
	Filter []string
}

// Values encodes the query. Unset fields are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Fallback != "" {
		v.Set("fallback", q.Fallback)
	}
	if len(q.Filter) > 0 {
		v.Set("filter", strings.Join(q.Filter, ","))
	}
	return v
}

// Client fetches exports for a single project key.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithEndpoint points the client at another host, e.g. a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *resty.Client) { c.SetBaseURL(endpoint) }
}

// WithTimeout bounds each request. Zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithLogger routes resty's own warnings into logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *resty.Client) { c.SetLogger(restyLogger{logger}) }
}

// NewClient returns a client authenticating with token.
func NewClient(token string, opts ...Option) *Client {
	c := resty.New().
		SetBaseURL(DefaultEndpoint).
		SetAuthScheme(authScheme).
		SetAuthToken(token)
	for _, opt := range opts {
		opt(c)
	}
	return &Client{http: c}
}

// URL returns the full export URL for q, as it would be requested.
func (c *Client) URL(q Query) string {
	u := strings.TrimRight(c.http.BaseURL, "/") + ExportPath
	if v := q.Values(); len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}

// Export performs the export request and returns the raw response body.
// Transport failures and non-2xx statuses come back as *FetchError.
func (c *Client) Export(ctx context.Context, q Query) ([]byte, error) {
	target := c.URL(q)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(q.Values()).
		Get(ExportPath)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	if resp.IsError() {
		return nil, &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}
	return resp.Body(), nil
}

type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
