// Package scholarone provides a digest-authenticated client for the
// ScholarOne manuscript REST API
package scholarone

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "rowboat/internal/platform/errors"
	"rowboat/internal/platform/logger"

	"github.com/icholy/digest"
)

const (
	defaultTimeout = 60 * time.Second
	defaultUA      = "rowboat-harvest"

	// bodyPreviewLimit caps error body excerpts in logs and messages
	bodyPreviewLimit = 500
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Username  string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Query carries per-request parameters alongside the endpoint
type Query struct {
	// IDs is one planned batch; nil means the no-ID request mode
	IDs []string

	// From and To bound date-window endpoints, UTC
	From time.Time
	To   time.Time
}

// Client issues GET requests against the manuscript API.
// Digest auth lives in the transport so callers never see challenges
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: o.Timeout,
			Transport: &digest.Transport{
				Username: o.Username,
				Password: o.APIKey,
			},
		},
		opts: o,
		log:  *logger.Named("scholarone"),
	}
}

// Fetch issues one GET for (endpoint, site, query) and returns the parsed
// JSON document. Non-200 responses and empty or malformed bodies map to
// upstream errors; requests are not retried
func (c *Client) Fetch(ctx context.Context, ep Endpoint, site string, q Query) (any, error) {
	u, err := url.Parse(c.opts.BaseURL + ep.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "scholarone bad url")
	}

	vals := url.Values{}
	vals.Set("_type", "json")
	vals.Set("site_name", site)
	if ep.RequiresDate {
		vals.Set("from_time", q.From.UTC().Format(time.RFC3339))
		vals.Set("to_time", q.To.UTC().Format(time.RFC3339))
	}
	if ep.IDParam != "" && q.IDs != nil {
		vals.Set(ep.IDParam, strings.Join(q.IDs, ","))
	}
	u.RawQuery = vals.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "scholarone new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "scholarone request failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error().Err(err).Msg("failed to close response body")
		}
	}()

	c.log.Debug().
		Str("endpoint", ep.Name).
		Str("site", site).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("scholarone fetch")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "scholarone read body failed")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, perr.Upstreamf("scholarone %s %s: http %d: %s",
			ep.Name, site, resp.StatusCode, preview(body))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, perr.Upstreamf("scholarone %s %s: empty body", ep.Name, site)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "scholarone non-JSON body: %s", preview(body))
	}
	return doc, nil
}

func preview(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "<no body>"
	}
	if len(s) > bodyPreviewLimit {
		return s[:bodyPreviewLimit]
	}
	return s
}
