package ddg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the DuckDuckGo Instant Answer API endpoint
const DefaultBaseURL = "https://api.duckduckgo.com/"

// ErrEmptyQuery is returned when asked to look up nothing
var ErrEmptyQuery = errors.New("empty query")

// Getter retrieves the body of a URL
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Options configures the API request parameters
type Options struct {
	BaseURL      string
	AppName      string // sent as the "t" parameter
	NoHTML       bool   // strip HTML from text fields
	SkipDisambig bool   // ask the API not to return disambiguation results
}

// Client queries the Instant Answer API
type Client struct {
	getter Getter
	opts   Options
}

// NewClient creates a new Instant Answer API client
func NewClient(getter Getter, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	return &Client{getter: getter, opts: opts}
}

// Query looks up query and parses the XML response
func (c *Client) Query(ctx context.Context, query string) (*Results, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	queryURL, err := c.QueryURL(query)
	if err != nil {
		return nil, err
	}

	body, err := c.getter.Get(ctx, queryURL)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}

	results, err := ParseResults(body)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return results, nil
}

// Detail fetches the extended representation of a related topic page and
// parses it like an API response. It is used to resolve disambiguations.
func (c *Client) Detail(ctx context.Context, topicURL string) (*Results, error) {
	detailURL, err := DetailURL(topicURL)
	if err != nil {
		return nil, err
	}

	body, err := c.getter.Get(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("detail %s: %w", detailURL, err)
	}

	return ParseResults(body)
}

// QueryURL builds the API URL for query
func (c *Client) QueryURL(query string) (string, error) {
	u, err := url.Parse(c.opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("o", "x")
	params.Set("no_redirect", "1")
	if c.opts.AppName != "" {
		params.Set("t", c.opts.AppName)
	}
	if c.opts.NoHTML {
		params.Set("no_html", "1")
	}
	if c.opts.SkipDisambig {
		params.Set("d", "1")
	}
	u.RawQuery = params.Encode()

	return u.String(), nil
}

// DetailURL appends the XML output parameter to a topic URL
func DetailURL(topicURL string) (string, error) {
	u, err := url.Parse(topicURL)
	if err != nil {
		return "", fmt.Errorf("parse topic URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parse topic URL: %q is not absolute", topicURL)
	}

	q := u.Query()
	q.Set("o", "x")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
