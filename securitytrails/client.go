// Package securitytrails is a minimal client for the SecurityTrails API,
// covering the two endpoints needed for subdomain enumeration: the flat
// per-domain subdomain listing and the paginated domain search.
package securitytrails

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultBaseURL   = "https://api.securitytrails.com/v1"
	DefaultPageSize  = 100
	DefaultUserAgent = "subenum/1.0"

	// Retry budget for rate-limit (429), server error and transport
	// failures. Non-retryable statuses fail on the first attempt.
	MaxRetries    = 3
	MinRetryDelay = 1 * time.Second
	MaxRetryDelay = 10 * time.Second

	// AttemptTimeout bounds a single HTTP attempt. A timed out attempt
	// counts as a transient failure and is retried.
	AttemptTimeout = 15 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize int64 = 4 * 1024 * 1024
)

type Client struct {
	apiKey    string
	baseURL   string
	pageSize  int
	userAgent string
	http      *retryablehttp.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithPageSize(size int) Option {
	return func(c *Client) {
		c.pageSize = size
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryWait overrides the backoff delay bounds. Mostly useful for
// tests which should not sleep for real.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = min
		c.http.RetryWaitMax = max
	}
}

func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Transport: cleanhttp.DefaultPooledTransport(),
		Timeout:   AttemptTimeout,
	}
	rc.RetryMax = MaxRetries
	rc.RetryWaitMin = MinRetryDelay
	rc.RetryWaitMax = MaxRetryDelay
	rc.Logger = log.Default()
	rc.ErrorHandler = giveUpHandler

	c := &Client{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		pageSize:  DefaultPageSize,
		userAgent: DefaultUserAgent,
		http:      rc,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// giveUpHandler converts an exhausted retry budget into an API error
// carrying the last observed status.
func giveUpHandler(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		cleanupBody(resp.Body)
		return nil, &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("still failing after %d attempts", attempts),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, err)
	}
	return nil, fmt.Errorf("request failed after %d attempts", attempts)
}

// ListSubdomains retrieves the flat list of subdomain labels known for
// a domain. Labels come back without the apex part ("www", "api", ...).
func (c *Client) ListSubdomains(ctx context.Context, domain string) ([]string, error) {
	var out struct {
		Subdomains []string `json:"subdomains"`
	}

	path := "/domain/" + url.PathEscape(domain) + "/subdomains"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out.Subdomains, nil
}

// SearchPage is one page of domain search results.
type SearchPage struct {
	Hostnames []string
	// NextCursor requests the next page when passed to SearchDomains.
	// Empty means the last page has been reached.
	NextCursor string
}

// SearchDomains fetches one page of hostnames under the given apex
// domain. Pass an empty cursor for the first page and the NextCursor of
// the previous page afterwards.
func (c *Client) SearchDomains(ctx context.Context, domain, cursor string) (*SearchPage, error) {
	type searchFilter struct {
		ApexDomain string `json:"apex_domain"`
	}
	body := struct {
		Filter   searchFilter `json:"filter"`
		Limit    int          `json:"limit"`
		ScrollID string       `json:"scroll_id,omitempty"`
	}{
		Filter:   searchFilter{ApexDomain: domain},
		Limit:    c.pageSize,
		ScrollID: cursor,
	}

	var out struct {
		Records []struct {
			Hostname string `json:"hostname"`
		} `json:"records"`
		Meta struct {
			ScrollID string `json:"scroll_id"`
		} `json:"meta"`
	}

	if err := c.do(ctx, http.MethodPost, "/domains/list", body, &out); err != nil {
		return nil, err
	}

	page := &SearchPage{
		Hostnames:  make([]string, 0, len(out.Records)),
		NextCursor: out.Meta.ScrollID,
	}
	for _, rec := range out.Records {
		if rec.Hostname != "" {
			page.Hostnames = append(page.Hostnames, rec.Hostname)
		}
	}

	return page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var rawBody []byte
	if body != nil {
		var err error
		rawBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode request body: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, rawBody)
	if err != nil {
		return fmt.Errorf("unable to construct request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("APIKEY", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	if rawBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer cleanupBody(resp.Body)

	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("unable to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    apiMessage(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unable to decode response body: %w", err)
	}

	return nil
}

// apiMessage extracts the "message" field SecurityTrails puts into
// error bodies, falling back to the trimmed body itself.
func apiMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return string(bytes.TrimSpace(data))
}

// Does cleanup of HTTP response in order to make it reusable by
// keep-alive logic of HTTP client
func cleanupBody(body io.ReadCloser) {
	io.Copy(ioutil.Discard, &io.LimitedReader{
		R: body,
		N: maxBodySize,
	})
	body.Close()
}
