package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/nate2211/github-analytics/internal/errors"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "github-analytics"
	apiVersion     = "2022-11-28"
	acceptJSON     = "application/vnd.github+json"

	requestTimeout = 20 * time.Second
	maxErrorBody   = 4000
)

// Client is a minimal GitHub REST client. Public endpoints work without a
// token; the traffic endpoints require one.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. A non-empty token is attached as a bearer
// authorization header on every request.
func NewClient(token string) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{Source: ts}
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// GetJSON issues a GET against path (relative to the API base) and decodes
// the response body into v. Response headers are returned for callers that
// read pagination hints.
func (c *Client) GetJSON(ctx context.Context, path string, v interface{}) (http.Header, error) {
	return c.getJSON(ctx, path, acceptJSON, v)
}

func (c *Client) getJSON(ctx context.Context, path, accept string, v interface{}) (http.Header, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	// recommended by GitHub docs for REST versioning
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &apperrors.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(body),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.TransportError{URL: url, Err: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, &apperrors.TransportError{URL: url, Err: err}
	}
	return resp.Header, nil
}
