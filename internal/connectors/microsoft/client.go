package microsoft

import (
	"context"
	"net/http"
	"time"

	"github.com/graphsnap/graphsnap/internal/core/domain"
)

// GraphBaseURL is the Microsoft Graph API base URL.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// Client issues authenticated requests against Microsoft Graph. One client is
// created per service so each carries its own rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewClient creates a Graph client for the given service.
func NewClient(service ServiceType) *Client {
	return &Client{
		baseURL:    GraphBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    NewRateLimiter(service),
	}
}

// NewClientWithBaseURL creates a Graph client pointed at a custom base URL.
// Used by tests to target a mock server.
func NewClientWithBaseURL(service ServiceType, baseURL string) *Client {
	c := NewClient(service)
	c.baseURL = baseURL
	return c
}

// BaseURL returns the Graph API base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP GET request with authentication.
func (c *Client) doRequest(ctx context.Context, url, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// NewPager returns a pager over the collection at url, authorised with token.
func (c *Client) NewPager(token domain.AccessToken, url string) *Pager {
	return &Pager{
		client: c,
		token:  token,
		next:   url,
	}
}
