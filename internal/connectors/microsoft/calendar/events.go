// Package calendar fetches events from Microsoft Calendar via Microsoft Graph.
package calendar

import (
	"context"
	"net/url"
	"strconv"

	"github.com/graphsnap/graphsnap/internal/connectors/microsoft"
	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// eventSelect lists the fields requested per event.
const eventSelect = "id,subject,start,end,location,bodyPreview,importance,isAllDay,recurrence"

// maxPageSize is the Microsoft Graph maximum page size.
const maxPageSize = 1000

// Config holds calendar fetch configuration.
type Config struct {
	// MaxResults is the page size for API requests (default: 100, max: 1000).
	MaxResults int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{MaxResults: 100}
}

// NewConfig builds a Config, applying defaults and clamping the page size.
func NewConfig(maxResults int64) *Config {
	cfg := DefaultConfig()
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	if cfg.MaxResults > maxPageSize {
		cfg.MaxResults = maxPageSize
	}
	return cfg
}

// Fetcher retrieves calendar events through a Graph client.
type Fetcher struct {
	client *microsoft.Client
	config *Config
}

// New creates a new calendar fetcher.
func New(client *microsoft.Client, cfg *Config) *Fetcher {
	return &Fetcher{
		client: client,
		config: cfg,
	}
}

// FetchEvents retrieves the user's calendar events in the provider's order.
func (f *Fetcher) FetchEvents(ctx context.Context, token domain.AccessToken) ([]domain.Record, error) {
	query := url.Values{}
	query.Set("$select", eventSelect)
	query.Set("$orderby", "start/dateTime desc")
	query.Set("$top", strconv.FormatInt(f.config.MaxResults, 10))

	logger.Debug("calendar: fetching events")

	requestURL := f.client.BaseURL() + "/me/events?" + query.Encode()
	return f.client.NewPager(token, requestURL).All(ctx)
}
