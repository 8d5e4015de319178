package microsoft

import (
	"context"

	"golang.org/x/time/rate"
)

// ServiceType identifies a Microsoft Graph API service for rate limiting purposes.
type ServiceType string

const (
	// ServiceOutlook is the Outlook Mail API service.
	ServiceOutlook ServiceType = "outlook"
	// ServiceCalendar is the Microsoft Calendar API service.
	ServiceCalendar ServiceType = "calendar"
)

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults for each Microsoft service.
// Microsoft Graph allows ~10,000 requests per 10 minutes (~16.67/sec).
// We use conservative limits to avoid hitting quotas.
var DefaultRateLimits = map[ServiceType]RateLimitConfig{
	ServiceOutlook:  {RequestsPerSecond: 10.0, BurstSize: 15},
	ServiceCalendar: {RequestsPerSecond: 10.0, BurstSize: 15},
}

// RateLimiter paces Microsoft Graph API requests with a token bucket. It does
// not retry or back off on 429 responses; a throttled request surfaces as an
// error to the caller.
type RateLimiter struct {
	limiter *rate.Limiter
	service ServiceType
}

// NewRateLimiter creates a new rate limiter for the specified service.
func NewRateLimiter(service ServiceType) *RateLimiter {
	cfg, ok := DefaultRateLimits[service]
	if !ok {
		// Default fallback
		cfg = RateLimitConfig{RequestsPerSecond: 10.0, BurstSize: 15}
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		service: service,
	}
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow checks if a request can be made immediately without blocking.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
