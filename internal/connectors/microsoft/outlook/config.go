package outlook

// maxPageSize is the Microsoft Graph maximum page size.
const maxPageSize = 1000

// Config holds Outlook mail fetch configuration.
type Config struct {
	// InboxKeyword filters inbox messages to those whose subject contains
	// the keyword. Empty disables the filter. Sent mail is never filtered.
	InboxKeyword string
	// MaxResults is the page size for API requests (default: 100, max: 1000).
	MaxResults int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		InboxKeyword: "wisp",
		MaxResults:   100,
	}
}

// NewConfig builds a Config, applying defaults and clamping the page size to
// the Graph maximum.
func NewConfig(inboxKeyword string, maxResults int64) *Config {
	cfg := DefaultConfig()
	cfg.InboxKeyword = inboxKeyword
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	if cfg.MaxResults > maxPageSize {
		cfg.MaxResults = maxPageSize
	}
	return cfg
}
