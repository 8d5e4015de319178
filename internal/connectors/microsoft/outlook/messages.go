// Package outlook fetches mail from Microsoft Outlook via Microsoft Graph.
package outlook

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/graphsnap/graphsnap/internal/connectors/microsoft"
	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// Fields requested per message. Kept narrow so pages stay small; the body
// preview stands in for the full body.
const (
	inboxSelect = "id,subject,from,toRecipients,receivedDateTime,bodyPreview,importance,isRead"
	sentSelect  = "id,subject,from,toRecipients,sentDateTime,bodyPreview,importance"
)

// Fetcher retrieves inbox and sent mail through a Graph client.
type Fetcher struct {
	client *microsoft.Client
	config *Config
}

// New creates a new Outlook mail fetcher.
func New(client *microsoft.Client, cfg *Config) *Fetcher {
	return &Fetcher{
		client: client,
		config: cfg,
	}
}

// FetchInbox retrieves inbox messages, filtered by subject keyword when one
// is configured. Records are returned in the provider's order.
func (f *Fetcher) FetchInbox(ctx context.Context, token domain.AccessToken) ([]domain.Record, error) {
	query := url.Values{}
	if kw := f.config.InboxKeyword; kw != "" {
		query.Set("$filter", fmt.Sprintf("contains(subject, '%s')", escapeODataLiteral(kw)))
	}
	query.Set("$select", inboxSelect)
	query.Set("$orderby", "receivedDateTime desc")
	query.Set("$top", strconv.FormatInt(f.config.MaxResults, 10))

	logger.Debug("outlook: fetching inbox messages (keyword %q)", f.config.InboxKeyword)

	requestURL := f.client.BaseURL() + "/me/messages?" + query.Encode()
	return f.client.NewPager(token, requestURL).All(ctx)
}

// FetchSent retrieves messages from the Sent Items folder.
func (f *Fetcher) FetchSent(ctx context.Context, token domain.AccessToken) ([]domain.Record, error) {
	query := url.Values{}
	query.Set("$select", sentSelect)
	query.Set("$orderby", "sentDateTime desc")
	query.Set("$top", strconv.FormatInt(f.config.MaxResults, 10))

	logger.Debug("outlook: fetching sent messages")

	requestURL := f.client.BaseURL() + "/me/mailFolders('sentitems')/messages?" + query.Encode()
	return f.client.NewPager(token, requestURL).All(ctx)
}

// escapeODataLiteral escapes a string for embedding in an OData filter
// literal. Single quotes are doubled, as OData requires.
func escapeODataLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
