package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// collectionPage is one page of a Graph collection response.
type collectionPage struct {
	Value    []domain.Record `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// Pager walks a paginated Graph collection page by page, following
// @odata.nextLink until a response omits it. It is a finite, forward-only
// sequence: once exhausted or failed it cannot be restarted.
type Pager struct {
	client *Client
	token  domain.AccessToken
	next   string
	failed bool
}

// More reports whether another page remains to be fetched.
func (p *Pager) More() bool {
	return p.next != "" && !p.failed
}

// Next fetches the next page and returns its records in receipt order.
// It fails immediately with domain.ErrNoToken if no token was acquired,
// without issuing a network call.
func (p *Pager) Next(ctx context.Context) ([]domain.Record, error) {
	if p.token.IsZero() {
		p.failed = true
		return nil, domain.ErrNoToken
	}
	if !p.More() {
		return nil, nil
	}

	url := p.next

	if err := p.client.limiter.Wait(ctx); err != nil {
		p.failed = true
		return nil, err
	}

	logger.Debug("microsoft: fetching page: %s", url)

	resp, err := p.client.doRequest(ctx, url, p.token.Value)
	if err != nil {
		p.failed = true
		return nil, &domain.FetchError{URL: url, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		p.failed = true
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	logger.Debug("microsoft: page response status %d, body length %d", resp.StatusCode, len(body))

	if resp.StatusCode != http.StatusOK {
		p.failed = true
		return nil, &domain.FetchError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(body),
			Err:        WrapError(resp.StatusCode),
		}
	}

	var page collectionPage
	if err := json.Unmarshal(body, &page); err != nil {
		p.failed = true
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("decode page: %w", err)}
	}

	logger.Debug("microsoft: retrieved %d items, hasNextLink=%v", len(page.Value), page.NextLink != "")

	p.next = page.NextLink
	return page.Value, nil
}

// All drains the pager and returns every record across all pages, preserving
// page order and within-page order. Any page failure discards records already
// accumulated; the result is all-or-nothing.
func (p *Pager) All(ctx context.Context) ([]domain.Record, error) {
	var all []domain.Record
	for p.More() {
		records, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}
