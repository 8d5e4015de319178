package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsnap/graphsnap/internal/core/domain"
)

func testToken() domain.AccessToken {
	return domain.AccessToken{Value: "test-token", AcquiredAt: time.Now()}
}

// pageServer serves numPages pages of itemsPerPage records each, linking each
// page to the next via @odata.nextLink.
func pageServer(t *testing.T, numPages, itemsPerPage int, requests *atomic.Int64) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			fmt.Sscanf(p, "%d", &page)
		}

		var items []map[string]any
		for i := 0; i < itemsPerPage; i++ {
			items = append(items, map[string]any{
				"id": fmt.Sprintf("item-%d-%d", page, i),
			})
		}

		body := map[string]any{"value": items}
		if page < numPages {
			body["@odata.nextLink"] = fmt.Sprintf("%s/page?page=%d", server.URL, page+1)
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	return server
}

func recordIDs(t *testing.T, records []domain.Record) []string {
	t.Helper()

	ids := make([]string, 0, len(records))
	for _, raw := range records {
		var item struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(raw, &item))
		ids = append(ids, item.ID)
	}
	return ids
}

func TestPager_All_MultiplePages(t *testing.T) {
	var requests atomic.Int64
	server := pageServer(t, 3, 2, &requests)
	defer server.Close()

	client := NewClientWithBaseURL(ServiceOutlook, server.URL)
	pager := client.NewPager(testToken(), server.URL+"/page")

	records, err := pager.All(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 6)
	assert.EqualValues(t, 3, requests.Load())
	// Page order then within-page order is preserved
	assert.Equal(t, []string{
		"item-1-0", "item-1-1",
		"item-2-0", "item-2-1",
		"item-3-0", "item-3-1",
	}, recordIDs(t, records))
	assert.False(t, pager.More())
}

func TestPager_All_SinglePage(t *testing.T) {
	var requests atomic.Int64
	server := pageServer(t, 1, 3, &requests)
	defer server.Close()

	client := NewClientWithBaseURL(ServiceOutlook, server.URL)
	records, err := client.NewPager(testToken(), server.URL+"/page").All(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.EqualValues(t, 1, requests.Load())
}

func TestPager_All_EmptyCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(ServiceCalendar, server.URL)
	records, err := client.NewPager(testToken(), server.URL+"/me/events").All(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPager_All_SecondPageFails(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": {"code": "internalServerError"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"value": [{"id": "item-1"}], "@odata.nextLink": %q}`, server.URL+"/page?page=2")
	}))
	defer server.Close()

	client := NewClientWithBaseURL(ServiceOutlook, server.URL)
	records, err := client.NewPager(testToken(), server.URL+"/page").All(context.Background())

	// All-or-nothing: the first page's records are discarded
	require.Error(t, err)
	assert.Nil(t, records)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.ErrorIs(t, err, ErrServerError)
}

func TestPager_NoToken_NoNetworkCall(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(ServiceOutlook, server.URL)
	records, err := client.NewPager(domain.AccessToken{}, server.URL+"/page").All(context.Background())

	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrNoToken)
	assert.EqualValues(t, 0, requests.Load(), "no network call may be made without a token")
}

func TestPager_Next_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   error
	}{
		{
			name:       "unauthorised",
			statusCode: http.StatusUnauthorized,
			expected:   ErrUnauthorised,
		},
		{
			name:       "forbidden",
			statusCode: http.StatusForbidden,
			expected:   ErrForbidden,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			expected:   ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewClientWithBaseURL(ServiceOutlook, server.URL)
			_, err := client.NewPager(testToken(), server.URL+"/page").Next(context.Background())

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPager_Next_MalformedPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(ServiceOutlook, server.URL)
	_, err := client.NewPager(testToken(), server.URL+"/page").Next(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestPager_NotRestartableAfterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(ServiceOutlook, server.URL)
	pager := client.NewPager(testToken(), server.URL+"/page")

	_, err := pager.Next(context.Background())
	require.Error(t, err)

	assert.False(t, pager.More())
}
