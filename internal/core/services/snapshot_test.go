package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsnap/graphsnap/internal/connectors/microsoft"
	"github.com/graphsnap/graphsnap/internal/connectors/microsoft/calendar"
	"github.com/graphsnap/graphsnap/internal/connectors/microsoft/outlook"
	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/history"
)

// mockAuth implements Authenticator.
type mockAuth struct {
	token domain.AccessToken
	err   error
}

func (m *mockAuth) Authenticate(_ context.Context) (domain.AccessToken, error) {
	return m.token, m.err
}

// mockMail implements MailFetcher.
type mockMail struct {
	inbox    []domain.Record
	sent     []domain.Record
	inboxErr error
	sentErr  error
}

func (m *mockMail) FetchInbox(_ context.Context, _ domain.AccessToken) ([]domain.Record, error) {
	return m.inbox, m.inboxErr
}

func (m *mockMail) FetchSent(_ context.Context, _ domain.AccessToken) ([]domain.Record, error) {
	return m.sent, m.sentErr
}

// mockEvents implements EventFetcher.
type mockEvents struct {
	events []domain.Record
	err    error
}

func (m *mockEvents) FetchEvents(_ context.Context, _ domain.AccessToken) ([]domain.Record, error) {
	return m.events, m.err
}

// mockRecorder implements RunRecorder.
type mockRecorder struct {
	runs []history.Run
	err  error
}

func (m *mockRecorder) Record(_ context.Context, run history.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func validToken() domain.AccessToken {
	return domain.AccessToken{Value: "token", AcquiredAt: time.Now()}
}

func TestSnapshotter_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlook_data.json")

	recorder := &mockRecorder{}
	snapshotter := NewSnapshotter(
		&mockAuth{token: validToken()},
		&mockMail{
			inbox: []domain.Record{json.RawMessage(`{"id": "i1"}`)},
			sent:  []domain.Record{json.RawMessage(`{"id": "s1"}`), json.RawMessage(`{"id": "s2"}`)},
		},
		&mockEvents{},
		recorder,
	)

	bundle, err := snapshotter.Run(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 1, bundle.TotalItems.InboxEmails)
	assert.Equal(t, 2, bundle.TotalItems.SentEmails)
	assert.Equal(t, 0, bundle.TotalItems.CalendarEvents)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	require.Len(t, recorder.runs, 1)
	run := recorder.runs[0]
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 1, run.InboxCount)
	assert.Equal(t, 2, run.SentCount)
	assert.Equal(t, path, run.OutputPath)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestSnapshotter_Run_AuthFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlook_data.json")

	snapshotter := NewSnapshotter(
		&mockAuth{err: &domain.AuthError{StatusCode: 400, Body: "bad credentials"}},
		&mockMail{},
		&mockEvents{},
		nil,
	)

	bundle, err := snapshotter.Run(context.Background(), path)

	require.Error(t, err)
	assert.Nil(t, bundle)
	assert.True(t, strings.HasPrefix(err.Error(), "authenticate:"), "error names the failed step")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no output file on auth failure")
}

func TestSnapshotter_Run_FetchFailure_NoOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlook_data.json")

	tests := []struct {
		name     string
		mail     *mockMail
		events   *mockEvents
		wantStep string
	}{
		{
			name:     "inbox fails",
			mail:     &mockMail{inboxErr: &domain.FetchError{StatusCode: 500}},
			events:   &mockEvents{},
			wantStep: "fetch inbox:",
		},
		{
			name:     "sent fails",
			mail:     &mockMail{sentErr: &domain.FetchError{StatusCode: 500}},
			events:   &mockEvents{},
			wantStep: "fetch sent:",
		},
		{
			name:     "calendar fails",
			mail:     &mockMail{},
			events:   &mockEvents{err: &domain.FetchError{StatusCode: 500}},
			wantStep: "fetch calendar:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshotter := NewSnapshotter(&mockAuth{token: validToken()}, tt.mail, tt.events, nil)

			bundle, err := snapshotter.Run(context.Background(), path)

			require.Error(t, err)
			assert.Nil(t, bundle)
			assert.True(t, strings.HasPrefix(err.Error(), tt.wantStep))

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr), "no partial output file on fetch failure")
		})
	}
}

func TestSnapshotter_Run_RecorderFailureIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlook_data.json")

	snapshotter := NewSnapshotter(
		&mockAuth{token: validToken()},
		&mockMail{},
		&mockEvents{},
		&mockRecorder{err: errors.New("disk full")},
	)

	bundle, err := snapshotter.Run(context.Background(), path)

	require.NoError(t, err)
	assert.NotNil(t, bundle)
}

// graphFixture serves a mock token endpoint and Graph API for the end-to-end
// scenario: two inbox pages of one record each, one sent page of three
// records, one empty calendar page.
func graphFixture(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/my-tenant/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "graph-token", "token_type": "Bearer", "expires_in": 3599}`)
	})

	mux.HandleFunc("/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"value": [{"id": "inbox-2", "subject": "wisp two"}]}`)
			return
		}
		assert.Equal(t, "contains(subject, 'wisp')", r.URL.Query().Get("$filter"))
		fmt.Fprintf(w,
			`{"value": [{"id": "inbox-1", "subject": "wisp one"}], "@odata.nextLink": %q}`,
			server.URL+"/me/messages?page=2")
	})

	mux.HandleFunc("/me/mailFolders('sentitems')/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": [{"id": "sent-1"}, {"id": "sent-2"}, {"id": "sent-3"}]}`)
	})

	mux.HandleFunc("/me/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": []}`)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSnapshotter_Run_EndToEnd(t *testing.T) {
	server := graphFixture(t)
	path := filepath.Join(t.TempDir(), "outlook_data.json")

	creds := domain.Credentials{
		TenantID:     "my-tenant",
		ClientID:     "my-client",
		ClientSecret: "my-secret",
	}

	snapshotter := NewSnapshotter(
		microsoft.NewAuthenticatorWithAuthority(creds, server.URL),
		outlook.New(
			microsoft.NewClientWithBaseURL(microsoft.ServiceOutlook, server.URL),
			outlook.NewConfig("wisp", 100),
		),
		calendar.New(
			microsoft.NewClientWithBaseURL(microsoft.ServiceCalendar, server.URL),
			calendar.DefaultConfig(),
		),
		nil,
	)

	bundle, err := snapshotter.Run(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, domain.Totals{InboxEmails: 2, SentEmails: 3, CalendarEvents: 0}, bundle.TotalItems)

	// Records arrive in page-then-within-page order
	ids := func(records []domain.Record) []string {
		var out []string
		for _, raw := range records {
			var item struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal(raw, &item))
			out = append(out, item.ID)
		}
		return out
	}
	assert.Equal(t, []string{"inbox-1", "inbox-2"}, ids(bundle.InboxEmails))
	assert.Equal(t, []string{"sent-1", "sent-2", "sent-3"}, ids(bundle.SentEmails))
	assert.Empty(t, bundle.CalendarEvents)

	// The exported file matches the returned bundle
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported domain.Bundle
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, bundle.TotalItems, exported.TotalItems)
	assert.Equal(t, ids(bundle.InboxEmails), ids(exported.InboxEmails))
	assert.False(t, exported.RetrievalTimestamp.IsZero())
}
