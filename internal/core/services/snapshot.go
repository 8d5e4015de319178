// Package services contains the snapshot orchestration.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/export"
	"github.com/graphsnap/graphsnap/internal/history"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// Authenticator acquires a bearer token for the run.
type Authenticator interface {
	Authenticate(ctx context.Context) (domain.AccessToken, error)
}

// MailFetcher retrieves inbox and sent mail.
type MailFetcher interface {
	FetchInbox(ctx context.Context, token domain.AccessToken) ([]domain.Record, error)
	FetchSent(ctx context.Context, token domain.AccessToken) ([]domain.Record, error)
}

// EventFetcher retrieves calendar events.
type EventFetcher interface {
	FetchEvents(ctx context.Context, token domain.AccessToken) ([]domain.Record, error)
}

// RunRecorder persists completed runs. Optional; best-effort.
type RunRecorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Snapshotter runs the snapshot pipeline: authenticate, fetch the three
// collections sequentially, export the bundle, record the run. Each step is
// fail-fast; no partial output file is written when a fetch fails.
type Snapshotter struct {
	auth     Authenticator
	mail     MailFetcher
	events   EventFetcher
	recorder RunRecorder
}

// NewSnapshotter creates a snapshot service. recorder may be nil when run
// history is disabled.
func NewSnapshotter(auth Authenticator, mail MailFetcher, events EventFetcher, recorder RunRecorder) *Snapshotter {
	return &Snapshotter{
		auth:     auth,
		mail:     mail,
		events:   events,
		recorder: recorder,
	}
}

// Run executes one snapshot and writes the bundle to outputPath. The token is
// acquired once and threaded through every fetch; it never outlives the run.
func (s *Snapshotter) Run(ctx context.Context, outputPath string) (*domain.Bundle, error) {
	runID := uuid.NewString()
	startedAt := time.Now()

	logger.Debug("snapshot %s: starting", runID)

	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	logger.Info("authentication successful")

	inbox, err := s.mail.FetchInbox(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}
	logger.Info("retrieved %d inbox emails", len(inbox))

	sent, err := s.mail.FetchSent(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch sent: %w", err)
	}
	logger.Info("retrieved %d sent emails", len(sent))

	events, err := s.events.FetchEvents(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	logger.Info("retrieved %d calendar events", len(events))

	bundle := export.BuildBundle(inbox, sent, events, time.Now())
	if err := export.WriteFile(bundle, outputPath); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	if s.recorder != nil {
		run := history.Run{
			ID:            runID,
			StartedAt:     startedAt,
			FinishedAt:    time.Now(),
			InboxCount:    bundle.TotalItems.InboxEmails,
			SentCount:     bundle.TotalItems.SentEmails,
			CalendarCount: bundle.TotalItems.CalendarEvents,
			OutputPath:    outputPath,
		}
		if err := s.recorder.Record(ctx, run); err != nil {
			logger.Warn("snapshot %s: failed to record run history: %v", runID, err)
		}
	}

	logger.Debug("snapshot %s: complete", runID)

	return bundle, nil
}
