// Package export builds and writes the snapshot bundle.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// DefaultOutputPath is where the bundle is written when no path is configured.
const DefaultOutputPath = "outlook_data.json"

// BuildBundle assembles a snapshot bundle from the three retrieved
// collections. Counts are derived from the collections; record order is
// preserved. Nil collections become empty arrays so the export always carries
// all three keys.
func BuildBundle(inbox, sent, events []domain.Record, retrievedAt time.Time) *domain.Bundle {
	if inbox == nil {
		inbox = []domain.Record{}
	}
	if sent == nil {
		sent = []domain.Record{}
	}
	if events == nil {
		events = []domain.Record{}
	}

	return &domain.Bundle{
		RetrievalTimestamp: retrievedAt,
		TotalItems: domain.Totals{
			InboxEmails:    len(inbox),
			SentEmails:     len(sent),
			CalendarEvents: len(events),
		},
		InboxEmails:    inbox,
		SentEmails:     sent,
		CalendarEvents: events,
	}
}

// WriteFile serialises the bundle as indented JSON and writes it to path,
// overwriting any existing file. Parent directories are created as needed.
func WriteFile(bundle *domain.Bundle, path string) error {
	if path == "" {
		path = DefaultOutputPath
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	logger.Info("exported %d inbox, %d sent, %d calendar records to %s",
		bundle.TotalItems.InboxEmails, bundle.TotalItems.SentEmails,
		bundle.TotalItems.CalendarEvents, path)

	return nil
}
