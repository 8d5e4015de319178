package domain

import (
	"encoding/json"
	"time"
)

// Record is one email message or calendar event as returned by Microsoft
// Graph. Records are opaque to graphsnap: the raw JSON is carried through to
// the export untouched, field order and all.
type Record = json.RawMessage

// Totals holds per-collection record counts for a snapshot run.
type Totals struct {
	InboxEmails    int `json:"inbox_emails"`
	SentEmails     int `json:"sent_emails"`
	CalendarEvents int `json:"calendar_events"`
}

// Bundle is the exported snapshot document: everything retrieved in one run
// plus counts and the retrieval timestamp. Built once per run, written once.
type Bundle struct {
	RetrievalTimestamp time.Time `json:"retrieval_timestamp"`
	TotalItems         Totals    `json:"total_items"`
	InboxEmails        []Record  `json:"inbox_emails"`
	SentEmails         []Record  `json:"sent_emails"`
	CalendarEvents     []Record  `json:"calendar_events"`
}
