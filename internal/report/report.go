// Package report flattens an exported snapshot bundle into a CSV table with
// one row per email or calendar event.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/graphsnap/graphsnap/internal/core/domain"
	"github.com/graphsnap/graphsnap/internal/logger"
)

// Record types used in the record_type column.
const (
	TypeInbox = "inbox"
	TypeSent  = "sent"
	TypeEvent = "event"
)

// summaryWords caps the number of body words included in the summary column.
const summaryWords = 50

// Row is one flattened record.
type Row struct {
	ID                 string
	RecordType         string
	SenderName         string
	SenderAddress      string
	RecipientNames     string
	RecipientAddresses string
	Subject            string
	Date               string
	BodyContent        string
	HasAttachment      bool
	AttachmentNames    string
	IsFlagged          bool
	CommunicationFlow  string
	Summary            string
}

// header lists the CSV columns in output order.
var header = []string{
	"id", "record_type", "sender_name", "sender_address",
	"recipient_names", "recipient_addresses", "subject", "date",
	"body_content", "has_attachment", "attachment_names", "is_flagged",
	"communication_flow", "summary",
}

// Flatten converts a bundle into rows, one per record, in bundle order.
// Records that repeat an id are dropped, keeping the first occurrence.
func Flatten(bundle *domain.Bundle) []Row {
	var rows []Row
	seen := make(map[string]bool)

	appendRecords := func(records []domain.Record, recordType string) {
		for _, raw := range records {
			row, ok := flattenRecord(raw, recordType)
			if !ok {
				continue
			}
			if row.ID != "" {
				if seen[row.ID] {
					continue
				}
				seen[row.ID] = true
			}
			rows = append(rows, row)
		}
	}

	appendRecords(bundle.InboxEmails, TypeInbox)
	appendRecords(bundle.SentEmails, TypeSent)
	appendRecords(bundle.CalendarEvents, TypeEvent)

	return rows
}

// flattenRecord extracts the tabular fields from one raw record.
func flattenRecord(raw domain.Record, recordType string) (Row, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		logger.Warn("report: skipping undecodable %s record: %v", recordType, err)
		return Row{}, false
	}

	row := Row{
		ID:         stringField(fields, "id"),
		RecordType: recordType,
		Subject:    stringField(fields, "subject"),
		Date:       extractDate(fields),
	}

	row.SenderName, row.SenderAddress = extractSender(fields)
	row.RecipientNames, row.RecipientAddresses = extractRecipients(fields)
	row.BodyContent = extractBody(fields)
	row.HasAttachment, _ = fields["hasAttachments"].(bool)
	row.AttachmentNames = strings.Join(extractAttachmentNames(fields), "; ")
	row.IsFlagged = extractIsFlagged(fields)

	if row.Subject == "" {
		row.Subject = "(no subject)"
	}

	sender := row.SenderName
	if sender == "" {
		sender = row.SenderAddress
	}
	recipient := row.RecipientNames
	if recipient == "" {
		recipient = row.RecipientAddresses
	}
	row.CommunicationFlow = strings.TrimSpace(fmt.Sprintf("From: %s To: %s", sender, recipient))

	row.Summary = strings.TrimSpace(row.Subject)
	if snippet := firstNWords(row.BodyContent, summaryWords); snippet != "" {
		row.Summary = strings.TrimSpace(row.Summary + " | " + snippet)
	}

	return row, true
}

// WriteCSV writes the rows as CSV to path, header first.
func WriteCSV(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ID, row.RecordType, row.SenderName, row.SenderAddress,
			row.RecipientNames, row.RecipientAddresses, row.Subject, row.Date,
			row.BodyContent, strconv.FormatBool(row.HasAttachment),
			row.AttachmentNames, strconv.FormatBool(row.IsFlagged),
			row.CommunicationFlow, row.Summary,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Process reads an exported bundle from inputPath and writes the flattened
// CSV to outputPath.
func Process(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	var bundle domain.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("decode bundle: %w", err)
	}

	rows := Flatten(&bundle)
	if err := WriteCSV(rows, outputPath); err != nil {
		return err
	}

	logger.Info("processed %d rows to %s", len(rows), outputPath)
	return nil
}

// stringField returns fields[key] as a string, or "".
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// extractSender pulls the sender name and address. Emails carry "from",
// events carry "organizer"; both wrap an emailAddress object.
func extractSender(fields map[string]any) (string, string) {
	for _, key := range []string{"from", "organizer"} {
		if entity, ok := fields[key].(map[string]any); ok {
			return emailNameAddress(entity)
		}
	}
	return "", ""
}

// extractRecipients pulls recipient names and addresses. Emails carry
// "toRecipients", events carry "attendees".
func extractRecipients(fields map[string]any) (string, string) {
	var list []any
	if v, ok := fields["toRecipients"].([]any); ok {
		list = v
	} else if v, ok := fields["attendees"].([]any); ok {
		list = v
	}

	var names, addresses []string
	for _, item := range list {
		entity, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, address := emailNameAddress(entity)
		if name != "" {
			names = append(names, name)
		}
		if address != "" {
			addresses = append(addresses, address)
		}
	}
	return strings.Join(names, "; "), strings.Join(addresses, "; ")
}

// emailNameAddress unwraps a Graph emailAddress object.
func emailNameAddress(entity map[string]any) (string, string) {
	info := entity
	if inner, ok := entity["emailAddress"].(map[string]any); ok {
		info = inner
	}
	name, _ := info["name"].(string)
	address, _ := info["address"].(string)
	return name, address
}

// extractDate prefers receivedDateTime, then sentDateTime, then the event
// start time.
func extractDate(fields map[string]any) string {
	for _, key := range []string{"receivedDateTime", "sentDateTime"} {
		if s := stringField(fields, key); s != "" {
			return s
		}
	}
	if start, ok := fields["start"].(map[string]any); ok {
		if s, _ := start["dateTime"].(string); s != "" {
			return s
		}
	}
	return ""
}

// extractBody prefers bodyPreview, falling back to body.content.
func extractBody(fields map[string]any) string {
	if s := stringField(fields, "bodyPreview"); s != "" {
		return s
	}
	if body, ok := fields["body"].(map[string]any); ok {
		if s, _ := body["content"].(string); s != "" {
			return s
		}
	}
	return ""
}

// extractAttachmentNames collects attachment names when the record carries an
// expanded attachments list.
func extractAttachmentNames(fields map[string]any) []string {
	list, ok := fields["attachments"].([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, item := range list {
		if att, ok := item.(map[string]any); ok {
			if name, _ := att["name"].(string); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// extractIsFlagged reads the Graph flag object: {status: notFlagged |
// complete | flagged}.
func extractIsFlagged(fields map[string]any) bool {
	flag, ok := fields["flag"].(map[string]any)
	if !ok {
		return false
	}
	status, _ := flag["status"].(string)
	return strings.EqualFold(status, "flagged")
}

// firstNWords returns the first n whitespace-separated words of text.
func firstNWords(text string, n int) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
