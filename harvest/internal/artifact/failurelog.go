package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hazyhaar/msaharvest/genelist"
)

// FailureRecord is one terminally failed gene. Records are append-only
// for the lifetime of a run.
type FailureRecord struct {
	Gene      string `json:"gene"`
	ID        string `json:"id"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// FailureLog persists FailureRecords as a single JSON document. Each
// append re-reads the existing document, pushes the new record, and
// rewrites the whole file, so the log survives across runs and stays
// valid JSON even if the process dies between appends.
type FailureLog struct {
	path string
}

// NewFailureLog creates a FailureLog writing to path.
func NewFailureLog(path string) *FailureLog {
	return &FailureLog{path: path}
}

// Path returns the log location.
func (l *FailureLog) Path() string { return l.path }

// Append adds a record for gene with the given error text.
func (l *FailureLog) Append(gene genelist.Gene, errText string) error {
	records, err := l.Read()
	if err != nil {
		return err
	}
	records = append(records, FailureRecord{
		Gene:      gene.Name,
		ID:        gene.ID,
		Error:     errText,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal failure log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write failure log %s: %w", l.path, err)
	}
	return nil
}

// Read returns all records, or an empty slice when the log does not
// exist yet.
func (l *FailureLog) Read() ([]FailureRecord, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: read failure log %s: %w", l.path, err)
	}
	var records []FailureRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("artifact: parse failure log %s: %w", l.path, err)
	}
	return records, nil
}

// Len returns the current record count, zero when unreadable.
func (l *FailureLog) Len() int {
	records, err := l.Read()
	if err != nil {
		return 0
	}
	return len(records)
}
