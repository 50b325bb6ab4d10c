// internal/storage/archive/exporter.go
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tomaskal/hermes/internal/storage/chat"
)

// Exporter snapshots chat accounting records into cold storage as
// JSON-lines files, one file per export run.
type Exporter struct {
	store   chat.Store
	backend Backend
}

// NewExporter creates a new exporter.
func NewExporter(store chat.Store, backend Backend) *Exporter {
	return &Exporter{store: store, backend: backend}
}

// Export writes all records between from and to (inclusive, zero means
// unbounded) to the backend and returns the archive path and the number
// of records written.
func (e *Exporter) Export(ctx context.Context, from, to time.Time) (string, int, error) {
	records, err := e.store.List(ctx, chat.ListFilter{From: from, To: to})
	if err != nil {
		return "", 0, fmt.Errorf("listing records: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return "", 0, fmt.Errorf("encoding record %s: %w", r.ID, err)
		}
	}

	path := fmt.Sprintf("chats/%s.jsonl", time.Now().UTC().Format("2006-01-02T15-04-05"))
	if err := e.backend.Write(ctx, path, buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("writing archive: %w", err)
	}

	return path, len(records), nil
}
