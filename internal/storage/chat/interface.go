// internal/storage/chat/interface.go
package chat

import (
	"context"
	"time"

	"github.com/tomaskal/hermes/internal/core"
)

// Store defines the interface for chat accounting persistence. The
// store is append-only: records are keyed by request id and never
// mutated after being written.
type Store interface {
	// Append persists an accounting record.
	Append(ctx context.Context, record core.AccountingRecord) error

	// Aggregate returns totals over all stored records.
	Aggregate(ctx context.Context) (core.Aggregate, error)

	// List retrieves records matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]core.AccountingRecord, error)
}

// ListFilter defines criteria for listing records.
type ListFilter struct {
	User     string
	Provider core.ProviderName
	From     time.Time
	To       time.Time
	Limit    int
}
