// internal/storage/chat/sqlite_test.go
package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomaskal/hermes/internal/core"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	record := core.AccountingRecord{
		ID:         "req-1",
		User:       "alice",
		Prompt:     "write a story",
		Response:   "once upon a time",
		Provider:   core.ProviderAnthropic,
		TokensUsed: 17,
		Cost:       0.0001,
		Timestamp:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Append(ctx, record))

	records, err := store.List(ctx, ListFilter{User: "alice"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Prompt, got.Prompt)
	assert.Equal(t, record.Response, got.Response)
	assert.Equal(t, core.ProviderAnthropic, got.Provider)
	assert.Equal(t, 17, got.TokensUsed)
	assert.InDelta(t, 0.0001, got.Cost, 1e-12)
	assert.True(t, record.Timestamp.Equal(got.Timestamp))
}

func TestSQLiteStore_Aggregate(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, core.AccountingRecord{
			User:       "alice",
			Provider:   core.ProviderOpenAI,
			TokensUsed: 100,
			Cost:       0.0002,
			Timestamp:  time.Now(),
		}))
	}

	agg, err := store.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.TotalChats)
	assert.Equal(t, 300, agg.TotalTokens)
	assert.InDelta(t, 0.0006, agg.TotalCost, 1e-12)
}

func TestSQLiteStore_AggregateEmpty(t *testing.T) {
	store := newTestSQLite(t)

	agg, err := store.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Aggregate{}, agg)
}

func TestSQLiteStore_ListOrderedAndFiltered(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, provider := range []core.ProviderName{core.ProviderGoogle, core.ProviderOpenAI, core.ProviderOpenAI} {
		require.NoError(t, store.Append(ctx, core.AccountingRecord{
			User:      "alice",
			Provider:  provider,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.List(ctx, ListFilter{Provider: core.ProviderOpenAI})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Timestamp.Before(records[1].Timestamp))

	windowed, err := store.List(ctx, ListFilter{From: base.Add(30 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)
}
