// internal/provider/gemini/gemini_test.go
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomaskal/hermes/internal/core"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := New("test-key", "gemini-pro", srv.URL)
	require.NoError(t, err)
	return a
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("", "gemini-pro", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestInvoke_NormalizesResponse(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "gemini-pro:generateContent")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "explain gravity", req.Contents[0].Parts[0].Text)

		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: "gravity pulls things down"}}}},
			},
		})
	})

	result, err := a.Invoke(context.Background(), "explain gravity")
	require.NoError(t, err)

	assert.Equal(t, "gravity pulls things down", result.Response)
	// (2 prompt + 4 completion words) * 1.3 = 7.8, rounds to 8.
	assert.Equal(t, 8, result.TokensUsed)
	assert.InDelta(t, 8*tokenRate, result.Cost, 1e-12)
	assert.Equal(t, core.ProviderGoogle, result.Provider)
}

func TestInvoke_UpstreamError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	result, err := a.Invoke(context.Background(), "explain gravity")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrProvider))
}

func TestInvoke_MalformedBody(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := a.Invoke(context.Background(), "explain gravity")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrProvider))
}
