package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordChat(t *testing.T) {
	r := NewRegistry()

	r.RecordChat("Anthropic", 17, 0.0001)
	r.RecordChat("Anthropic", 13, 0.0002)
	r.RecordChat("OpenAI", 150, 0.00025)

	if got := testutil.ToFloat64(r.chatsTotal.WithLabelValues("Anthropic")); got != 2 {
		t.Errorf("expected 2 Anthropic chats, got %f", got)
	}
	if got := testutil.ToFloat64(r.tokensTotal.WithLabelValues("Anthropic")); got != 30 {
		t.Errorf("expected 30 Anthropic tokens, got %f", got)
	}
	if got := testutil.ToFloat64(r.costTotal.WithLabelValues("OpenAI")); got != 0.00025 {
		t.Errorf("expected OpenAI cost 0.00025, got %f", got)
	}
}

func TestRecordRateLimited(t *testing.T) {
	r := NewRegistry()

	r.RecordRateLimited()
	r.RecordRateLimited()

	if got := testutil.ToFloat64(r.rateLimitedTotal); got != 2 {
		t.Errorf("expected 2 rate limited, got %f", got)
	}
}

func TestSetLogSubscribers(t *testing.T) {
	r := NewRegistry()

	r.SetLogSubscribers(3)
	if got := testutil.ToFloat64(r.logSubscribers); got != 3 {
		t.Errorf("expected 3 subscribers, got %f", got)
	}
}

func TestRecordRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordRequest("POST", "/chat", 200, 0.05)
	r.RecordRequest("POST", "/chat", 429, 0.001)

	if got := testutil.ToFloat64(r.httpRequestsTotal.WithLabelValues("POST", "/chat", "2xx")); got != 1 {
		t.Errorf("expected 1 2xx request, got %f", got)
	}
	if got := testutil.ToFloat64(r.httpRequestsTotal.WithLabelValues("POST", "/chat", "4xx")); got != 1 {
		t.Errorf("expected 1 4xx request, got %f", got)
	}
}
