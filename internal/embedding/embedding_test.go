package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coachpulse/checkin-ingest/internal/config"
	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.EmbeddingConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "text-embedding-3-small",
		Timeout: 5 * time.Second,
	}
	return NewClient(cfg, zerolog.Nop()), srv
}

func TestEmbed_Success(t *testing.T) {
	var gotReq embeddingRequest
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	})

	vec, err := client.Embed(context.Background(), "great week")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}
	if gotReq.Input != "great week" {
		t.Errorf("request input = %q, want transcript", gotReq.Input)
	}
	if gotReq.Model != "text-embedding-3-small" {
		t.Errorf("request model = %q", gotReq.Model)
	}
}

func TestEmbed_NoAPIKey(t *testing.T) {
	cfg := &config.EmbeddingConfig{Timeout: time.Second}
	client := NewClient(cfg, zerolog.Nop())

	if _, err := client.Embed(context.Background(), "text"); err != ErrNoAPIKey {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}
}

func TestEmbed_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid input"},
		})
	})

	_, err := client.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls != 1 {
		t.Errorf("client error retried %d times, want 1 call", calls)
	}
}

func TestEmbed_ServerErrorRetried(t *testing.T) {
	calls := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.5}}},
		})
	})

	vec, err := client.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed returned error after retry: %v", err)
	}
	if len(vec) != 1 {
		t.Errorf("vector length = %d, want 1", len(vec))
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestEmbed_EmptyDataRejected(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error for empty data array")
	}
}
