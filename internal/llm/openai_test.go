package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, srv *httptest.Server) *OpenAIClient {
	t.Helper()
	return NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "test-model",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}, zap.NewNop())
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  {\"ok\": true}  "}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	out, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"ok": true}` {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCompleteRetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "retried"}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	out, err := c.Complete(context.Background(), "", "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "retried" {
		t.Errorf("unexpected output: %q", out)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad model"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.Complete(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error on 400")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestCompleteNoAPIKey(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{Model: "m"}, zap.NewNop())
	if _, err := c.Complete(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestBackgroundSubmitAndFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/responses":
			var req responsesRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if !req.Background {
				t.Error("expected background=true")
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "resp_abc", "status": "queued"})
		case r.Method == http.MethodGet && r.URL.Path == "/responses/resp_abc":
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "resp_abc",
				"status": "completed",
				"output": []map[string]any{
					{
						"type": "message",
						"content": []map[string]any{
							{"type": "output_text", "text": "done"},
						},
					},
				},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	jobID, err := c.SubmitBackground(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("SubmitBackground: %v", err)
	}
	if jobID != "resp_abc" {
		t.Errorf("unexpected job id: %s", jobID)
	}

	result, err := c.FetchBackground(context.Background(), jobID)
	if err != nil {
		t.Fatalf("FetchBackground: %v", err)
	}
	if !result.Done() || result.Status != JobStatusCompleted {
		t.Errorf("unexpected result status: %s", result.Status)
	}
	if result.Output != "done" {
		t.Errorf("unexpected output: %q", result.Output)
	}
}
