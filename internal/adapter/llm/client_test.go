package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stridehq/stride/internal/adapter/llm"
	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/resilience"
)

func testConfig(url string) config.LLM {
	return config.LLM{
		URL:       url,
		APIKey:    "test-key",
		Model:     "openai/gpt-4o-mini",
		MaxTokens: 500,
		Timeout:   5 * time.Second,
	}
}

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer test-key" {
			t.Fatalf("unexpected auth: %q", auth)
		}

		var req struct {
			Model    string        `json:"model"`
			Messages []llm.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "openai/gpt-4o-mini" {
			t.Fatalf("unexpected model: %q", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Messages))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer srv.Close()

	client := llm.NewClient(testConfig(srv.URL))
	got, err := client.ChatCompletion(context.Background(), []llm.Message{
		{Role: "system", Content: "You are a planner."},
		{Role: "user", Content: "Break down this goal."},
	})
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := llm.NewClient(testConfig(srv.URL))
	_, err := client.ChatCompletion(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestChatCompletionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer srv.Close()

	client := llm.NewClient(testConfig(srv.URL))
	_, err := client.ChatCompletion(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := llm.NewClient(testConfig(srv.URL))
	client.SetBreaker(resilience.NewBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		_, _ = client.ChatCompletion(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	}

	_, err := client.ChatCompletion(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if client.BreakerState() != "open" {
		t.Fatalf("expected open breaker, got %s", client.BreakerState())
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := llm.NewClient(testConfig(srv.URL))
	ok, err := client.Health(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected healthy, got ok=%v err=%v", ok, err)
	}
}
