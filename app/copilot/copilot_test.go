package copilot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAskWithoutAPIKey(t *testing.T) {
	c := New("", "test-model")

	answer := c.Ask(context.Background(), "content", "What does this do?", "camworks")

	if !strings.Contains(answer, "copilot unavailable") {
		t.Errorf("Expected unavailable message, got: %s", answer)
	}
}

func TestAsk(t *testing.T) {
	var captured messageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected /v1/messages path, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Expected anthropic-version header")
		}

		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"This configures a Fanuc controller."}]}`))
	}))
	defer server.Close()

	c := NewWithBaseURL("test-key", "test-model", server.URL)

	answer := c.Ask(context.Background(), "[GENERAL]\nController = Fanuc", "What controller?", "camworks")

	if answer != "This configures a Fanuc controller." {
		t.Errorf("Unexpected answer: %s", answer)
	}
	if captured.Model != "test-model" {
		t.Errorf("Expected model test-model, got %s", captured.Model)
	}
	if !strings.Contains(captured.System, "camworks") {
		t.Errorf("Expected platform in system prompt, got: %s", captured.System)
	}
	if len(captured.Messages) != 1 || !strings.Contains(captured.Messages[0].Content, "What controller?") {
		t.Errorf("Expected question in user message, got: %+v", captured.Messages)
	}
}

func TestAskTruncatesContext(t *testing.T) {
	var captured messageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer server.Close()

	c := NewWithBaseURL("test-key", "test-model", server.URL)

	long := strings.Repeat("G0 X0\n", 3000)
	c.Ask(context.Background(), long, "q", "camworks")

	if len(captured.Messages) != 1 {
		t.Fatal("Expected one user message")
	}
	if strings.Count(captured.Messages[0].Content, "G0 X0") > maxContextChars/6 {
		t.Error("Expected context to be truncated")
	}
}

func TestAskAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer server.Close()

	c := NewWithBaseURL("test-key", "test-model", server.URL)

	answer := c.Ask(context.Background(), "content", "q", "camworks")

	if !strings.Contains(answer, "[copilot error:") || !strings.Contains(answer, "rate limited") {
		t.Errorf("Expected inline error with API message, got: %s", answer)
	}
}

func TestAskConnectionFailure(t *testing.T) {
	c := NewWithBaseURL("test-key", "test-model", "http://127.0.0.1:1")

	answer := c.Ask(context.Background(), "content", "q", "camworks")

	if !strings.Contains(answer, "[copilot error:") {
		t.Errorf("Expected inline error, got: %s", answer)
	}
}
