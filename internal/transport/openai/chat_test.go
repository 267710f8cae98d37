package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain"
	"github.com/kailas-cloud/webrag/internal/domain/prompt"
)

func sseServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream || req.Model != "chat-model" {
			t.Errorf("unexpected request: %+v", req)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			chunk, _ := json.Marshal(map[string]any{
				"id":      "c1",
				"object":  "chat.completion.chunk",
				"choices": []map[string]any{{"index": 0, "delta": map[string]string{"content": d}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func newTestGenerator(baseURL string) *Generator {
	return NewGenerator(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "chat-model",
		Logger:  zap.NewNop(),
	})
}

func TestGenerator_Stream(t *testing.T) {
	server := sseServer(t, []string{"Hel", "", "lo"})
	defer server.Close()

	stream, err := newTestGenerator(server.URL).Stream(context.Background(), []prompt.Message{
		{Role: prompt.RoleSystem, Content: "ctx"},
		{Role: prompt.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		tok, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		sb.WriteString(tok)
	}
	if sb.String() != "Hello" {
		t.Errorf("streamed %q, want %q", sb.String(), "Hello")
	}
}

func TestGenerator_OpenError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"auth"}}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Stream(context.Background(), []prompt.Message{
		{Role: prompt.RoleUser, Content: "hi"},
	})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}
