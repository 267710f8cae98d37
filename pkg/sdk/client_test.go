package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithAPIKey("secret"))
}

func TestIngest(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/ingest" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.URLs) != 1 || req.Mode != ModeIsolated {
			t.Errorf("req = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(IngestResponse{
			Results:        []URLResult{{URL: req.URLs[0], Status: "ok", Chunks: 4}},
			ChunksInserted: 4,
		})
	})

	resp, err := c.Ingest(context.Background(), []string{"https://a.example"}, ModeIsolated)
	if err != nil {
		t.Fatal(err)
	}
	if resp.ChunksInserted != 4 || resp.Results[0].Status != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestIngest_AbortedCarriesPartialResults(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"fetch_failed","message":"fetch failed","results":[` +
			`{"url":"https://a.example","status":"ok","chunks":2},` +
			`{"url":"https://b.example","status":"failed","chunks":0,"error":{"code":"fetch_failed","message":"fetch failed"}}]}`))
	})

	_, err := c.Ingest(context.Background(), []string{"https://a.example", "https://b.example"}, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Code != "fetch_failed" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if len(apiErr.Results) != 2 || apiErr.Results[1].Error == nil {
		t.Errorf("results = %+v", apiErr.Results)
	}
}

func TestContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ContextRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Query != "q" || req.Limit != 3 {
			t.Errorf("req = %+v", req)
		}
		_, _ = w.Write([]byte(`{"prompt":"P","degraded":true,"chunks":[{"id":"1","text":"t","source_url":"u","chunk_index":0,"score":0.5,"inserted_at":"2026-01-01T00:00:00Z"}]}`))
	})

	resp, err := c.Context(context.Background(), "q", 3)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Prompt != "P" || !resp.Degraded || len(resp.Chunks) != 1 || resp.Chunks[0].Score != 0.5 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestContext_PlainTextError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Context(context.Background(), "q", 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "bad gateway" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestChat_CopiesStream(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []Message `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
			t.Errorf("messages = %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Context-Degraded", "true")
		_, _ = w.Write([]byte("Hello"))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(" world"))
	})

	var buf bytes.Buffer
	info, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello world" || info.Bytes != 11 || !info.Degraded {
		t.Errorf("body = %q info = %+v", buf.String(), info)
	}
}

func TestChat_Error(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"invalid_input","message":"invalid input"}`))
	})

	var buf bytes.Buffer
	_, err := c.Chat(context.Background(), nil, &buf)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "invalid_input" {
		t.Fatalf("err = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestHealth_DegradedIsNotAnError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","checks":{"database":"ok","embedding":"error"}}`))
	})

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "degraded" || h.Checks["embedding"] != "error" {
		t.Errorf("health = %+v", h)
	}
}

func TestHealth_Unauthorized(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v", err)
	}
	if apiErr.Error() != "webrag api: status 401" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	if _, err := c.Health(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}
