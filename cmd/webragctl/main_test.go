package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag"
	"github.com/kailas-cloud/webrag/internal/config"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHealthCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"status":"ok","checks":{"embedding":"ok","database":"ok"}}`))
	}))
	defer srv.Close()

	out, err := runCmd(t, "health", "--server", srv.URL, "--api-key", "k")
	if err != nil {
		t.Fatalf("err = %v, out = %s", err, out)
	}
	if !strings.Contains(out, "status: ok") {
		t.Errorf("out = %q", out)
	}
	if strings.Index(out, "database") > strings.Index(out, "embedding") {
		t.Error("checks should be sorted")
	}
}

func TestHealthCmd_DegradedFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","checks":{"database":"ok","embedding":"error"}}`))
	}))
	defer srv.Close()

	_, err := runCmd(t, "health", "--server", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Fatalf("err = %v", err)
	}
}

func TestAskCmd_Streams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("forty-two"))
	}))
	defer srv.Close()

	out, err := runCmd(t, "ask", "--server", srv.URL, "meaning", "of", "life")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "forty-two") {
		t.Errorf("out = %q", out)
	}
}

func TestIngestCmd_RequiresURL(t *testing.T) {
	if _, err := runCmd(t, "ingest"); err == nil {
		t.Fatal("expected args error")
	}
}

func TestClientOptions_Driver(t *testing.T) {
	cfg := config.Config{
		Database:  config.DatabaseConfig{Driver: "redis", Addrs: []string{"r:6379"}},
		Embedding: config.EmbeddingConfig{APIKey: "k", Model: "m", Dimensions: 3, Cache: true},
		Storage:   config.StorageConfig{Namespace: "webrag:", Collection: "kb", Metric: "cosine"},
	}
	cfg.ApplyDefaults()

	opts := clientOptions(cfg, zap.NewNop())
	// driver + namespace/collection/embeddings/instructions/browser/chunking/mode/
	// timeouts/index/retrieval/logger + cache
	if len(opts) != 13 {
		t.Errorf("len(opts) = %d, want 13", len(opts))
	}
}

func TestIngestProgress_Lines(t *testing.T) {
	var out bytes.Buffer
	p := newIngestProgress(&out, false)

	p.handle(webrag.ProgressEvent{Kind: webrag.URLStarted, URL: "https://a.example", Chunks: 2})
	p.handle(webrag.ProgressEvent{Kind: webrag.ChunkStored, URL: "https://a.example"})
	p.handle(webrag.ProgressEvent{Kind: webrag.URLDone, URL: "https://a.example", Chunks: 2,
		Result: webrag.URLResult{URL: "https://a.example", OK: true, Chunks: 2}})
	p.handle(webrag.ProgressEvent{Kind: webrag.URLDone, URL: "https://b.example",
		Result: webrag.URLResult{URL: "https://b.example", Err: errors.New("timeout")}})

	got := out.String()
	if !strings.Contains(got, "ok      https://a.example (2 chunks)") {
		t.Errorf("out = %q", got)
	}
	if !strings.Contains(got, "failed  https://b.example (0 chunks): timeout") {
		t.Errorf("out = %q", got)
	}
}

func TestIngestProgress_Bar(t *testing.T) {
	var out bytes.Buffer
	p := newIngestProgress(&out, true)

	p.handle(webrag.ProgressEvent{Kind: webrag.URLStarted, URL: "https://a.example", Chunks: 1})
	if p.bar == nil {
		t.Fatal("expected a bar")
	}
	p.handle(webrag.ProgressEvent{Kind: webrag.ChunkStored, URL: "https://a.example"})
	p.handle(webrag.ProgressEvent{Kind: webrag.URLDone, URL: "https://a.example", Chunks: 1,
		Result: webrag.URLResult{OK: true, Chunks: 1}})
	if p.bar != nil {
		t.Error("bar should be cleared after URLDone")
	}
}
