package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// chromiumOrSkip returns a local browser binary or skips; CI images without Chromium skip these tests.
func chromiumOrSkip(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if bin := os.Getenv("WEBRAG_CHROMIUM_BIN"); bin != "" {
		return bin
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no chromium found; set WEBRAG_CHROMIUM_BIN")
	}
	return bin
}

func TestLauncher_LoadsBodyText(t *testing.T) {
	bin := chromiumOrSkip(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Title</h1><script>document.body.append("rendered")</script></body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := NewLauncher(Config{Bin: bin, Headless: true, NoSandbox: true}).Launch(ctx)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	text, err := sess.Load(ctx, srv.URL)
	if cerr := sess.Close(); cerr != nil {
		t.Errorf("Close: %v", cerr)
	}
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text == "" {
		t.Fatal("expected non-empty body text")
	}
	for _, want := range []string{"Title", "rendered"} {
		if !strings.Contains(text, want) {
			t.Errorf("body text %q missing %q", text, want)
		}
	}
}

func TestLauncher_BadBinary(t *testing.T) {
	_, err := NewLauncher(Config{Bin: "/nonexistent/chromium", Headless: true}).Launch(context.Background())
	if err == nil {
		t.Fatal("expected launch error for missing binary")
	}
}
