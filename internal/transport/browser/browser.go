// Package browser renders pages in headless Chromium through the DevTools protocol.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kailas-cloud/webrag/internal/usecase/extract"
)

// bodyTextJS reads the rendered visible text; pages without a body yield "".
const bodyTextJS = `() => document.body ? document.body.innerText : ""`

// Config holds Chromium launch settings.
type Config struct {
	// Bin is the browser executable. Empty lets rod locate or download one.
	Bin       string
	Headless  bool
	NoSandbox bool
}

// Launcher starts one Chromium process per session.
type Launcher struct {
	cfg Config
}

// NewLauncher creates a rod-backed launcher.
func NewLauncher(cfg Config) *Launcher {
	return &Launcher{cfg: cfg}
}

// Launch implements extract.Launcher.
func (l *Launcher) Launch(ctx context.Context) (extract.Session, error) {
	lc := launcher.New().
		Context(ctx).
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox)
	if l.cfg.Bin != "" {
		lc = lc.Bin(l.cfg.Bin)
	}

	controlURL, err := lc.Launch()
	if err != nil {
		lc.Kill()
		lc.Cleanup()
		return nil, fmt.Errorf("start chromium: %w", err)
	}

	b := rod.New().Context(ctx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		lc.Kill()
		lc.Cleanup()
		return nil, fmt.Errorf("connect chromium: %w", err)
	}

	return &session{browser: b, launcher: lc}, nil
}

type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// Load opens a blank tab, navigates and waits for DOMContentLoaded only.
func (s *session) Load(ctx context.Context, url string) (string, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open tab: %w", err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}
	wait()

	obj, err := page.Eval(bodyTextJS)
	if err != nil {
		return "", fmt.Errorf("read body text: %w", err)
	}
	return obj.Value.Str(), nil
}

// Close shuts the browser down and removes its profile directory.
func (s *session) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("close chromium: %w", err)
	}
	return nil
}
