package extract

import "context"

// Launcher starts an isolated rendering session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one headless browser instance. Close must release every OS resource it holds.
type Session interface {
	// Load navigates to url, waits for DOMContentLoaded and returns the rendered body text.
	Load(ctx context.Context, url string) (string, error)
	Close() error
}
