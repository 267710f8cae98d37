package extract

import (
	"context"
	"os"
	"testing"

	"github.com/kailas-cloud/webrag/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type mockSession struct {
	loadFn     func(ctx context.Context, url string) (string, error)
	closeErr   error
	closeCalls int
	loaded     string
}

func (m *mockSession) Load(ctx context.Context, url string) (string, error) {
	m.loaded = url
	if m.loadFn != nil {
		return m.loadFn(ctx, url)
	}
	return "", nil
}

func (m *mockSession) Close() error {
	m.closeCalls++
	return m.closeErr
}

type mockLauncher struct {
	session   *mockSession
	launchErr error
	launches  int
}

func (m *mockLauncher) Launch(_ context.Context) (Session, error) {
	m.launches++
	if m.launchErr != nil {
		return nil, m.launchErr
	}
	return m.session, nil
}
