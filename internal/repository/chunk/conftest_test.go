package chunk

import (
	"context"
	"testing"

	"github.com/kailas-cloud/webrag/internal/db"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn      func(ctx context.Context, key string, fields map[string]string) error
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	hsetCalls   int
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.hsetCalls++
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	r := New(ms, "webrag:")
	r.newID = func() string { return "fixed-id" }
	return r, ms
}

func testCollection(t *testing.T, metric domcol.Metric) domcol.Collection {
	t.Helper()
	return domcol.Reconstruct("kb", 3, metric, 1)
}
