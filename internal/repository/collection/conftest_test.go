package collection

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/db"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	indexInfoFn   func(ctx context.Context, name string) (db.VectorIndexInfo, error)

	hsetCalls   int
	createCalls int
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.hsetCalls++
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.createCalls++
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) VectorIndexInfo(ctx context.Context, name string) (db.VectorIndexInfo, error) {
	if m.indexInfoFn != nil {
		return m.indexInfoFn(ctx, name)
	}
	return db.VectorIndexInfo{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "webrag:", zap.NewNop()), ms
}

func testCollection(t *testing.T) domcol.Collection {
	t.Helper()
	return domcol.Reconstruct("kb", 768, domcol.MetricDotProduct, 1700000000000)
}

func storedMeta() map[string]string {
	return map[string]string{
		"name":       "kb",
		"dimension":  "768",
		"metric":     "dot_product",
		"created_at": "1690000000000",
	}
}
