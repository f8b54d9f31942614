package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/tripagent/internal/db"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func testEntry(t *testing.T) domdoc.Entry {
	t.Helper()
	doc, err := domdoc.New("tokyo_guide_1", "Tokyo has excellent public transport.", map[string]any{
		domdoc.MetaType:     "destination_guide",
		domdoc.MetaLocation: "Tokyo, Japan",
		domdoc.MetaTags:     []string{"transport", "culture"},
	})
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return domdoc.Entry{Document: doc, Vector: testVector(8)}
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}
