package document

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/tripagent/internal/db"
	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// --- Save ---

func TestSave_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	e := testEntry(t)

	var got []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}

	if err := repo.Save(context.Background(), []domdoc.Entry{e}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Key != "tripagent:doc:tokyo_guide_1" {
		t.Errorf("unexpected key: %s", got[0].Key)
	}
	if got[0].Fields["__content"] != e.Document.Content() {
		t.Errorf("unexpected content: %q", got[0].Fields["__content"])
	}
	if len(got[0].Fields["__vector"]) != 8*4 {
		t.Errorf("expected %d vector bytes, got %d", 8*4, len(got[0].Fields["__vector"]))
	}
}

func TestSave_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error {
		t.Fatal("store must not be called for empty input")
		return nil
	}
	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSave_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error {
		return errors.New("OOM")
	}
	if err := repo.Save(context.Background(), []domdoc.Entry{testEntry(t)}); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

// --- Delete ---

func TestDelete_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := repo.Delete(context.Background(), "paris_guide_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "tripagent:doc:paris_guide_1" {
		t.Errorf("unexpected deleted key: %s", deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

// --- LoadAll ---

func TestLoadAll_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	e := testEntry(t)

	stored := map[string]map[string]string{}
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		for _, it := range items {
			stored[it.Key] = it.Fields
		}
		return nil
	}
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "tripagent:doc:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"tripagent:doc:tokyo_guide_1", "tripagent:doc:gone"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i, k := range keys {
			out[i] = stored[k] // missing key yields an empty hash
		}
		return out, nil
	}

	ctx := context.Background()
	if err := repo.Save(ctx, []domdoc.Entry{e}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	got := entries[0]
	if got.Document.ID() != "tokyo_guide_1" {
		t.Errorf("unexpected id: %s", got.Document.ID())
	}
	if got.Document.Type() != "destination_guide" || got.Document.Location() != "Tokyo, Japan" {
		t.Errorf("metadata lost: %v", got.Document.Metadata())
	}
	if tags := got.Document.Tags(); len(tags) != 2 || tags[0] != "transport" {
		t.Errorf("unexpected tags: %v", tags)
	}
	if len(got.Vector) != len(e.Vector) || got.Vector[3] != e.Vector[3] {
		t.Errorf("vector mismatch: %v", got.Vector)
	}
}

func TestLoadAll_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		t.Fatal("HGETALL must not be called without keys")
		return nil, nil
	}

	entries, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil, got %v", entries)
	}
}

func TestLoadAll_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, errors.New("connection refused")
	}
	if _, err := repo.LoadAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseHashFields_CorruptMetadataKeepsDocument(t *testing.T) {
	e, ok := parseHashFields("x", map[string]string{
		"__content":  "text",
		"__metadata": "{not json",
		"__vector":   vectorToBytes([]float32{1, 2}),
	})
	if !ok {
		t.Fatal("expected entry")
	}
	if e.Document.Metadata() != nil {
		t.Errorf("expected nil metadata, got %v", e.Document.Metadata())
	}
}
