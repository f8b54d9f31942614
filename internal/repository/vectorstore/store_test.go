package vectorstore

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

func entry(t *testing.T, id string, vec ...float32) domdoc.Entry {
	t.Helper()
	doc, err := domdoc.New(id, "content of "+id, nil)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return domdoc.Entry{Document: doc, Vector: vec}
}

func TestPut_ReplacesWholeEntry(t *testing.T) {
	s := New(2)
	if err := s.Put(entry(t, "a", 1, 0)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(entry(t, "a", 0, 1)); err != nil {
		t.Fatalf("put: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
	e, ok := s.Get("a")
	if !ok {
		t.Fatal("expected entry a")
	}
	if e.Vector[0] != 0 || e.Vector[1] != 1 {
		t.Errorf("expected replaced vector, got %v", e.Vector)
	}
}

func TestPut_DimensionMismatchStoresNothing(t *testing.T) {
	s := New(2)
	err := s.Put(entry(t, "a", 1, 0), entry(t, "b", 1, 0, 0))
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}

func TestPut_CopiesVector(t *testing.T) {
	s := New(0)
	vec := []float32{1, 2}
	if err := s.Put(domdoc.Entry{Document: domdoc.Reconstruct("a", "x", nil), Vector: vec}); err != nil {
		t.Fatalf("put: %v", err)
	}
	vec[0] = 99

	e, _ := s.Get("a")
	if e.Vector[0] != 1 {
		t.Errorf("store shares caller's slice: %v", e.Vector)
	}
}

func TestDelete(t *testing.T) {
	s := New(1)
	_ = s.Put(entry(t, "a", 1))

	if !s.Delete("a") {
		t.Fatal("expected delete to report true")
	}
	if s.Delete("a") {
		t.Fatal("expected second delete to report false")
	}
	if _, ok := s.Get("a"); ok {
		t.Error("entry still present")
	}
}

func TestSnapshot_SortedByID(t *testing.T) {
	s := New(1)
	_ = s.Put(entry(t, "c", 1), entry(t, "a", 1), entry(t, "b", 1))

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	for i, want := range []string{"a", "b", "c"} {
		if snap[i].Document.ID() != want {
			t.Errorf("snap[%d] = %s, want %s", i, snap[i].Document.ID(), want)
		}
	}

	_ = s.Put(entry(t, "d", 1))
	if len(snap) != 3 {
		t.Error("snapshot changed after later put")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New(1)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Put(domdoc.Entry{Document: domdoc.Reconstruct(fmt.Sprintf("doc-%d", i), "x", nil), Vector: []float32{1}})
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
			_ = s.Len()
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", s.Len())
	}
}
