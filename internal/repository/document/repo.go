package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/tripagent/internal/db"
	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

var docKeyPrefix = domain.KeyPrefix + "doc:"

// store is the consumer interface for documents (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo persists embedded documents as one hash per document.
// It implements usecase/document.Persister.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save writes all entries in a single pipelined round-trip.
func (r *Repo) Save(ctx context.Context, entries []domdoc.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(entries))
	for _, e := range entries {
		fields, err := buildHashFields(e)
		if err != nil {
			return err
		}
		items = append(items, db.HashSetItem{Key: docKey(e.Document.ID()), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d documents: %w", len(items), err)
	}
	return nil
}

// Delete removes a persisted document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// LoadAll returns every persisted entry. Hashes without content or vector are skipped.
func (r *Repo) LoadAll(ctx context.Context) ([]domdoc.Entry, error) {
	keys, err := r.store.Scan(ctx, docKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %d documents: %w", len(keys), err)
	}

	entries := make([]domdoc.Entry, 0, len(hashes))
	for i, m := range hashes {
		e, ok := parseHashFields(strings.TrimPrefix(keys[i], docKeyPrefix), m)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func docKey(id string) string {
	return docKeyPrefix + id
}
