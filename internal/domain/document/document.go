package document

import (
	"fmt"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Well-known metadata keys.
const (
	MetaType      = "type"
	MetaLocation  = "location"
	MetaTags      = "tags"
	MetaSource    = "source"
	MetaCreatedAt = "createdAt"
)

// Document is a knowledge-base entry (immutable value object).
// Metadata is an open map; the well-known keys above drive filtering.
type Document struct {
	id       string
	content  string
	metadata map[string]any
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Content: non-empty, max 160KB.
func New(id, content string, metadata map[string]any) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if strings.TrimSpace(content) == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Document{id: id, content: content, metadata: cloneMetadata(metadata)}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, content string, metadata map[string]any) Document {
	return Document{id: id, content: content, metadata: metadata}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Content returns the document text content.
func (d Document) Content() string { return d.content }

// Metadata returns a copy of the metadata map.
func (d Document) Metadata() map[string]any { return cloneMetadata(d.metadata) }

// Field returns a raw metadata value.
func (d Document) Field(key string) (any, bool) {
	v, ok := d.metadata[key]
	return v, ok
}

// Type returns metadata.type, or "" when absent.
func (d Document) Type() string { return d.stringField(MetaType) }

// Location returns metadata.location, or "" when absent.
func (d Document) Location() string { return d.stringField(MetaLocation) }

// Tags returns metadata.tags normalized to a string slice.
// Accepts []string, []any of strings, or a comma-separated string.
func (d Document) Tags() []string {
	switch v := d.metadata[MetaTags].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		return nil
	}
}

func (d Document) stringField(key string) string {
	if s, ok := d.metadata[key].(string); ok {
		return s
	}
	return ""
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Entry pairs a document with its embedding vector.
type Entry struct {
	Document Document
	Vector   []float32
}
