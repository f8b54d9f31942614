package filter

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kailas-cloud/tripagent/internal/domain/document"
)

// Predicate is an arbitrary candidate test applied after the structured conditions.
type Predicate func(doc document.Document) bool

// Filter narrows the candidate set before similarity scoring.
// All set conditions must hold (AND). The zero value matches everything.
type Filter struct {
	docType   string
	location  string
	tags      []string
	fields    map[string]any
	predicate Predicate
}

// Option configures a Filter.
type Option func(*Filter)

// WithType requires metadata.type to equal t exactly.
func WithType(t string) Option {
	return func(f *Filter) { f.docType = strings.TrimSpace(t) }
}

// WithLocation requires metadata.location to contain loc (case-insensitive substring).
func WithLocation(loc string) Option {
	return func(f *Filter) { f.location = strings.TrimSpace(loc) }
}

// WithTag requires at least one metadata tag to contain tag (case-insensitive substring).
func WithTag(tag string) Option {
	return WithAnyTag(tag)
}

// WithAnyTag requires at least one metadata tag to contain any of tags.
// Blank entries are ignored.
func WithAnyTag(tags ...string) Option {
	return func(f *Filter) {
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				f.tags = append(f.tags, t)
			}
		}
	}
}

// WithFields requires every listed metadata field to equal the given value.
func WithFields(fields map[string]any) Option {
	return func(f *Filter) {
		if len(fields) == 0 {
			return
		}
		if f.fields == nil {
			f.fields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			f.fields[k] = v
		}
	}
}

// WithPredicate adds an arbitrary candidate test.
func WithPredicate(p Predicate) Option {
	return func(f *Filter) { f.predicate = p }
}

// New builds a Filter from options.
func New(opts ...Option) Filter {
	var f Filter
	for _, o := range opts {
		o(&f)
	}
	return f
}

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool {
	return f.docType == "" && f.location == "" && len(f.tags) == 0 && len(f.fields) == 0 && f.predicate == nil
}

// Matches reports whether doc satisfies every condition.
func (f Filter) Matches(doc document.Document) bool {
	if f.docType != "" && doc.Type() != f.docType {
		return false
	}
	if f.location != "" && !containsFold(doc.Location(), f.location) {
		return false
	}
	if len(f.tags) > 0 && !anyTagContains(doc.Tags(), f.tags) {
		return false
	}
	for k, want := range f.fields {
		got, ok := doc.Field(k)
		if !ok || !equalValues(got, want) {
			return false
		}
	}
	if f.predicate != nil && !f.predicate(doc) {
		return false
	}
	return true
}

// String renders the structured conditions for logs.
func (f Filter) String() string {
	var parts []string
	if f.docType != "" {
		parts = append(parts, "type="+f.docType)
	}
	if f.location != "" {
		parts = append(parts, "location~"+f.location)
	}
	if len(f.tags) > 0 {
		parts = append(parts, "tag~"+strings.Join(f.tags, "|"))
	}
	for k, v := range f.fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	if f.predicate != nil {
		parts = append(parts, "predicate")
	}
	return strings.Join(parts, ",")
}

func anyTagContains(tags, subs []string) bool {
	for _, t := range tags {
		for _, sub := range subs {
			if containsFold(t, sub) {
				return true
			}
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// equalValues compares metadata values that may have passed through JSON
// (3 vs 3.0 vs "3" all compare equal by their printed form).
func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
