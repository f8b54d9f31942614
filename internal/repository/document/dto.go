package document

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

const (
	fieldContent  = "__content"
	fieldMetadata = "__metadata"
	fieldVector   = "__vector"
)

// buildHashFields converts an entry into a flat map[string]string for HSET.
func buildHashFields(e domdoc.Entry) (map[string]string, error) {
	meta := e.Document.Metadata()
	if meta == nil {
		meta = map[string]any{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata %s: %w", e.Document.ID(), err)
	}
	return map[string]string{
		fieldContent:  e.Document.Content(),
		fieldMetadata: string(data),
		fieldVector:   vectorToBytes(e.Vector),
	}, nil
}

// parseHashFields converts a flat hash map back into an entry.
// Returns false when the hash is empty or its content is missing.
func parseHashFields(id string, m map[string]string) (domdoc.Entry, bool) {
	content, ok := m[fieldContent]
	if !ok || content == "" {
		return domdoc.Entry{}, false
	}

	var meta map[string]any
	if raw := m[fieldMetadata]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			meta = nil
		}
	}

	vector := bytesToVector(m[fieldVector])
	if len(vector) == 0 {
		return domdoc.Entry{}, false
	}

	return domdoc.Entry{
		Document: domdoc.Reconstruct(id, content, meta),
		Vector:   vector,
	}, true
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
