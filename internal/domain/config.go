package domain

// KeyPrefix namespaces every key tripagent writes to Redis/Valkey.
const KeyPrefix = "tripagent:"

// VectorConfig holds internal vectorization settings.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
}

// DefaultVectorConfig returns the defaults used when no vectorizer is configured.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     768,
		DistanceMetric: "cosine",
	}
}
