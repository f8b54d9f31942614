package tripagent

import "context"

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Generator is the language model behind the agent.
type Generator interface {
	// GenerateText answers a single prompt. Used for routing and formatting.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// Chat answers message given prior history and extra context
	// (itinerary id, preferences, retrieved knowledge).
	Chat(ctx context.Context, message string, history []Message, extra map[string]any) (string, error)
}
