package tripagent

import (
	"context"
	"sync"
)

// --- public Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// --- public Generator mock ---

// scriptedGenerator replays GenerateText answers in order and records Chat calls.
type scriptedGenerator struct {
	mu        sync.Mutex
	answers   []string
	prompts   []string
	chatReply string
	chatErr   error
	chats     []chatCall
}

type chatCall struct {
	message string
	history []Message
	extra   map[string]any
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if len(g.answers) == 0 {
		return `{"shouldUseTool": false}`, nil
	}
	a := g.answers[0]
	g.answers = g.answers[1:]
	return a, nil
}

func (g *scriptedGenerator) Chat(
	_ context.Context, message string, history []Message, extra map[string]any,
) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chats = append(g.chats, chatCall{message: message, history: history, extra: extra})
	return g.chatReply, g.chatErr
}

// healthyGenerator adds a HealthCheck to scriptedGenerator.
type healthyGenerator struct {
	scriptedGenerator
	err error
}

func (g *healthyGenerator) HealthCheck(_ context.Context) error { return g.err }
