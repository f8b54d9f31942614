package tripagent

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"; empty keeps documents in memory
	addrs    []string
	password string

	embedder  Embedder
	generator Generator
	tools     []Tool

	vectorDimensions  int
	embedConcurrency  int
	defaultTopK       int
	groundingSnippets int
	apology           string
	disableSeed       bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey persists documents to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis persists documents to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider.
// Without one, search runs on degraded hash vectors.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithGenerator sets the language model used for routing, formatting and chat.
// Without one, every turn ends with the apology.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithTool registers an additional tool. The knowledge tools are always present.
func WithTool(t Tool) Option {
	return optionFunc(func(c *clientConfig) {
		c.tools = append(c.tools, t)
	})
}

// WithVectorDimensions sets the embedding dimension. Defaults to 768.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithEmbedConcurrency limits parallel embedding calls while upserting. Default: 4.
func WithEmbedConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedConcurrency = n
	})
}

// WithDefaultTopK sets the result count for searches that do not ask for one. Default: 5.
func WithDefaultTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = k
	})
}

// WithGrounding attaches up to n retrieved snippets to chat replies. Default: 3, 0 disables.
func WithGrounding(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.groundingSnippets = n
	})
}

// WithApology overrides the reply returned when a turn fails.
func WithApology(s string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apology = s
	})
}

// WithoutSeed starts with an empty knowledge base instead of the built-in travel corpus.
func WithoutSeed() Option {
	return optionFunc(func(c *clientConfig) {
		c.disableSeed = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
