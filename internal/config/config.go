package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tripagent configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Agent     AgentConfig     `yaml:"agent"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the optional Redis/Valkey connection used for
// document persistence and the embedding cache.
type DatabaseConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"` // openai, hash (degraded-only, no API calls)
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	TimeoutSec          int    `yaml:"timeout_sec"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
	Cache               bool   `yaml:"cache"` // requires database.enabled
}

// LLMConfig holds text generation provider settings.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// RetrievalConfig holds document store and search settings.
type RetrievalConfig struct {
	DefaultTopK       int  `yaml:"default_top_k"`
	EmbedConcurrency  int  `yaml:"embed_concurrency"`
	DisableSeed       bool `yaml:"disable_seed"`
	GroundingSnippets int  `yaml:"grounding_snippets"` // 0 disables grounding on the chat path
}

// AgentConfig holds orchestrator settings.
type AgentConfig struct {
	Apology string `yaml:"apology"` // empty keeps the built-in apology
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90 // a chat turn makes up to two generation calls
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 768
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 30
	}
	if c.Retrieval.DefaultTopK <= 0 {
		c.Retrieval.DefaultTopK = 5
	}
	if c.Retrieval.EmbedConcurrency <= 0 {
		c.Retrieval.EmbedConcurrency = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Enabled {
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required when database.enabled is true")
		}
		switch c.Database.Driver {
		case "valkey", "redis":
			// ok
		default:
			return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
		}
	}
	switch c.Embedding.Provider {
	case "openai", "hash":
		// ok
	default:
		return fmt.Errorf("embedding.provider must be \"openai\" or \"hash\", got %q", c.Embedding.Provider)
	}
	if c.Embedding.Cache && !c.Database.Enabled {
		return fmt.Errorf("embedding.cache requires database.enabled")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature)
	}
	if c.Retrieval.GroundingSnippets < 0 {
		return fmt.Errorf("retrieval.grounding_snippets must not be negative, got %d", c.Retrieval.GroundingSnippets)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
