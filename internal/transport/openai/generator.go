package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

const (
	opGenerate = "generate"
	opChat     = "chat"
)

// DefaultSystemPrompt frames chat-path replies.
const DefaultSystemPrompt = `You are a friendly, knowledgeable travel-planning assistant.
Answer concisely and practically. When travel knowledge or trip details are provided
as context, prefer them over general knowledge and do not invent bookings or prices.`

// Generator produces text through an OpenAI-compatible chat completion API.
type Generator struct {
	client       *openai.Client
	model        string
	temperature  float32
	maxTokens    int
	timeout      time.Duration
	systemPrompt string
	logger       *zap.Logger
}

// GeneratorConfig holds the chat model settings.
type GeneratorConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  float32
	MaxTokens    int
	Timeout      time.Duration
	SystemPrompt string
	Logger       *zap.Logger
}

// NewGenerator creates an OpenAI-compatible text generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	system := cfg.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}

	return &Generator{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		timeout:      cfg.Timeout,
		systemPrompt: system,
		logger:       logger,
	}
}

// GenerateText sends prompt as a single user message.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, opGenerate, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

// ChatWithContext answers message given the prior history and extra context.
// Extra is rendered as JSON into a second system message.
func (g *Generator) ChatWithContext(
	ctx context.Context, message string, history []domagent.Message, extra map[string]any,
) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt})
	if len(extra) > 0 {
		data, err := json.Marshal(extra)
		if err != nil {
			return "", fmt.Errorf("encode chat context: %w: %w", err, domain.ErrGenerationFailed)
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Context for this conversation:\n" + string(data),
		})
	}
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: chatRole(m.Role), Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	return g.complete(ctx, opChat, msgs)
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (g *Generator) complete(ctx context.Context, op string, msgs []openai.ChatCompletionMessage) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: g.temperature,
	}
	if g.maxTokens > 0 {
		req.MaxTokens = g.maxTokens
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, op, "error").Inc()
		g.logger.Warn("Generation request failed",
			zap.String("operation", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", parseAPIError("generation", err, domain.ErrGenerationFailed)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, op, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, op, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model, op).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	g.logger.Debug("Generation completed",
		zap.String("operation", op),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

func chatRole(r domagent.Role) string {
	switch r {
	case domagent.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case domagent.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
