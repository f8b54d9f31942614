package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	"github.com/kailas-cloud/tripagent/internal/logger"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

// Formatter turns a tool result into a conversational reply.
type Formatter struct {
	gen    TextGenerator
	logger *zap.Logger
}

// NewFormatter creates a formatter.
func NewFormatter(gen TextGenerator, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{gen: gen, logger: logger}
}

// Format asks the generator to humanize res. When generation fails or returns
// nothing, a deterministic template is used, so the reply is never empty.
func (f *Formatter) Format(ctx context.Context, toolName string, res domagent.ToolResult, message string) string {
	reply, err := f.gen.GenerateText(ctx, buildFormatPrompt(toolName, res, message))
	if err == nil {
		if reply = strings.TrimSpace(reply); reply != "" {
			return reply
		}
	}

	metrics.FormatterFallbackTotal.Inc()
	logger.FromContextOr(ctx, f.logger).Warn("Formatting with template",
		zap.String("tool", toolName),
		zap.Error(err),
	)
	return Fallback(toolName, res)
}

// Fallback renders res without a model.
func Fallback(toolName string, res domagent.ToolResult) string {
	if res.Failed() {
		return fmt.Sprintf("I tried to use %s, but ran into a problem: %s", toolName, res.Error)
	}
	return fmt.Sprintf("Here's what I found using %s:\n%s", toolName, renderPayload(res.Payload))
}
