package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	"github.com/kailas-cloud/tripagent/internal/logger"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

// Dispatcher invokes the selected tool and converts every failure into a ToolResult.
type Dispatcher struct {
	tools  ToolLookup
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(tools ToolLookup, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{tools: tools, logger: logger}
}

// Dispatch runs the tool named by inv. It reports false when no tool should run
// or the tool is not registered; the caller then takes the chat path.
// Handler errors and panics come back as ToolResult.Error, never as a Go error.
func (d *Dispatcher) Dispatch(
	ctx context.Context, inv domagent.Invocation, message string,
) (domagent.ToolResult, bool) {
	if !inv.ShouldUseTool {
		return domagent.ToolResult{}, false
	}
	desc, ok := d.tools.Get(inv.ToolName)
	if !ok {
		return domagent.ToolResult{}, false
	}

	log := logger.FromContextOr(ctx, d.logger).With(zap.String("tool", desc.Name))

	params := inv.Parameters
	if params == nil {
		params = map[string]any{}
	}
	if err := desc.CheckParams(params); err != nil {
		metrics.ToolCallsTotal.WithLabelValues(desc.Name, "invalid_params").Inc()
		log.Info("Tool parameters rejected", zap.Error(err))
		return domagent.ToolResult{Error: err.Error()}, true
	}

	start := time.Now()
	payload, panicked, err := invoke(ContextWithMessage(ctx, message), desc, params)
	metrics.ToolCallDuration.WithLabelValues(desc.Name).Observe(time.Since(start).Seconds())

	switch {
	case panicked:
		metrics.ToolCallsTotal.WithLabelValues(desc.Name, "panic").Inc()
		log.Error("Tool panicked", zap.Error(err))
		return domagent.ToolResult{Error: errorText(desc.Name, err)}, true
	case err != nil:
		metrics.ToolCallsTotal.WithLabelValues(desc.Name, "error").Inc()
		log.Warn("Tool failed", zap.Error(err))
		return domagent.ToolResult{Error: errorText(desc.Name, err)}, true
	}

	metrics.ToolCallsTotal.WithLabelValues(desc.Name, "success").Inc()
	log.Debug("Tool succeeded", zap.Duration("duration", time.Since(start)))
	return domagent.ToolResult{Payload: payload}, true
}

func invoke(
	ctx context.Context, desc domtool.Descriptor, params map[string]any,
) (payload any, panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload, panicked, err = nil, true, fmt.Errorf("tool %s panicked: %v", desc.Name, r)
		}
	}()
	payload, err = desc.Handler(ctx, params)
	return payload, false, err
}

// errorText is never empty: ToolResult.Failed relies on a non-empty Error.
func errorText(tool string, err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fmt.Sprintf("tool %s failed", tool)
}
