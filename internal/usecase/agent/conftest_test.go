package agent

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	"github.com/kailas-cloud/tripagent/internal/metrics"
	"github.com/kailas-cloud/tripagent/internal/usecase/tool"
)

func TestMain(m *testing.M) {
	metrics.RegisterAgentMetrics()
	os.Exit(m.Run())
}

// stubGenerator replays canned answers. generate is consulted in order of calls;
// once exhausted the last entry repeats.
type stubGenerator struct {
	mu          sync.Mutex
	generate    []stubAnswer
	chatReply   string
	chatErr     error
	chatPanic   bool
	prompts     []string
	chatCalls   int
	chatExtra   map[string]any
	chatHistory []domagent.Message
}

type stubAnswer struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.generate) == 0 {
		return "", errors.New("no answer configured")
	}
	i := len(s.prompts) - 1
	if i >= len(s.generate) {
		i = len(s.generate) - 1
	}
	return s.generate[i].text, s.generate[i].err
}

func (s *stubGenerator) ChatWithContext(
	_ context.Context, _ string, history []domagent.Message, extra map[string]any,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatCalls++
	s.chatExtra = extra
	s.chatHistory = history
	if s.chatPanic {
		panic("chat exploded")
	}
	return s.chatReply, s.chatErr
}

func (s *stubGenerator) generateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func answers(texts ...string) []stubAnswer {
	out := make([]stubAnswer, len(texts))
	for i, t := range texts {
		out[i] = stubAnswer{text: t}
	}
	return out
}

func newRegistry(t *testing.T, descs ...domtool.Descriptor) *tool.Registry {
	t.Helper()
	r := tool.NewRegistry(nil)
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	return r
}

func weatherTool(h domtool.Handler) domtool.Descriptor {
	return domtool.Descriptor{
		Name:        "get_weather",
		Description: "Current weather and forecast for a city",
		Parameters: []domtool.Parameter{
			{Name: "location", Type: domtool.TypeString, Required: true},
			{Name: "units", Type: domtool.TypeString, Enum: []string{"metric", "imperial"}},
		},
		Handler: h,
	}
}

func okHandler(payload any) domtool.Handler {
	return func(context.Context, map[string]any) (any, error) { return payload, nil }
}

func tipsTool() domtool.Descriptor {
	return domtool.Descriptor{
		Name:        "find_travel_tips",
		Description: "Practical travel tips by topic",
		Parameters: []domtool.Parameter{
			{Name: "topic", Type: domtool.TypeString, Required: true, Enum: []string{"sustainability", "accessibility"}},
		},
		Handler: okHandler([]string{"tip"}),
	}
}
