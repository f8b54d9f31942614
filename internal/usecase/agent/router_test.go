package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
)

func TestRoute_EmptyRegistrySkipsGeneration(t *testing.T) {
	gen := &stubGenerator{generate: answers(`{"shouldUseTool": true, "toolName": "get_weather"}`)}
	r := NewRouter(gen, newRegistry(t), nil)

	inv := r.Route(context.Background(), "weather in Rome?", domagent.Context{})
	if inv.ShouldUseTool {
		t.Fatal("expected no tool for empty registry")
	}
	if gen.generateCalls() != 0 {
		t.Errorf("expected no generation call, got %d", gen.generateCalls())
	}
}

func TestRoute_Decisions(t *testing.T) {
	tests := []struct {
		name     string
		answer   stubAnswer
		actx     domagent.Context
		wantUse  bool
		wantArgs map[string]any
	}{
		{
			name:     "plain json",
			answer:   stubAnswer{text: `{"shouldUseTool": true, "toolName": "get_weather", "parameters": {"location": "Rome"}}`},
			wantUse:  true,
			wantArgs: map[string]any{"location": "Rome"},
		},
		{
			name:     "prose and code fence",
			answer:   stubAnswer{text: "Sure! Here is my decision:\n```json\n{\"shouldUseTool\": true, \"toolName\": \"get_weather\", \"parameters\": {\"location\": \"Rome\"}}\n```\nHope that helps."},
			wantUse:  true,
			wantArgs: map[string]any{"location": "Rome"},
		},
		{
			name:     "string boolean and missing parameters",
			answer:   stubAnswer{text: `{"shouldUseTool": "true", "toolName": "get_weather"}`},
			wantUse:  true,
			wantArgs: map[string]any{},
		},
		{name: "explicit no tool", answer: stubAnswer{text: `{"shouldUseTool": false}`}},
		{name: "generation error", answer: stubAnswer{err: errors.New("rate limited")}},
		{name: "no json", answer: stubAnswer{text: "I think you should check the weather app."}},
		{name: "malformed json", answer: stubAnswer{text: `{"shouldUseTool": true, "toolName": }`}},
		{name: "missing flag", answer: stubAnswer{text: `{"toolName": "get_weather"}`}},
		{name: "missing tool name", answer: stubAnswer{text: `{"shouldUseTool": true}`}},
		{name: "parameters not an object", answer: stubAnswer{text: `{"shouldUseTool": true, "toolName": "get_weather", "parameters": "Rome"}`}},
		{name: "unknown tool", answer: stubAnswer{text: `{"shouldUseTool": true, "toolName": "book_hotel"}`}},
		{
			name:   "inactive tool",
			answer: stubAnswer{text: `{"shouldUseTool": true, "toolName": "get_weather"}`},
			actx:   domagent.Context{ActiveTools: []string{"find_travel_tips"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := newRegistry(t,
				weatherTool(okHandler("sunny")),
				tipsTool(),
			)
			gen := &stubGenerator{generate: []stubAnswer{tc.answer}}
			inv := NewRouter(gen, reg, nil).Route(context.Background(), "weather in Rome?", tc.actx)

			if inv.ShouldUseTool != tc.wantUse {
				t.Fatalf("ShouldUseTool = %v, want %v", inv.ShouldUseTool, tc.wantUse)
			}
			if !tc.wantUse {
				if inv.ToolName != "" || inv.Parameters != nil {
					t.Errorf("expected zero invocation, got %+v", inv)
				}
				return
			}
			if inv.ToolName != "get_weather" {
				t.Errorf("ToolName = %q", inv.ToolName)
			}
			if len(inv.Parameters) != len(tc.wantArgs) {
				t.Errorf("Parameters = %v, want %v", inv.Parameters, tc.wantArgs)
			}
			for k, v := range tc.wantArgs {
				if inv.Parameters[k] != v {
					t.Errorf("Parameters[%s] = %v, want %v", k, inv.Parameters[k], v)
				}
			}
		})
	}
}

func TestRoute_PromptListsVisibleToolsAndContext(t *testing.T) {
	gen := &stubGenerator{generate: answers(`{"shouldUseTool": false}`)}
	reg := newRegistry(t, weatherTool(okHandler(nil)), tipsTool())
	actx := domagent.Context{
		CurrentItineraryID: "itn-42",
		UserPreferences:    map[string]any{"budget": "low"},
		ActiveTools:        []string{"get_weather"},
	}

	NewRouter(gen, reg, nil).Route(context.Background(), "Is it raining in Rome?", actx)

	prompt := gen.prompts[0]
	for _, want := range []string{"get_weather", "location: string (required)", "itn-42", `"budget":"low"`, "Is it raining in Rome?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "find_travel_tips") {
		t.Error("inactive tool must not be offered")
	}
}
