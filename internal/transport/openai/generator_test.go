package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
)

// chatServer answers every completion with reply and records the last request.
func chatServer(t *testing.T, reply string, got *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		resp := openai.ChatCompletionResponse{
			ID:     "cmpl-1",
			Object: "chat.completion",
			Model:  "test-model",
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			}},
			Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 5, TotalTokens: 17},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerator_GenerateText(t *testing.T) {
	var req openai.ChatCompletionRequest
	server := chatServer(t, `{"shouldUseTool": false}`, &req)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model", MaxTokens: 256})

	out, err := gen.GenerateText(context.Background(), "route this")
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if out != `{"shouldUseTool": false}` {
		t.Errorf("unexpected output %q", out)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != openai.ChatMessageRoleUser || req.Messages[0].Content != "route this" {
		t.Errorf("unexpected messages: %+v", req.Messages)
	}
	if req.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", req.MaxTokens)
	}
}

func TestGenerator_ChatWithContext(t *testing.T) {
	var req openai.ChatCompletionRequest
	server := chatServer(t, "Try the Louvre early in the morning.", &req)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model"})

	history := []domagent.Message{
		{Role: domagent.RoleUser, Content: "I'm going to Paris"},
		{Role: domagent.RoleAssistant, Content: "Great choice!"},
		{Role: domagent.RoleUser, Content: " "},
	}
	extra := map[string]any{"currentItineraryId": "itn-7"}

	out, err := gen.ChatWithContext(context.Background(), "Any museum tips?", history, extra)
	if err != nil {
		t.Fatalf("ChatWithContext failed: %v", err)
	}
	if out != "Try the Louvre early in the morning." {
		t.Errorf("unexpected output %q", out)
	}

	wantRoles := []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleUser,
	}
	if len(req.Messages) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d: %+v", len(req.Messages), len(wantRoles), req.Messages)
	}
	for i, role := range wantRoles {
		if req.Messages[i].Role != role {
			t.Errorf("message %d role = %s, want %s", i, req.Messages[i].Role, role)
		}
	}
	if !strings.Contains(req.Messages[1].Content, `"currentItineraryId":"itn-7"`) {
		t.Errorf("context message missing itinerary: %q", req.Messages[1].Content)
	}
	if req.Messages[4].Content != "Any museum tips?" {
		t.Errorf("last message = %q", req.Messages[4].Content)
	}
}

func TestGenerator_NoExtraSkipsContextMessage(t *testing.T) {
	var req openai.ChatCompletionRequest
	server := chatServer(t, "Hello!", &req)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model", SystemPrompt: "be brief"})

	if _, err := gen.ChatWithContext(context.Background(), "hi", nil, nil); err != nil {
		t.Fatalf("ChatWithContext failed: %v", err)
	}
	if len(req.Messages) != 2 || req.Messages[0].Content != "be brief" {
		t.Errorf("unexpected messages: %+v", req.Messages)
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model"})

	_, err := gen.GenerateText(context.Background(), "hi")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{APIKey: "k", BaseURL: server.URL, Model: "test-model"})

	_, err := gen.GenerateText(context.Background(), "hi")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}
