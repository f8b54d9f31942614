package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
)

const routingInstructions = `You are the routing step of a travel assistant.
Decide whether the user's message needs one of the tools below.

Respond with a single JSON object and nothing else:
{"shouldUseTool": true, "toolName": "<tool name>", "parameters": {...}}
or
{"shouldUseTool": false}

Only choose a tool that is listed. Fill parameters from the message and the context.`

// buildRoutingPrompt lists the visible tools, the serialized turn context and the message.
func buildRoutingPrompt(tools []domtool.Descriptor, message string, actx domagent.Context) string {
	var b strings.Builder
	b.WriteString(routingInstructions)
	b.WriteString("\n\nTools:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n  parameters: %s\n", t.Name, t.Description, t.Signature())
	}

	b.WriteString("\nContext: ")
	b.WriteString(routingContext(actx))
	b.WriteString("\n\nUser message: ")
	b.WriteString(message)
	b.WriteString("\n")
	return b.String()
}

// routingContext is the short context the router sees: itinerary and preferences only.
func routingContext(actx domagent.Context) string {
	c := struct {
		CurrentItineraryID string         `json:"currentItineraryId,omitempty"`
		UserPreferences    map[string]any `json:"userPreferences,omitempty"`
	}{actx.CurrentItineraryID, actx.UserPreferences}

	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

const formatInstructions = `You are a friendly travel assistant. A tool was called to answer the user.
Turn the tool output below into a concise, helpful reply. Do not mention JSON or tools.
If the output is an error, apologize briefly and suggest what the user can try instead.`

// buildFormatPrompt asks the model to humanize a tool result.
func buildFormatPrompt(toolName string, res domagent.ToolResult, message string) string {
	var b strings.Builder
	b.WriteString(formatInstructions)
	fmt.Fprintf(&b, "\n\nUser message: %s\nTool: %s\nTool output:\n%s\n", message, toolName, renderResult(res))
	return b.String()
}

// renderResult returns the result as indented JSON, or its Go rendering when it cannot be encoded.
func renderResult(res domagent.ToolResult) string {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", res)
	}
	return string(data)
}

func renderPayload(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
