// Package agent holds the per-turn value types exchanged between the router,
// dispatcher, formatter and orchestrator.
package agent

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Context is supplied fresh by the caller every turn. The orchestrator keeps no
// session state of its own.
type Context struct {
	UserID             string         `json:"userId"`
	CurrentItineraryID string         `json:"currentItineraryId,omitempty"`
	UserPreferences    map[string]any `json:"userPreferences,omitempty"`
	// History is ordered oldest first, most recent last.
	History     []Message `json:"conversationHistory,omitempty"`
	ActiveTools []string  `json:"activeTools,omitempty"`
}

// ToolActive reports whether name may be used this turn. An empty ActiveTools
// set means every registered tool is allowed.
func (c Context) ToolActive(name string) bool {
	if len(c.ActiveTools) == 0 {
		return true
	}
	for _, t := range c.ActiveTools {
		if t == name {
			return true
		}
	}
	return false
}

// Invocation is the router's decision for one message.
type Invocation struct {
	ShouldUseTool bool           `json:"shouldUseTool"`
	ToolName      string         `json:"toolName,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// NoTool is the decision used whenever routing fails or picks nothing.
func NoTool() Invocation { return Invocation{} }

// ToolResult is either a success payload or an error message. It never carries
// a Go error value: handler failures are converted to text at the dispatcher.
type ToolResult struct {
	Payload any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether the result carries an error.
func (r ToolResult) Failed() bool { return r.Error != "" }

// Path is the branch a turn took through the orchestrator.
type Path string

// Orchestrator paths.
const (
	PathTool     Path = "tool"
	PathChat     Path = "chat"
	PathFallback Path = "fallback"
)
