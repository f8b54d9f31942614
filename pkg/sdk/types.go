package tripagent

import (
	"context"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
	"github.com/kailas-cloud/tripagent/internal/domain/search/result"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
)

// Document is a knowledge-base entry.
// Metadata keys "type", "location" and "tags" drive search filters.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	ID       string
	Score    float64
	Content  string
	Metadata map[string]any
}

// SearchResults is a ranked list. Degraded means the query vector came from the
// hash fallback and scores carry no semantic meaning.
type SearchResults struct {
	Results  []SearchResult
	Degraded bool
}

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    Role
	Content string
}

// ChatContext is supplied by the caller on every turn. The client keeps no session state.
type ChatContext struct {
	UserID      string
	ItineraryID string
	Preferences map[string]any
	// History is ordered oldest first.
	History []Message
	// ActiveTools restricts routing to the named tools. Empty allows all.
	ActiveTools []string
}

// ParamType is the JSON type of a tool parameter.
type ParamType string

// Parameter types.
const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
)

// Param describes one named tool input.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Tool is a capability the agent may route a message to.
// The handler result is rendered as JSON for the reply formatter.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     func(ctx context.Context, params map[string]any) (any, error)
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string
	Description string
	Params      []Param
}

// --- converters ---

func toInternalDocument(d Document) (domdoc.Document, error) {
	return domdoc.New(d.ID, d.Content, d.Metadata)
}

func fromInternalDocument(d domdoc.Document) Document {
	return Document{
		ID:       d.ID(),
		Content:  d.Content(),
		Metadata: d.Metadata(),
	}
}

func fromInternalResult(r result.Result) SearchResult {
	return SearchResult{
		ID:       r.ID(),
		Score:    r.Score(),
		Content:  r.Content(),
		Metadata: r.Metadata(),
	}
}

func toInternalContext(c ChatContext) domagent.Context {
	var history []domagent.Message
	if len(c.History) > 0 {
		history = make([]domagent.Message, len(c.History))
		for i, m := range c.History {
			history[i] = domagent.Message{Role: domagent.Role(m.Role), Content: m.Content}
		}
	}
	return domagent.Context{
		UserID:             c.UserID,
		CurrentItineraryID: c.ItineraryID,
		UserPreferences:    c.Preferences,
		History:            history,
		ActiveTools:        c.ActiveTools,
	}
}

func fromInternalHistory(msgs []domagent.Message) []Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = Message{Role: Role(m.Role), Content: m.Content}
	}
	return out
}

func toInternalTool(t Tool) domtool.Descriptor {
	params := make([]domtool.Parameter, len(t.Params))
	for i, p := range t.Params {
		params[i] = domtool.Parameter{
			Name:        p.Name,
			Type:        domtool.ParamType(p.Type),
			Description: p.Description,
			Required:    p.Required,
			Enum:        p.Enum,
		}
	}
	return domtool.Descriptor{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
		Handler:     t.Handler,
	}
}

func fromInternalTool(d domtool.Descriptor) ToolInfo {
	params := make([]Param, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = Param{
			Name:        p.Name,
			Type:        ParamType(p.Type),
			Description: p.Description,
			Required:    p.Required,
			Enum:        p.Enum,
		}
	}
	return ToolInfo{Name: d.Name, Description: d.Description, Params: params}
}
