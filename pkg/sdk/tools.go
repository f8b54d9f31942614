package tripagent

import "fmt"

// ToolService exposes the tool registry.
type ToolService struct {
	registry toolRegistry
}

// Register adds a tool, replacing any tool with the same name.
func (s *ToolService) Register(t Tool) error {
	if err := s.registry.Register(toInternalTool(t)); err != nil {
		return fmt.Errorf("register tool: %w", err)
	}
	return nil
}

// List returns registered tools sorted by name.
func (s *ToolService) List() []ToolInfo {
	descs := s.registry.List()
	out := make([]ToolInfo, len(descs))
	for i, d := range descs {
		out[i] = fromInternalTool(d)
	}
	return out
}
