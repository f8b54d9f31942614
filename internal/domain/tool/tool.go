// Package tool defines the descriptor records held by the tool registry.
package tool

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kailas-cloud/tripagent/internal/domain"
)

// Handler executes a tool. Handlers are expected to return errors rather than
// panic, but the dispatcher guards against both.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// ParamType is the JSON type of a tool parameter.
type ParamType string

// Parameter types.
const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

// Parameter describes one named input of a tool.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Descriptor is an immutable tool record: name, routing description,
// parameter list and handler.
type Descriptor struct {
	Name        string
	Description string
	Parameters  []Parameter
	Handler     Handler
}

// Validate checks that the descriptor can be registered.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("tool name is required: %w", domain.ErrInvalidTool)
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %q has no handler: %w", d.Name, domain.ErrInvalidTool)
	}
	seen := make(map[string]struct{}, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Name == "" {
			return fmt.Errorf("tool %q has an unnamed parameter: %w", d.Name, domain.ErrInvalidTool)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("tool %q declares parameter %q twice: %w", d.Name, p.Name, domain.ErrInvalidTool)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// CheckParams validates required parameters and enum membership.
func (d Descriptor) CheckParams(params map[string]any) error {
	for _, p := range d.Parameters {
		v, ok := params[p.Name]
		if !ok || v == nil {
			if p.Required {
				return fmt.Errorf("missing required parameter %q: %w", p.Name, domain.ErrInvalidParameters)
			}
			continue
		}
		if len(p.Enum) > 0 {
			s, isStr := v.(string)
			if !isStr || !slices.Contains(p.Enum, s) {
				return fmt.Errorf("parameter %q must be one of %s: %w",
					p.Name, strings.Join(p.Enum, ", "), domain.ErrInvalidParameters)
			}
		}
	}
	return nil
}

// Schema renders the parameters as a JSON schema object.
func (d Descriptor) Schema() jsonschema.Definition {
	def := jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: make(map[string]jsonschema.Definition, len(d.Parameters)),
	}
	for _, p := range d.Parameters {
		prop := jsonschema.Definition{
			Type:        jsonschema.DataType(p.Type),
			Description: p.Description,
			Enum:        p.Enum,
		}
		if p.Type == TypeArray {
			prop.Items = &jsonschema.Definition{Type: jsonschema.String}
		}
		def.Properties[p.Name] = prop
		if p.Required {
			def.Required = append(def.Required, p.Name)
		}
	}
	return def
}

// Signature renders a one-line parameter summary for routing prompts,
// e.g. `location: string (required); units: string [metric|imperial]`.
func (d Descriptor) Signature() string {
	if len(d.Parameters) == 0 {
		return "no parameters"
	}
	parts := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		s := p.Name + ": " + string(p.Type)
		if len(p.Enum) > 0 {
			s += " [" + strings.Join(p.Enum, "|") + "]"
		}
		if p.Required {
			s += " (required)"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}
