// Package catalog holds the immutable registry of tool definitions.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// FieldKind is the input widget a field is rendered with.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
)

// ModeField is the request parameter that selects the response depth. No
// tool may declare a field with this name.
const ModeField = "mode"

// FieldSpec describes one form input of a tool.
type FieldSpec struct {
	Name        string    `json:"name" toml:"name"`
	Label       string    `json:"label" toml:"label"`
	Kind        FieldKind `json:"type" toml:"type"`
	Placeholder string    `json:"placeholder,omitempty" toml:"placeholder"`
}

// ToolDefinition is the schema of one tool. Guidance and Generator are only
// set for tools loaded from an extra catalog file. Generator names a built-in
// offline builder for the tool; Guidance is shown when there is none or the
// required values are missing.
type ToolDefinition struct {
	ID          string      `json:"id" toml:"id"`
	Title       string      `json:"title" toml:"title"`
	Description string      `json:"description" toml:"description"`
	ButtonText  string      `json:"button_text" toml:"button_text"`
	Fields      []FieldSpec `json:"fields" toml:"fields"`
	Guidance    []string    `json:"-" toml:"guidance"`
	Generator   string      `json:"-" toml:"generator"`
}

// Values are the raw form values submitted for a tool, keyed by field name.
type Values map[string]string

// Get returns the trimmed value of a field, or "" when absent.
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// ErrUnknownTool is returned when an identifier is not in the registry.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError carries the missing identifier and close matches.
type UnknownToolError struct {
	ID          string
	Suggestions []string
}

func (e *UnknownToolError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown tool %q", e.ID)
	}
	return fmt.Sprintf("unknown tool %q (did you mean %s?)", e.ID, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }

// Registry is a read-only mapping from tool identifier to definition.
type Registry struct {
	order []string
	tools map[string]ToolDefinition
}

// New builds a registry from the given definitions, keeping their order.
// Identifiers must be unique and field names unique within a tool and
// different from ModeField.
func New(defs ...ToolDefinition) (*Registry, error) {
	r := &Registry{tools: make(map[string]ToolDefinition, len(defs))}
	for _, def := range defs {
		if err := validate(def); err != nil {
			return nil, err
		}
		if _, exists := r.tools[def.ID]; exists {
			return nil, fmt.Errorf("duplicate tool id %q", def.ID)
		}
		r.tools[def.ID] = clone(def)
		r.order = append(r.order, def.ID)
	}
	return r, nil
}

func validate(def ToolDefinition) error {
	if strings.TrimSpace(def.ID) == "" {
		return errors.New("tool id is required")
	}
	if def.Title == "" {
		return fmt.Errorf("tool %q: title is required", def.ID)
	}
	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("tool %q: field name is required", def.ID)
		}
		if f.Name == ModeField {
			return fmt.Errorf("tool %q: field name %q is reserved", def.ID, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("tool %q: duplicate field %q", def.ID, f.Name)
		}
		seen[f.Name] = true
		switch f.Kind {
		case KindText, KindTextarea:
		default:
			return fmt.Errorf("tool %q: field %q has unsupported type %q", def.ID, f.Name, f.Kind)
		}
	}
	return nil
}

func clone(def ToolDefinition) ToolDefinition {
	def.Fields = append([]FieldSpec(nil), def.Fields...)
	def.Guidance = append([]string(nil), def.Guidance...)
	return def
}

// Lookup returns the definition for id. The returned value is a copy.
func (r *Registry) Lookup(id string) (ToolDefinition, error) {
	def, ok := r.tools[id]
	if !ok {
		return ToolDefinition{}, &UnknownToolError{ID: id, Suggestions: r.suggest(id)}
	}
	return clone(def), nil
}

// List returns all definitions in registration order.
func (r *Registry) List() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.tools[id]))
	}
	return out
}

// IDs returns all identifiers in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

const maxSuggestions = 3

func (r *Registry) suggest(id string) []string {
	if id == "" {
		return nil
	}
	matches := fuzzy.Find(id, r.order)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
