// Package transformer holds the named text transformations a preset can chain
// and the registry that maps names to them.
//
// A transformer is a function of (text, arguments). Every built-in except
// custom_py is pure; custom_py runs an external interpreter.
package transformer

import (
	"context"
	"maps"
	"slices"
)

// Built-in transformer names.
const (
	PrettyJSONName   = "pretty_json"
	JSONUnescapeName = "json_unescape"
	CustomPyName     = "custom_py"
)

// Transformer turns text into text. args may be nil.
type Transformer interface {
	Apply(ctx context.Context, text string, args map[string]string) (string, error)
}

// Func adapts a plain function to Transformer.
type Func func(ctx context.Context, text string, args map[string]string) (string, error)

// Apply calls f.
func (f Func) Apply(ctx context.Context, text string, args map[string]string) (string, error) {
	return f(ctx, text, args)
}

// Registry is an immutable name -> Transformer table.
type Registry struct {
	entries map[string]Transformer
}

// NewRegistry copies entries into a new Registry.
func NewRegistry(entries map[string]Transformer) *Registry {
	return &Registry{entries: maps.Clone(entries)}
}

// Builtins returns the registry of built-in transformers, with custom_py
// backed by script.
func Builtins(script *Script) *Registry {
	return NewRegistry(map[string]Transformer{
		PrettyJSONName:   Func(PrettyJSON),
		JSONUnescapeName: Func(JSONUnescape),
		CustomPyName:     script,
	})
}

// Lookup returns the transformer registered as name.
func (r *Registry) Lookup(name string) (Transformer, bool) {
	t, ok := r.entries[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	var names []string
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
