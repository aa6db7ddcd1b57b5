package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/invopop/jsonschema"
	jsv "github.com/santhosh-tekuri/jsonschema/v6"
)

// ToolSpec declares one tool the model may ask for.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// NewToolSpec reflects the argument struct T into the tool's parameter schema.
func NewToolSpec[T any](name, description string) ToolSpec {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		Anonymous:                 true,
		AllowAdditionalProperties: false,
	}
	var v T
	return ToolSpec{Name: name, Description: description, Parameters: r.Reflect(v)}
}

// DeclaredTool builds a ToolSpec from a raw JSON Schema document, as found in
// the config file.
func DeclaredTool(name, description string, params json.RawMessage) (ToolSpec, error) {
	spec := ToolSpec{Name: name, Description: description, Parameters: &jsonschema.Schema{Type: "object"}}
	if len(bytes.TrimSpace(params)) == 0 {
		return spec, nil
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(params, &s); err != nil {
		return ToolSpec{}, fmt.Errorf("tool %s: parameters: %w", name, err)
	}
	spec.Parameters = &s
	return spec, nil
}

// Signature renders the tool as name(param: type, ...) in declaration order.
func (t ToolSpec) Signature() string {
	var params []string
	if t.Parameters != nil && t.Parameters.Properties != nil {
		for pair := t.Parameters.Properties.Oldest(); pair != nil; pair = pair.Next() {
			params = append(params, pair.Key+": "+typeName(pair.Value))
		}
	}
	return t.Name + "(" + strings.Join(params, ", ") + ")"
}

func typeName(s *jsonschema.Schema) string {
	if s == nil {
		return "any"
	}
	switch s.Type {
	case "number":
		return "float"
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "array":
		return "list"
	case "":
		return "any"
	}
	return s.Type
}

type compiledTool struct {
	spec   ToolSpec
	schema *jsv.Schema
}

// Catalog is the fixed set of tools offered to the model.
type Catalog struct {
	tools  []compiledTool
	byName map[string]int
}

// NewCatalog compiles every tool schema. Tool names must be unique.
func NewCatalog(tools ...ToolSpec) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(tools))}
	compiler := jsv.NewCompiler()

	for _, t := range tools {
		if t.Name == "" {
			return nil, errors.New("tool with empty name")
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", t.Name)
		}
		compiled, err := compile(compiler, t)
		if err != nil {
			return nil, err
		}
		c.byName[t.Name] = len(c.tools)
		c.tools = append(c.tools, compiledTool{spec: t, schema: compiled})
	}
	return c, nil
}

func compile(compiler *jsv.Compiler, t ToolSpec) (*jsv.Schema, error) {
	if t.Parameters == nil {
		return nil, nil
	}
	data, err := json.Marshal(t.Parameters)
	if err != nil {
		return nil, fmt.Errorf("tool %s: marshal schema: %w", t.Name, err)
	}
	doc, err := jsv.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tool %s: parse schema: %w", t.Name, err)
	}
	loc := "mem:///tools/" + url.PathEscape(t.Name) + ".json"
	if err := compiler.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.Name, err)
	}
	s, err := compiler.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("tool %s: compile schema: %w", t.Name, err)
	}
	return s, nil
}

// Tools returns the specs in declaration order.
func (c *Catalog) Tools() []ToolSpec {
	out := make([]ToolSpec, len(c.tools))
	for i, t := range c.tools {
		out[i] = t.spec
	}
	return out
}

// Lookup returns the named tool.
func (c *Catalog) Lookup(name string) (ToolSpec, bool) {
	i, ok := c.byName[name]
	if !ok {
		return ToolSpec{}, false
	}
	return c.tools[i].spec, true
}

// Render lists the tools for the system prompt, one per line.
func (c *Catalog) Render() string {
	var b strings.Builder
	for _, t := range c.tools {
		b.WriteString("- ")
		b.WriteString(t.spec.Signature())
		if t.spec.Description != "" {
			b.WriteString(": ")
			b.WriteString(t.spec.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Check reports whether name is declared and args satisfy its schema.
func (c *Catalog) Check(name string, args map[string]any) error {
	i, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}
	s := c.tools[i].schema
	if s == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	inst, err := jsv.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse arguments: %w", err)
	}
	if err := s.Validate(inst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
