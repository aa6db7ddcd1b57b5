package contract

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONSchema exports the contract as a JSON Schema object for callers that
// consume classification output. Validate remains the authority on acceptance.
func (c *Contract) JSONSchema() *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	for _, f := range c.fields {
		prop := &jsonschema.Schema{Type: "string"}
		switch f.Constraint.Kind {
		case KindEnum:
			prop.Enum = make([]any, len(f.Constraint.Values))
			for i, v := range f.Constraint.Values {
				prop.Enum[i] = v
			}
		case KindMaxLen:
			n := uint64(f.Constraint.MaxLen)
			prop.MaxLength = &n
		}
		props.Set(f.Name, prop)
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             c.RequiredFields(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
}
