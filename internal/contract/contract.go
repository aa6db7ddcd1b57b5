// Package contract describes what a valid structured payload looks like and
// decides whether a candidate payload satisfies that description.
//
// A Contract is built once at configuration time and shared read-only by the
// validator and by prompt construction, so the model is told the same rules
// it is later checked against.
package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ConstraintKind identifies how a field's value is checked.
type ConstraintKind int

const (
	// KindFree accepts any string.
	KindFree ConstraintKind = iota
	// KindEnum accepts one of a fixed set of string literals (case-sensitive).
	KindEnum
	// KindMaxLen accepts a string of at most MaxLen characters.
	KindMaxLen
)

// Constraint is the domain of a single field.
type Constraint struct {
	Kind   ConstraintKind
	Values []string // KindEnum only
	MaxLen int      // KindMaxLen only; counted in characters, not bytes
}

// Enum returns a constraint allowing exactly the given literals.
func Enum(values ...string) Constraint {
	out := make([]string, len(values))
	copy(out, values)
	return Constraint{Kind: KindEnum, Values: out}
}

// MaxLen returns a constraint allowing strings of at most n characters.
func MaxLen(n int) Constraint {
	return Constraint{Kind: KindMaxLen, MaxLen: n}
}

// FreeString returns a constraint allowing any string.
func FreeString() Constraint {
	return Constraint{Kind: KindFree}
}

// Allows reports whether s is one of the enum literals.
func (c Constraint) Allows(s string) bool {
	for _, v := range c.Values {
		if v == s {
			return true
		}
	}
	return false
}

// String renders the constraint the way it is shown to the model.
func (c Constraint) String() string {
	switch c.Kind {
	case KindEnum:
		quoted := make([]string, len(c.Values))
		for i, v := range c.Values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return "one of [" + strings.Join(quoted, ", ") + "]"
	case KindMaxLen:
		return fmt.Sprintf("string, max length = %d", c.MaxLen)
	default:
		return "string"
	}
}

// Field pairs a required field name with its constraint.
type Field struct {
	Name       string
	Constraint Constraint
}

// Contract is an immutable set of required fields and their domains.
type Contract struct {
	fields []Field
	index  map[string]int
}

var (
	errNoFields       = errors.New("contract: at least one field is required")
	errEmptyFieldName = errors.New("contract: field name must not be empty")
)

// New builds a Contract. Field order is kept for rendering and for the order
// in which values are checked.
func New(fields ...Field) (*Contract, error) {
	if len(fields) == 0 {
		return nil, errNoFields
	}
	c := &Contract{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errEmptyFieldName
		}
		if _, dup := c.index[f.Name]; dup {
			return nil, fmt.Errorf("contract: duplicate field %q", f.Name)
		}
		switch f.Constraint.Kind {
		case KindEnum:
			if len(f.Constraint.Values) == 0 {
				return nil, fmt.Errorf("contract: enum field %q has no allowed values", f.Name)
			}
			f.Constraint = Enum(f.Constraint.Values...)
		case KindMaxLen:
			if f.Constraint.MaxLen <= 0 {
				return nil, fmt.Errorf("contract: field %q needs a positive max length", f.Name)
			}
		}
		c.index[f.Name] = len(c.fields)
		c.fields = append(c.fields, f)
	}
	return c, nil
}

// EmailTriage returns the customer-mail classification contract:
// category and urgency enums plus a bounded summary.
func EmailTriage(categories, urgency []string, summaryMaxLen int) (*Contract, error) {
	return New(
		Field{Name: "category", Constraint: Enum(categories...)},
		Field{Name: "urgency", Constraint: Enum(urgency...)},
		Field{Name: "summary", Constraint: MaxLen(summaryMaxLen)},
	)
}

// RequiredFields returns the field names in declaration order.
func (c *Contract) RequiredFields() []string {
	out := make([]string, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.Name
	}
	return out
}

// DomainOf returns the constraint for name.
func (c *Contract) DomainOf(name string) (Constraint, bool) {
	i, ok := c.index[name]
	if !ok {
		return Constraint{}, false
	}
	return c.fields[i].Constraint, true
}

// Fields returns a copy of the contract's fields.
func (c *Contract) Fields() []Field {
	out := make([]Field, len(c.fields))
	for i, f := range c.fields {
		f.Constraint.Values = append([]string(nil), f.Constraint.Values...)
		out[i] = f
	}
	return out
}

// Describe renders the contract as prompt text, one field per line.
func (c *Contract) Describe() string {
	var b strings.Builder
	for _, f := range c.fields {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Constraint)
	}
	return b.String()
}
