package contract

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// ViolationKind categorises why a candidate was rejected.
type ViolationKind int

const (
	NotParseable ViolationKind = iota + 1
	KeySetMismatch
	ValueOutOfDomain
	LengthExceeded
)

func (k ViolationKind) String() string {
	switch k {
	case NotParseable:
		return "not_parseable"
	case KeySetMismatch:
		return "key_set_mismatch"
	case ValueOutOfDomain:
		return "value_out_of_domain"
	case LengthExceeded:
		return "length_exceeded"
	}
	return "unknown"
}

// Violation is a categorised rejection. It is a value, not an error: the
// repair loop turns it into the next prompt.
type Violation struct {
	Kind   ViolationKind
	Field  string   // ValueOutOfDomain, LengthExceeded
	Value  any      // ValueOutOfDomain
	Keys   []string // KeySetMismatch: the keys actually present, sorted
	Want   []string // KeySetMismatch: the required fields
	Limit  int      // LengthExceeded: the configured maximum
	Detail string   // NotParseable: parser message
}

// Reason is the human-readable explanation fed back to the model.
func (v Violation) Reason() string {
	switch v.Kind {
	case NotParseable:
		if v.Detail != "" {
			return "output is not valid JSON: " + v.Detail
		}
		return "output is not valid JSON"
	case KeySetMismatch:
		return fmt.Sprintf("schema keys mismatch: got [%s], want [%s]",
			strings.Join(v.Keys, ", "), strings.Join(v.Want, ", "))
	case ValueOutOfDomain:
		return fmt.Sprintf("invalid %s value: %v", v.Field, render(v.Value))
	case LengthExceeded:
		return fmt.Sprintf("invalid %s length: must be a string of at most %d characters", v.Field, v.Limit)
	}
	return "unknown violation"
}

func (v Violation) String() string { return v.Kind.String() + ": " + v.Reason() }

func render(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Outcome is either an accepted payload or a violation.
type Outcome struct {
	Payload   map[string]any
	Violation *Violation
}

// Accepted reports whether the candidate satisfied the contract.
func (o Outcome) Accepted() bool { return o.Violation == nil }

func reject(v Violation) Outcome { return Outcome{Violation: &v} }

// Validate checks candidate against c. Checks run in order and stop at the
// first failure: parse, key set, then each field's domain in declaration order.
// Validate has no side effects.
func Validate(c *Contract, candidate string) Outcome {
	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return reject(Violation{Kind: NotParseable, Detail: err.Error()})
	}
	if payload == nil {
		return reject(Violation{Kind: NotParseable, Detail: "payload is not an object"})
	}

	if !sameKeys(payload, c) {
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return reject(Violation{Kind: KeySetMismatch, Keys: keys, Want: c.RequiredFields()})
	}

	for _, f := range c.fields {
		if v := checkField(f, payload[f.Name]); v != nil {
			return reject(*v)
		}
	}
	return Outcome{Payload: payload}
}

func sameKeys(payload map[string]any, c *Contract) bool {
	if len(payload) != len(c.fields) {
		return false
	}
	for k := range payload {
		if _, ok := c.index[k]; !ok {
			return false
		}
	}
	return true
}

func checkField(f Field, value any) *Violation {
	s, isString := value.(string)
	switch f.Constraint.Kind {
	case KindEnum:
		if !isString || !f.Constraint.Allows(s) {
			return &Violation{Kind: ValueOutOfDomain, Field: f.Name, Value: value}
		}
	case KindMaxLen:
		if !isString || utf8.RuneCountInString(s) > f.Constraint.MaxLen {
			return &Violation{Kind: LengthExceeded, Field: f.Name, Limit: f.Constraint.MaxLen}
		}
	default:
		if !isString {
			return &Violation{Kind: ValueOutOfDomain, Field: f.Name, Value: value}
		}
	}
	return nil
}
