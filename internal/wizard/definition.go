package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the value type a field holds
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindList   Kind = "list"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid field value")
	ErrBadDefinition = errors.New("invalid wizard definition")
)

// Field is one input on a wizard step.
//
// Rule is a validator tag; an empty Rule makes the field optional. Message is
// shown for any failed rule unless Messages has an entry for the failed tag.
// Check runs after Rule passes and returns a message when the value is rejected.
type Field struct {
	Name      string
	Label     string
	Kind      Kind
	Rule      string
	Message   string
	Messages  map[string]string
	Check     func(value any) string
	Normalize func(string) string
}

// Step is a page of the wizard. A step without fields is a review page.
type Step struct {
	Title  string
	Fields []Field
}

// Definition is the configuration table one wizard engine runs
type Definition struct {
	Name  string
	Steps []Step

	fields map[string]fieldRef
}

type fieldRef struct {
	step  int
	field Field
}

// NewDefinition validates the table: at least one step and unique, named fields.
func NewDefinition(name string, steps ...Step) (*Definition, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadDefinition)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: %s has no steps", ErrBadDefinition, name)
	}

	def := &Definition{Name: name, Steps: steps, fields: make(map[string]fieldRef)}
	for i, step := range steps {
		for _, f := range step.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("%w: %s step %d has an unnamed field", ErrBadDefinition, name, i+1)
			}
			if _, dup := def.fields[f.Name]; dup {
				return nil, fmt.Errorf("%w: %s declares %q twice", ErrBadDefinition, name, f.Name)
			}
			switch f.Kind {
			case "":
				f.Kind = KindString
			case KindString, KindBool, KindList:
			default:
				return nil, fmt.Errorf("%w: %s field %q has kind %q", ErrBadDefinition, name, f.Name, f.Kind)
			}
			def.fields[f.Name] = fieldRef{step: i + 1, field: f}
		}
	}
	return def, nil
}

// MustDefinition is NewDefinition for package-level tables
func MustDefinition(name string, steps ...Step) *Definition {
	def, err := NewDefinition(name, steps...)
	if err != nil {
		panic(err)
	}
	return def
}

// StepCount returns the number of steps
func (d *Definition) StepCount() int {
	return len(d.Steps)
}

// Field looks up a field by name
func (d *Definition) Field(name string) (Field, bool) {
	ref, ok := d.fields[name]
	return ref.field, ok
}

// StepOf returns the 1-based step a field belongs to, or 0
func (d *Definition) StepOf(name string) int {
	return d.fields[name].step
}

// StepFields returns the fields of a 1-based step
func (d *Definition) StepFields(step int) []Field {
	if step < 1 || step > len(d.Steps) {
		return nil
	}
	fields := d.Steps[step-1].Fields
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, d.fields[f.Name].field)
	}
	return out
}

// zero returns the empty value of the field's kind
func (f Field) zero() any {
	switch f.Kind {
	case KindBool:
		return false
	case KindList:
		return []string{}
	default:
		return ""
	}
}

// coerce converts a decoded JSON value into the field's kind
func (f Field) coerce(value any) (any, error) {
	if value == nil {
		return f.zero(), nil
	}

	switch f.Kind {
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidValue, f.Name)
		}
		return b, nil
	case KindList:
		switch v := value.(type) {
		case []string:
			return f.normalizeList(v), nil
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidValue, f.Name)
				}
				items = append(items, s)
			}
			return f.normalizeList(items), nil
		default:
			return nil, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidValue, f.Name)
		}
	default:
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case float64:
			// JSON numbers, e.g. {"year": 2023}
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			s = strconv.Itoa(v)
		default:
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidValue, f.Name)
		}
		if f.Normalize != nil {
			s = f.Normalize(s)
		}
		return s, nil
	}
}

// normalizeList drops blanks and duplicates, keeping first-seen order
func (f Field) normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if f.Normalize != nil {
			item = f.Normalize(item)
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (f Field) message(tag string) string {
	if msg, ok := f.Messages[tag]; ok {
		return msg
	}
	if f.Message != "" {
		return f.Message
	}
	label := f.Label
	if label == "" {
		label = f.Name
	}
	return fmt.Sprintf("%s failed %s validation", label, tag)
}
