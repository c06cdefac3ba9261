package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldKind describes how a schema field is edited and coerced.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindInt      FieldKind = "int"
	KindBool     FieldKind = "bool"
	KindEnum     FieldKind = "enum"
	KindURL      FieldKind = "url"
	KindEmail    FieldKind = "email"
)

// Option is one allowed value of an enum field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one editable field of a record schema.
type Field struct {
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	Kind         FieldKind `json:"kind"`
	Required     bool      `json:"required,omitempty"`
	Options      []Option  `json:"options,omitempty"`
	UploadFolder string    `json:"upload_folder,omitempty"`
	Listed       bool      `json:"listed,omitempty"`
	Default      any       `json:"default,omitempty"`
}

// OptionLabel returns the display label for an enum value, or the value itself.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Schema drives the generic record editor: which fields exist, how they are coerced,
// which are listed in the table and how the list is ordered.
type Schema struct {
	Collection string  `json:"collection"`
	Resource   string  `json:"resource"`
	Title      string  `json:"title"`
	Noun       string  `json:"noun"`
	Plural     string  `json:"plural"`
	Fields     []Field `json:"fields"`
	SortBy     string  `json:"sort_by,omitempty"`
	// Sequence names an integer field whose default on a new record is max(existing)+1.
	Sequence string `json:"sequence,omitempty"`
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns the initial form values of a new record.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if f.Default != nil {
			out[f.Name] = f.Default
			continue
		}
		switch f.Kind {
		case KindInt:
			out[f.Name] = 0
		case KindBool:
			out[f.Name] = false
		default:
			out[f.Name] = ""
		}
	}
	return out
}

// CoercionError reports a field whose submitted value has the wrong type.
type CoercionError struct {
	Field  string
	Reason string
}

// CoercionErrors collects every field that failed coercion.
type CoercionErrors []CoercionError

func (e CoercionErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, c := range e {
		parts = append(parts, c.Field+": "+c.Reason)
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Coerce keeps only the schema's fields from in and converts each value to its
// storage type (string, int or bool). Absent fields stay absent so the result can
// be used as a merge patch.
func (s Schema) Coerce(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	var errs CoercionErrors
	for _, f := range s.Fields {
		raw, ok := in[f.Name]
		if !ok {
			continue
		}
		v, err := coerceValue(f.Kind, raw)
		if err != nil {
			errs = append(errs, CoercionError{Field: f.Name, Reason: err.Error()})
			continue
		}
		out[f.Name] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func coerceValue(kind FieldKind, raw any) (any, error) {
	switch kind {
	case KindInt:
		return coerceInt(raw)
	case KindBool:
		return coerceBool(raw)
	default:
		switch v := raw.(type) {
		case nil:
			return "", nil
		case string:
			if kind == KindText || kind == KindTextArea {
				return v, nil
			}
			return strings.TrimSpace(v), nil
		default:
			return nil, fmt.Errorf("expected a string")
		}
	}
}

func coerceInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected a whole number")
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected a whole number")
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected a whole number")
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected a whole number")
	}
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true, nil
		case "false", "off", "0", "no", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected true or false")
}
