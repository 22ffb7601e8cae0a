package util

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// ValidationError reports the first argument that does not satisfy a schema.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema reflects an object schema from a struct value or pointer.
//
// The property name comes from the json tag, "description" and a comma
// separated "enum" tag annotate it. Fields without omitempty that are not
// pointers are required. Slices of structs get a nested items schema.
// Anything that is not a struct yields an empty object schema.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	properties := map[string]any{}
	schema := map[string]any{"type": "object", "properties": properties}

	if t == nil || t.Kind() != reflect.Struct {
		return schema
	}

	var required []string

	for i := range t.NumField() {
		field := t.Field(i)

		name, opts, ok := jsonName(field)
		if !ok {
			continue
		}

		properties[name] = propertySchema(field)

		if !slices.Contains(opts, "omitempty") && field.Type.Kind() != reflect.Ptr {
			required = append(required, name)
		}
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// jsonName resolves the wire name of an exported field and its tag options.
func jsonName(field reflect.StructField) (string, []string, bool) {
	if !field.IsExported() {
		return "", nil, false
	}

	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", nil, false
	}

	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" {
		return field.Name, parts[1:], true
	}

	return parts[0], parts[1:], true
}

func propertySchema(field reflect.StructField) map[string]any {
	prop := map[string]any{"type": jsonType(field.Type)}

	if desc := field.Tag.Get("description"); desc != "" {
		prop["description"] = desc
	}

	if enum := field.Tag.Get("enum"); enum != "" {
		prop["enum"] = strings.Split(enum, ",")
	}

	if ft := field.Type; ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Struct {
		prop["items"] = CreateSchema(reflect.New(ft.Elem()).Elem().Interface())
	}

	return prop
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return "string"
	}
}

// ValidateParameters checks params against an object schema: required
// properties must be present and non-nil, known properties must match their
// declared type and enum. Unknown properties are ignored.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	for _, name := range stringList(schema["required"]) {
		if v, ok := params[name]; !ok || v == nil {
			return &ValidationError{Field: name, Message: "required field is missing"}
		}
	}

	properties, _ := schema["properties"].(map[string]any)

	for name, value := range params {
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}

		if err := checkProperty(name, value, prop); err != nil {
			return err
		}
	}

	return nil
}

func checkProperty(name string, value any, prop map[string]any) error {
	want, _ := prop["type"].(string)
	if !matchesType(value, want) {
		return &ValidationError{
			Field:   name,
			Value:   value,
			Message: fmt.Sprintf("expected type %s, got %T", want, value),
		}
	}

	allowed := stringList(prop["enum"])
	if s, ok := value.(string); ok && len(allowed) > 0 && !slices.Contains(allowed, s) {
		return &ValidationError{
			Field:   name,
			Value:   value,
			Message: fmt.Sprintf("value must be one of %s", strings.Join(allowed, ", ")),
		}
	}

	return nil
}

// stringList accepts both []string and JSON decoded []any.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// matchesType reports whether a decoded JSON value fits a schema type. nil
// and unknown types always match.
func matchesType(value any, want string) bool {
	if value == nil {
		return true
	}

	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	}
	return true
}
