package jsonrepair

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// conform reshapes a generic JSON value so it fits t.
//
// Leaves of the wrong JSON type become nil. Numeric and boolean strings are
// parsed for number and bool fields, numbers and booleans are formatted for
// string fields, and a single value where a list is expected becomes a
// one-element list. Null list elements are dropped. Keys that t does not
// declare are discarded.
func conform(v any, t reflect.Type) any {
	if v == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Interface:
		return v
	case reflect.String:
		return conformString(v)
	case reflect.Bool:
		return conformBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := conformNumber(v)
		if !ok {
			return nil
		}
		if t.Kind() >= reflect.Uint && f < 0 {
			return nil
		}
		return math.Trunc(f)
	case reflect.Float32, reflect.Float64:
		f, ok := conformNumber(v)
		if !ok {
			return nil
		}
		return f
	case reflect.Slice, reflect.Array:
		return conformList(v, t.Elem())
	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok || t.Key().Kind() != reflect.String {
			return nil
		}
		out := make(map[string]any, len(m))
		for k, e := range m {
			if c := conform(e, t.Elem()); c != nil {
				out[k] = c
			}
		}
		return out
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		out := make(map[string]any, len(m))
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, ok := fieldName(f)
			if !ok {
				continue
			}
			e, present := m[name]
			if !present {
				continue
			}
			out[name] = conform(e, f.Type)
		}
		return out
	default:
		return nil
	}
}

func conformList(v any, elem reflect.Type) []any {
	items, ok := v.([]any)
	if !ok {
		if c := conform(v, elem); c != nil {
			return []any{c}
		}
		return []any{}
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		if c := conform(it, elem); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func conformString(v any) any {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return nil
	}
}

func conformBool(v any) any {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		return b
	default:
		return nil
	}
}

func conformNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// fieldName reports the JSON key of an exported struct field.
func fieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return f.Name, true
}
