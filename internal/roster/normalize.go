// Package roster turns the gateway's loosely-typed session and cron
// payloads into the view models the dashboard pages render.
package roster

import "strings"

// NormalizeList locates the actual list inside a decoded gateway payload.
// An array is returned verbatim. An object is probed with the caller's
// field names in order (dotted names walk nested objects) and the first
// array found wins. Anything else yields an empty slice, never nil.
func NormalizeList(raw any, fields ...string) []any {
	if list, ok := raw.([]any); ok {
		return list
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return []any{}
	}
	for _, field := range fields {
		if list, ok := lookupArray(obj, field); ok {
			return list
		}
	}
	return []any{}
}

// lookupArray resolves a possibly dotted field path to an array value.
func lookupArray(obj map[string]any, path string) ([]any, bool) {
	cur := obj
	parts := strings.Split(path, ".")
	for i, part := range parts {
		val, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			list, ok := val.([]any)
			return list, ok
		}
		cur, ok = val.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// Record is one untyped session or cron entry.
type Record map[string]any

// asRecord converts a list element to a Record, tolerating non-objects.
func asRecord(v any) (Record, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

// Str returns the first non-empty string value among the given keys.
func (r Record) Str(keys ...string) string {
	for _, k := range keys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Num returns the numeric value of key, or 0. JSON numbers decode as
// float64; integral values stored as float64 round-trip exactly up to 2^53.
func (r Record) Num(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the boolean value of key, or false.
func (r Record) Bool(key string) bool {
	b, ok := r[key].(bool)
	return ok && b
}
