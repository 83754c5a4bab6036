package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Helpers for probing a parsed JSON tree without committing to a schema.
// Field lookups take an ordered candidate key list; the first key whose
// value parses wins.

// rootObject parses data as a JSON object, or returns nil for any other shape.
func rootObject(data []byte) map[string]any {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil
	}
	return root
}

// asObject narrows a tree value to an object.
func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

// pickInt returns the first integer-compatible value under the candidate
// keys: native numbers and numeric strings both count.
func pickInt(obj map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return int(v), true
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n), true
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// pickString returns the first string value under the candidate keys.
func pickString(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if s, ok := raw.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// pickBool returns the first boolean value under the candidate keys.
func pickBool(obj map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if b, ok := raw.(bool); ok {
				return b, true
			}
		}
	}
	return false, false
}
