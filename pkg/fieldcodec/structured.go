// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fieldcodec

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// # Structured (JSON-in-text) Fields

// DecodeStructured converts a stored link-map value into a string-keyed map.
//
// Accepted shapes:
//   - nil, empty text or JSON null: a fresh copy of defaults is returned.
//   - JSON object text (string or []byte): parsed; a parse failure or a
//     non-object document is a [*MalformedFieldError] carrying the raw text.
//   - map[string]string: returned unchanged.
//   - map[string]any (pgx json/jsonb): string values kept, nulls become "".
func DecodeStructured(field string, value any, defaults map[string]string) (map[string]string, error) {
	switch v := value.(type) {
	case nil:
		return cloneOrEmpty(defaults), nil
	case map[string]string:
		if v == nil {
			return cloneOrEmpty(defaults), nil
		}
		return v, nil
	case map[string]any:
		return fromNative(field, value, v)
	case string:
		return parseStructured(field, v, defaults)
	case *string:
		if v == nil {
			return cloneOrEmpty(defaults), nil
		}
		return parseStructured(field, *v, defaults)
	case []byte:
		return parseStructured(field, string(v), defaults)
	default:
		return nil, malformed(field, value, fmt.Errorf("unsupported mapping type %T", value))
	}
}

// EncodeStructured serialises links as JSON object text. Key order is not significant.
func EncodeStructured(links map[string]string) (string, error) {
	if links == nil {
		return "{}", nil
	}

	encoded, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("fieldcodec: encode structured field: %w", err)
	}

	return string(encoded), nil
}

// WithKeys returns a copy of links in which every key in keys is present.
// Missing keys are filled with "". The input map is not modified.
func WithKeys(links map[string]string, keys []string) map[string]string {
	completed := make(map[string]string, len(links)+len(keys))
	for _, key := range keys {
		completed[key] = ""
	}
	maps.Copy(completed, links)
	return completed
}

// EmptyDefaults builds a defaults map with every key set to "".
func EmptyDefaults(keys []string) map[string]string {
	return WithKeys(nil, keys)
}

func parseStructured(field, text string, defaults map[string]string) (map[string]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		return cloneOrEmpty(defaults), nil
	}

	var document any
	if err := json.Unmarshal([]byte(trimmed), &document); err != nil {
		return nil, malformed(field, text, err)
	}

	switch parsed := document.(type) {
	case nil:
		return cloneOrEmpty(defaults), nil
	case map[string]any:
		return fromNative(field, text, parsed)
	default:
		return nil, malformed(field, text, fmt.Errorf("expected a JSON object, got %T", document))
	}
}

func fromNative(field string, raw any, source map[string]any) (map[string]string, error) {
	links := make(map[string]string, len(source))
	for key, value := range source {
		switch s := value.(type) {
		case nil:
			links[key] = ""
		case string:
			links[key] = s
		default:
			return nil, malformed(field, raw, fmt.Errorf("key %q has non-string value of type %T", key, value))
		}
	}
	return links, nil
}

func cloneOrEmpty(defaults map[string]string) map[string]string {
	if defaults == nil {
		return map[string]string{}
	}
	return maps.Clone(defaults)
}
