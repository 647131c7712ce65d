// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fieldcodec

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/taibuivan/tcupboard/pkg/slice"
)

// # Array Literals
//
// Grammar:
//
//	{}            empty list
//	{e1,e2,...}   each ei is a bare token (no comma, brace, quote, backslash or
//	              whitespace) or a double-quoted token with \" and \\ escaped.

// DecodeArray converts a stored list value into an ordered string slice.
//
// Accepted shapes: nil, array literal text (string or []byte), []string and
// []any of strings (as produced by pgx for text[] columns). Native slices pass
// through; NULL elements inside a native slice are dropped.
func DecodeArray(field string, value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		if v == nil {
			return []string{}, nil
		}
		return v, nil
	case []any:
		items := make([]string, 0, len(v))
		for index, element := range v {
			switch s := element.(type) {
			case nil:
				continue
			case string:
				items = append(items, s)
			default:
				return nil, malformed(field, value, fmt.Errorf("element %d has type %T", index, element))
			}
		}
		return items, nil
	case string:
		return ParseArrayLiteral(v), nil
	case *string:
		if v == nil {
			return []string{}, nil
		}
		return ParseArrayLiteral(*v), nil
	case []byte:
		return ParseArrayLiteral(string(v)), nil
	default:
		return nil, malformed(field, value, fmt.Errorf("unsupported list type %T", value))
	}
}

// ParseArrayLiteral decodes array literal text.
//
// Parsing is permissive: a missing pair of outer braces is tolerated and an
// unterminated quoted element runs to the end of the input. Unquoted NULL
// elements are dropped. Elements are never trimmed.
func ParseArrayLiteral(text string) []string {
	body := text
	if body == "" || strings.EqualFold(body, "null") {
		return []string{}
	}

	if len(body) >= 2 && body[0] == '{' && body[len(body)-1] == '}' {
		body = body[1 : len(body)-1]
	}
	if body == "" {
		return []string{}
	}

	items := []string{}
	position := 0

	for {
		if start, quoted := quotedStart(body, position); quoted {
			element, next := readQuoted(body, start+1)
			items = append(items, element)

			// Skip anything between the closing quote and the next delimiter.
			for next < len(body) && body[next] != ',' {
				next++
			}
			position = next
		} else {
			end := strings.IndexByte(body[position:], ',')
			var token string
			if end < 0 {
				token = body[position:]
				position = len(body)
			} else {
				token = body[position : position+end]
				position += end
			}

			if !strings.EqualFold(token, "NULL") {
				items = append(items, token)
			}
		}

		if position >= len(body) {
			break
		}

		// Step over the delimiter.
		position++
	}

	return items
}

// EncodeArray renders items as array literal text. An empty or nil slice
// encodes to "{}".
func EncodeArray(items []string) string {
	if len(items) == 0 {
		return "{}"
	}

	var builder strings.Builder
	builder.WriteByte('{')

	for index, item := range items {
		if index > 0 {
			builder.WriteByte(',')
		}

		if !needsQuoting(item) {
			builder.WriteString(item)
			continue
		}

		builder.WriteByte('"')
		for i := 0; i < len(item); i++ {
			if item[i] == '"' || item[i] == '\\' {
				builder.WriteByte('\\')
			}
			builder.WriteByte(item[i])
		}
		builder.WriteByte('"')
	}

	builder.WriteByte('}')
	return builder.String()
}

// DropBlank returns a new slice without empty or whitespace-only elements.
//
// Only for caller-provided lists (form submissions). Store-provided lists are
// decoded verbatim.
func DropBlank(items []string) []string {
	return slice.Filter(items, func(item string) bool {
		return strings.TrimSpace(item) != ""
	})
}

// quotedStart reports whether the element at position opens with a quote,
// allowing leading spaces before it.
func quotedStart(body string, position int) (int, bool) {
	index := position
	for index < len(body) && body[index] == ' ' {
		index++
	}
	if index < len(body) && body[index] == '"' {
		return index, true
	}
	return position, false
}

// readQuoted reads a quoted element starting just after its opening quote.
// It returns the unescaped element and the index following the closing quote.
func readQuoted(body string, position int) (string, int) {
	var builder strings.Builder

	for position < len(body) {
		c := body[position]
		switch {
		case c == '\\' && position+1 < len(body):
			builder.WriteByte(body[position+1])
			position += 2
		case c == '"':
			return builder.String(), position + 1
		default:
			builder.WriteByte(c)
			position++
		}
	}

	return builder.String(), position
}

func needsQuoting(item string) bool {
	if item == "" || strings.EqualFold(item, "NULL") {
		return true
	}
	if strings.ContainsAny(item, `{},"\`) {
		return true
	}
	return strings.IndexFunc(item, unicode.IsSpace) >= 0
}
