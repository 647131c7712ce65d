// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fieldcodec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/tcupboard/pkg/pointer"
)

// # Scalar Coercion
//
// Row values come from pgx (int32, int64, time.Time), from JSON round-trips
// (float64, json.Number, RFC 3339 text) or from previously formatted records.

// timeLayouts lists the textual timestamp forms observed in stored rows.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Lookup returns the first present value among the given column names.
// Later names are legacy aliases of renamed columns.
func Lookup(row map[string]any, names ...string) any {
	for _, name := range names {
		if value, ok := row[name]; ok && value != nil {
			return value
		}
	}
	return nil
}

// Int coerces an integer-like value. A nil value is malformed.
func Int(field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, malformed(field, value, fmt.Errorf("non-integral number %v", v))
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, malformed(field, value, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, malformed(field, value, err)
		}
		return n, nil
	case nil:
		return 0, malformed(field, value, fmt.Errorf("missing value"))
	default:
		return 0, malformed(field, value, fmt.Errorf("unsupported integer type %T", value))
	}
}

// OptionalInt is [Int] for nullable columns.
func OptionalInt(field string, value any) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if p, ok := value.(*int); ok {
		return p, nil
	}
	n, err := Int(field, value)
	if err != nil {
		return nil, err
	}
	return pointer.To(n), nil
}

// String coerces a text-like value. nil becomes "".
func String(field string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case *string:
		if v == nil {
			return "", nil
		}
		return *v, nil
	case []byte:
		return string(v), nil
	default:
		return "", malformed(field, value, fmt.Errorf("unsupported text type %T", value))
	}
}

// OptionalString is [String] for nullable columns; nil and "" stay absent.
func OptionalString(field string, value any) (*string, error) {
	s, err := String(field, value)
	if err != nil || s == "" {
		return nil, err
	}
	return pointer.To(s), nil
}

// Time coerces a timestamp value. nil yields the zero time.
func Time(field string, value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, nil
		}
		return *v, nil
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return time.Time{}, nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, malformed(field, value, fmt.Errorf("unrecognised timestamp %q", text))
	default:
		return time.Time{}, malformed(field, value, fmt.Errorf("unsupported timestamp type %T", value))
	}
}
