package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time decodes a stored timestamp. Unknown shapes decode to the zero time.
func Time(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
	case int64:
		return time.UnixMilli(t).UTC()
	case int:
		return time.UnixMilli(int64(t)).UTC()
	case float64:
		return time.UnixMilli(int64(t)).UTC()
	case map[string]any:
		// {seconds, nanoseconds} written by clients that serialized a timestamp object
		secs, ok := Int(t["seconds"])
		if !ok {
			return time.Time{}
		}
		nanos, _ := Int(t["nanoseconds"])
		return time.Unix(int64(secs), int64(nanos)).UTC()
	}
	return time.Time{}
}

// DateString renders a stored date as text. Timestamps become YYYY-MM-DD.
func DateString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		if tm := Time(v); !tm.IsZero() {
			return tm.Format("2006-01-02")
		}
	}
	return ""
}

// Decimal decodes a stored amount. Missing or unparsable values decode to zero.
func Decimal(v any) decimal.Decimal {
	d, _ := DecimalPtr(v)
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// DecimalPtr decodes an optional amount. The bool is false when v held something unparsable.
func DecimalPtr(v any) (*decimal.Decimal, bool) {
	var d decimal.Decimal
	switch n := v.(type) {
	case nil:
		return nil, true
	case int64:
		d = decimal.NewFromInt(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case float64:
		d = decimal.NewFromFloat(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, true
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return nil, false
		}
		d = parsed
	default:
		return nil, false
	}
	return &d, true
}

// Int decodes a stored whole number
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// IntPtr decodes an optional whole number
func IntPtr(v any) *int {
	i, ok := Int(v)
	if !ok {
		return nil
	}
	return &i
}

// String decodes a stored scalar as text
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case map[string]any:
		if name, ok := s["name"].(string); ok {
			return name
		}
	}
	return ""
}

// Float renders an amount the way storefront clients read it
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
