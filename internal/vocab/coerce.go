package vocab

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Coercion helpers for untyped JSON values. Decoded JSON arrives as
// map[string]any / []any / float64 / string / bool / nil, or json.Number
// when the decoder was configured with UseNumber.

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// toFloat reports false when the value has no numeric reading, mirroring
// a NaN result from Number(...).
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		return s == "true" || s == "1"
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}

// timeLayouts are tried in order for string timestamps. The first two
// cover everything this program writes; the rest tolerate hand-edited or
// legacy input.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime parses a timestamp from a string or an epoch number. Values in
// the hundreds of billions and up are read as milliseconds, the JS
// Date.now() convention; anything unparseable yields nil.
func toTime(v any) *time.Time {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				ts = ts.UTC()
				return &ts
			}
		}
		return nil
	case float64, json.Number:
		f, ok := toFloat(t)
		if !ok || f <= 0 {
			return nil
		}
		var ts time.Time
		if f >= 1e11 {
			ts = time.UnixMilli(int64(f)).UTC()
		} else {
			ts = time.Unix(int64(f), 0).UTC()
		}
		return &ts
	default:
		return nil
	}
}

// clampFloat coerces v like Number(...), substitutes the range minimum
// for a non-numeric reading, and clamps the result.
func clampFloat(v any, minVal, maxVal float64) float64 {
	f, ok := toFloat(v)
	if !ok {
		f = minVal
	}
	return math.Min(math.Max(f, minVal), maxVal)
}

// clampInt is clampFloat truncated to an integer.
func clampInt(v any, minVal, maxVal int) int {
	return int(clampFloat(v, float64(minVal), float64(maxVal)))
}
