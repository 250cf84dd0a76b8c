package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Result is the outcome of decoding an LLM response. Exactly one of the two
// branches is populated: Value when the payload parsed, or Raw/Err when it
// did not. Callers must branch on OK; decoding never raises.
type Result struct {
	OK    bool
	Value map[string]any
	Raw   string
	Err   error
}

// Decode parses free-text model output that is expected to be a single JSON
// object. It tolerates markdown code fences, surrounding prose, and
// double-escaped unicode sequences.
func Decode(raw json.RawMessage) Result {
	trimmed := stripFences(strings.TrimSpace(string(raw)))
	var value map[string]any
	if err := UnmarshalFlex([]byte(trimmed), &value); err != nil {
		// Last resort: extract the outermost {...} span from surrounding prose.
		if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
			if err2 := UnmarshalFlex([]byte(trimmed[start:end+1]), &value); err2 == nil {
				return Result{OK: true, Value: value}
			}
		}
		return Result{Raw: string(raw), Err: err}
	}
	return Result{OK: true, Value: value}
}

// Number extracts a float field from a decoded object, accepting JSON
// numbers as well as quoted numerics ("7.5", "+0.5"), which several models
// emit despite instructions. Returns fallback when the key is absent or
// unusable.
func (r Result) Number(key string, fallback float64) float64 {
	if !r.OK {
		return fallback
	}
	switch v := r.Value[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(v), "+")), &f); err == nil {
			return f
		}
	}
	return fallback
}

// Text extracts a string field, or fallback when absent.
func (r Result) Text(key, fallback string) string {
	if !r.OK {
		return fallback
	}
	if s, ok := r.Value[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Flag extracts a bool field, or fallback when absent.
func (r Result) Flag(key string, fallback bool) bool {
	if !r.OK {
		return fallback
	}
	if b, ok := r.Value[key].(bool); ok {
		return b
	}
	return fallback
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into <, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// 1) Direct unmarshal
// 2) Normalize double-escaped unicode and unmarshal again
func UnmarshalFlex(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	norm, err := NormalizeJSONUnicode(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// UnescapeUnicodeString converts JSON unicode escapes like ">" into actual
// characters. Handles double-escaped sequences like "\\u003e" -> ">".
func UnescapeUnicodeString(s string) (string, error) {
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

// NormalizeJSONUnicode parses JSON bytes and recursively unescapes any
// remaining double-escaped unicode sequences inside string values. It also
// unwraps payloads where the entire JSON object arrives as a quoted string.
func NormalizeJSONUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return nil, err
		}
		raw = []byte(s)
		if err := json.Unmarshal(raw, &anyVal); err != nil {
			var s2 string
			if err3 := json.Unmarshal(raw, &s2); err3 == nil {
				if err := json.Unmarshal([]byte(s2), &anyVal); err == nil {
					goto DONE
				}
			}
			return nil, errors.New("NormalizeJSONUnicode: cannot parse JSON payload")
		}
	}
DONE:
	normalized := deepUnescape(anyVal)
	return MarshalNoEscape(normalized)
}

// deepUnescape recursively traverses maps and slices, unescaping unicode
// sequences in all string values.
func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
