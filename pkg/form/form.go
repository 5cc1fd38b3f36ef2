// Package form encodes ordered key/value mappings as UTF-8 form bodies and query strings.
package form

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Field is one key/value pair of a mapping.
type Field struct {
	Key   string
	Value any
}

// Fields is a mapping that keeps insertion order.
type Fields []Field

// Add appends key=value and returns the extended mapping.
func (f Fields) Add(key string, value any) Fields {
	return append(f, Field{Key: key, Value: value})
}

// FromMap converts an unordered map into Fields sorted by key.
func FromMap(m map[string]any) Fields {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Fields, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: m[k]})
	}
	return out
}

// Map returns the fields as a plain map; a later duplicate key wins.
func (f Fields) Map() map[string]any {
	out := make(map[string]any, len(f))
	for _, field := range f {
		out[field.Key] = field.Value
	}
	return out
}

// Encode renders the fields as application/x-www-form-urlencoded text.
// Blank keys are skipped; nil values encode as an empty value.
func Encode(fields Fields) string {
	var sb strings.Builder
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(formatValue(field.Value)))
	}
	return sb.String()
}

// URLWithQuery appends the encoded fields to rawURL's query string. An existing query
// is kept as-is and the new pairs follow it; a fragment stays at the end.
func URLWithQuery(rawURL string, fields Fields) string {
	query := Encode(fields)
	if query == "" {
		return rawURL
	}

	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	switch {
	case !strings.Contains(base, "?"):
		base += "?" + query
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		base += query
	default:
		base += "&" + query
	}

	if hasFragment {
		return base + "#" + fragment
	}
	return base
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = formatValue(p)
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
