// Package mapsafe reads typed values out of the map[string]any documents
// that YAML decoding produces, without panicking on missing keys or
// mismatched types.
package mapsafe

// Get retrieves a typed value from a map[string]any. If the key is
// missing or the value cannot be converted, it returns the default.
// Numeric values are converted between int and float64, since YAML
// decoders disagree on which one a bare number becomes.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	val, ok := m[key]
	if !ok {
		return defaultValue
	}
	switch any(defaultValue).(type) {
	case int:
		switch x := val.(type) {
		case int:
			return any(x).(T)
		case float64:
			return any(int(x)).(T)
		}
	case float64:
		switch x := val.(type) {
		case float64:
			return any(x).(T)
		case int:
			return any(float64(x)).(T)
		}
	case string:
		if s, ok := val.(string); ok {
			return any(s).(T)
		}
	case bool:
		if b, ok := val.(bool); ok {
			return any(b).(T)
		}
	default:
		if v, ok := val.(T); ok {
			return v
		}
	}
	return defaultValue
}

// Section returns the nested mapping under key, or an empty map when the
// key is missing or holds something else. The result is safe to pass to
// Get without nil checks.
func Section(m map[string]any, key string) map[string]any {
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}
