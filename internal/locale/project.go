package locale

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Project rewrites every localized field inside v into the string for lang.
//
// A map or *Object is a localized field when at least one of its keys is a
// supported language code. Such a value resolves to v[lang], then
// v[default], then its first value; nothing inside it is visited further.
// Other maps are copied with each value projected, slices are mapped in
// order, everything else is returned unchanged. Project never fails.
//
// For *Object the first value is the first one inserted. Go maps have no
// order, so for them the first value is taken in supported-set order, then
// by key.
func (s *Set) Project(v any, lang string) any {
	switch val := v.(type) {
	case nil:
		return nil

	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = s.Project(item, lang)
		}
		return out

	case *Object:
		if val == nil {
			return val
		}
		if s.isLocalized(val.keys) {
			return s.pick(val.Get, val.keys, lang)
		}
		out := NewObject()
		for _, key := range val.keys {
			out.Set(key, s.Project(val.values[key], lang))
		}
		return out

	case map[string]any:
		keys := orderedKeys(s, val)
		if s.isLocalized(keys) {
			return s.pick(func(k string) (any, bool) {
				item, ok := val[k]
				return item, ok
			}, keys, lang)
		}
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[key] = s.Project(item, lang)
		}
		return out

	case map[string]string:
		keys := orderedKeys(s, val)
		if s.isLocalized(keys) {
			return s.pick(func(k string) (any, bool) {
				item, ok := val[k]
				return item, ok
			}, keys, lang)
		}
		out := make(map[string]string, len(val))
		for key, item := range val {
			out[key] = item
		}
		return out
	}

	return v
}

// ProjectJSON decodes raw JSON keeping key order, projects it to lang and
// encodes the result. It only fails on malformed input.
func (s *Set) ProjectJSON(raw []byte, lang string) ([]byte, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(s.Project(v, lang))
	if err != nil {
		return nil, fmt.Errorf("locale: failed to encode projection: %w", err)
	}
	return out, nil
}

// isLocalized: пустой объект локализованным полем не считается
func (s *Set) isLocalized(keys []string) bool {
	for _, key := range keys {
		if s.IsSupported(key) {
			return true
		}
	}
	return false
}

func (s *Set) pick(get func(string) (any, bool), keys []string, lang string) any {
	if v, ok := get(lang); ok {
		return v
	}
	if v, ok := get(s.def); ok {
		return v
	}
	v, _ := get(keys[0])
	return v
}

// orderedKeys задает детерминированный порядок для неупорядоченных map
func orderedKeys[V any](s *Set, m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for _, code := range s.supported {
		if _, ok := m[code]; ok {
			keys = append(keys, code)
		}
	}

	rest := make([]string, 0, len(m)-len(keys))
	for key := range m {
		if !s.IsSupported(key) {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}
