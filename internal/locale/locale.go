// Package locale resolves the caller's display language and projects
// localized JSON objects ({"uz": "...", "en": "..."}) down to one string.
//
// Everything here is a pure function of its arguments: the resolved
// language is passed explicitly, there is no package-level state.
package locale

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Set is the canonical list of supported language codes plus the default.
// One Set is built from configuration and shared by every caller.
type Set struct {
	index     map[string]struct{}
	def       string
	supported []string
}

// NewSet validates and builds a language set. Codes are lower-cased.
func NewSet(supported []string, def string) (*Set, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("supported language list cannot be empty")
	}

	s := &Set{
		index:     make(map[string]struct{}, len(supported)),
		supported: make([]string, 0, len(supported)),
	}

	for _, code := range supported {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("language code cannot be empty")
		}
		if _, dup := s.index[code]; dup {
			return nil, fmt.Errorf("duplicate language code %q", code)
		}
		s.index[code] = struct{}{}
		s.supported = append(s.supported, code)
	}

	def = strings.ToLower(strings.TrimSpace(def))
	if _, ok := s.index[def]; !ok {
		return nil, fmt.Errorf("default language %q is not in the supported list", def)
	}
	s.def = def

	return s, nil
}

// MustSet is NewSet that panics on error. Intended for tests and literals.
func MustSet(supported []string, def string) *Set {
	s, err := NewSet(supported, def)
	if err != nil {
		panic(err)
	}
	return s
}

// Supported returns a copy of the supported codes in configured order.
func (s *Set) Supported() []string {
	return slices.Clone(s.supported)
}

// Default returns the fallback language.
func (s *Set) Default() string {
	return s.def
}

// IsSupported reports whether code is one of the configured languages.
func (s *Set) IsSupported(code string) bool {
	_, ok := s.index[code]
	return ok
}

// Resolve normalizes a caller-supplied tag to its primary subtag
// ("ru-RU" -> "ru", "uz_Latn" -> "uz") and falls back to the default
// language when the result is not supported.
func (s *Set) Resolve(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}

	if s.IsSupported(tag) {
		return tag
	}
	return s.def
}

type preferredKey struct{}

// WithPreferred stores the raw language preference negotiated by the
// transport layer (query parameter or Accept-Language).
func WithPreferred(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, preferredKey{}, raw)
}

// Preferred returns the raw preference stored by WithPreferred.
func Preferred(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(preferredKey{}).(string)
	return raw, ok
}

// ResolveContext resolves the language for the current request.
// A context without a stored preference resolves to the default.
func (s *Set) ResolveContext(ctx context.Context) string {
	raw, _ := Preferred(ctx)
	return s.Resolve(raw)
}

// FromContext returns the language resolved for ctx against set.
func FromContext(ctx context.Context, set *Set) string {
	return set.ResolveContext(ctx)
}
