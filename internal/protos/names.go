package protos

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned when a name filter pattern does not compile.
var ErrInvalidPattern = errors.New("invalid name pattern")

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// NameFilter keeps or drops functions by name using glob patterns.
// A nil *NameFilter keeps everything.
type NameFilter struct {
	include []compiledPattern
	exclude []compiledPattern
}

// NewNameFilter compiles include and exclude patterns. It returns nil when
// both lists are empty. Every pattern that fails to compile is reported.
func NewNameFilter(include, exclude []string) (*NameFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	f := &NameFilter{}
	var includeErr, excludeErr error
	f.include, includeErr = compilePatterns("include", include)
	f.exclude, excludeErr = compilePatterns("exclude", exclude)
	if err := errors.Join(includeErr, excludeErr); err != nil {
		return nil, err
	}
	return f, nil
}

func compilePatterns(kind string, patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	var errs []error
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidPattern, kind, pattern, err))
			continue
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, errors.Join(errs...)
}

// Keep reports whether a function called name should be emitted. known is
// false when the match had no name capture; such functions pass only when
// there are no include patterns.
func (f *NameFilter) Keep(name string, known bool) bool {
	if f == nil {
		return true
	}
	if !known {
		return len(f.include) == 0
	}

	for _, p := range f.exclude {
		if p.glob.Match(name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if p.glob.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns, for logging.
func (f *NameFilter) Patterns() (include, exclude []string) {
	if f == nil {
		return nil, nil
	}
	for _, p := range f.include {
		include = append(include, p.pattern)
	}
	for _, p := range f.exclude {
		exclude = append(exclude, p.pattern)
	}
	return include, exclude
}
