package audit

import (
	"fmt"

	"github.com/gobwas/glob"
)

// URLFilter suppresses findings whose URL matches an ignore pattern,
// for pages known to be broken or intentionally excluded from a sweep.
type URLFilter struct {
	patterns []glob.Glob
}

// NewURLFilter compiles the given glob patterns into a filter.
func NewURLFilter(patterns []string) (*URLFilter, error) {
	f := &URLFilter{}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, g)
	}

	return f, nil
}

// Ignored returns true if findings at url should be dropped. A nil
// filter ignores nothing.
func (f *URLFilter) Ignored(url string) bool {
	if f == nil {
		return false
	}
	for _, pattern := range f.patterns {
		if pattern.Match(url) {
			return true
		}
	}
	return false
}
