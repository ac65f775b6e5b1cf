package bucketctl

import (
	"fmt"
	"regexp"
)

// KeyFilter selects object keys with a regular expression.
// A key is selected when the expression matches anywhere in it; anchor the
// pattern with ^ and $ to require a full-key match.
type KeyFilter struct {
	re *regexp.Regexp
}

// CompileFilter parses pattern using RE2 syntax.
// It returns ErrArgument for an empty pattern and ErrPattern if the pattern
// does not compile.
func CompileFilter(pattern string) (*KeyFilter, error) {
	if pattern == "" {
		return nil, fmt.Errorf("compile filter: %w: filter is required", ErrArgument)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w: %w", ErrPattern, err)
	}

	return &KeyFilter{re: re}, nil
}

// Match reports whether key is selected by the filter.
func (f *KeyFilter) Match(key string) bool {
	return f.re.MatchString(key)
}

// String returns the source pattern.
func (f *KeyFilter) String() string {
	return f.re.String()
}

// Apply returns the objects whose key is selected, preserving order.
func (f *KeyFilter) Apply(objects []ObjectInfo) []ObjectInfo {
	selected := make([]ObjectInfo, 0, len(objects))
	for i := range objects {
		if f.Match(objects[i].Key) {
			selected = append(selected, objects[i])
		}
	}
	return selected
}
