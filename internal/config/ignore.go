package config

import "regexp"

// IgnoreMatcher reports whether a document path is excluded from position
// tracking. Patterns are regular expressions matched against the URL path;
// invalid patterns are skipped at compile time rather than failing startup.
type IgnoreMatcher struct {
	patterns []*regexp.Regexp
}

// CompileIgnore builds an IgnoreMatcher from the configured patterns.
func (c *Config) CompileIgnore() *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, p := range c.Ignore.PathPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue // skip invalid pattern
		}
		m.patterns = append(m.patterns, re)
	}
	return m
}

// Match reports whether path is covered by any ignore pattern.
func (m *IgnoreMatcher) Match(path string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
