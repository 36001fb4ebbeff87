package keygen

import "strings"

// Pattern selects how query keys are drawn from the key universe.
type Pattern int

// The zero Pattern is Unknown; generating it yields no keys.
const (
	Unknown Pattern = iota
	Random
	Sequential
	Clustered
	Mixed
	Missing
)

var patternNames = [...]string{
	Unknown:    "unknown",
	Random:     "random",
	Sequential: "sequential",
	Clustered:  "clustered",
	Mixed:      "mixed",
	Missing:    "missing",
}

// String returns the lowercase pattern name.
func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return patternNames[Unknown]
	}
	return patternNames[p]
}

// Valid reports whether p is one of the five generating patterns.
func (p Pattern) Valid() bool {
	return p > Unknown && int(p) < len(patternNames)
}

// ParsePattern maps a case-insensitive name to its Pattern.
// Unrecognized names map to Unknown.
func ParsePattern(name string) Pattern {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range patternNames {
		if Pattern(p) != Unknown && n == name {
			return Pattern(p)
		}
	}
	return Unknown
}

// AllPatterns returns the generating patterns in their canonical order.
func AllPatterns() []Pattern {
	return []Pattern{Random, Sequential, Clustered, Mixed, Missing}
}
