package config

import (
	"fmt"
	"strings"
)

// PoisonPolicy selects how a channel behaves once a panic has unwound
// through one of its critical sections.
type PoisonPolicy string

const (
	// PoisonPanic makes every later operation panic with a *PoisonError.
	PoisonPanic PoisonPolicy = "panic"
	// PoisonIgnore clears the flag and keeps going on the possibly-partial queue.
	PoisonIgnore PoisonPolicy = "ignore"
	// PoisonSurface makes every later operation return a *PoisonError until
	// the receiver calls Recover.
	PoisonSurface PoisonPolicy = "surface"
)

// NormalizePoisonPolicy maps aliases to policy names.
//
// Aliases:
//   - "fatal" -> "panic"
//   - "error" -> "surface"
//   - "clear" -> "ignore"
func NormalizePoisonPolicy(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "fatal":
		return string(PoisonPanic)
	case "error":
		return string(PoisonSurface)
	case "clear":
		return string(PoisonIgnore)
	default:
		return s
	}
}

// ParsePoisonPolicy parses a policy name or alias.
func ParsePoisonPolicy(s string) (PoisonPolicy, error) {
	switch p := PoisonPolicy(NormalizePoisonPolicy(s)); p {
	case PoisonPanic, PoisonIgnore, PoisonSurface:
		return p, nil
	default:
		return "", fmt.Errorf("unknown poison policy %q", s)
	}
}
