package command

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// AllowList holds the conversation patterns the bot acts in. It is built
// once and never mutated, so it is safe for concurrent use.
type AllowList struct {
	patterns []string
	globs    []glob.Glob
}

// NewAllowList compiles the given ids or glob patterns.
func NewAllowList(patterns []string) (*AllowList, error) {
	if len(patterns) == 0 {
		return nil, errors.New("allow-list is empty")
	}
	al := &AllowList{patterns: append([]string(nil), patterns...)}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid channel pattern %q: %w", p, err)
		}
		al.globs = append(al.globs, g)
	}
	return al, nil
}

// Allows reports whether conversationID matches any pattern.
func (a *AllowList) Allows(conversationID string) bool {
	for _, g := range a.globs {
		if g.Match(conversationID) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the configured patterns.
func (a *AllowList) Patterns() []string {
	return append([]string(nil), a.patterns...)
}
