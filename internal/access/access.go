// Package access enumerates document access levels.
//
// The set is closed: callers switch on the named constants and use Name for
// display. Unknown values render as public.
package access

import (
	"fmt"
	"strings"
)

type Level int

const (
	Deleted      Level = 0
	Private      Level = 1
	Organization Level = 2
	Exclusive    Level = 3
	Public       Level = 4
	Pending      Level = 5
	Invisible    Level = 6
	Error        Level = 7
)

var names = map[Level]string{
	Deleted:      "deleted",
	Private:      "private",
	Organization: "organization",
	Exclusive:    "exclusive",
	Public:       "public",
	Pending:      "pending",
	Invisible:    "invisible",
	Error:        "error",
}

// Name returns the display name for a level. Levels outside the enumeration
// map to "public".
func Name(l Level) string {
	if n, ok := names[l]; ok {
		return n
	}
	return names[Public]
}

func (l Level) String() string { return Name(l) }

// Parse accepts a display name (case-insensitive) or the numeric value.
func Parse(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, n := range names {
		if n == s {
			return l, nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
		if _, ok := names[Level(n)]; ok {
			return Level(n), nil
		}
	}
	return 0, fmt.Errorf("unknown access level: %q", s)
}

// Settable lists the levels a user may assign directly, in the order the
// access editor cycles through them.
func Settable() []Level {
	return []Level{Private, Organization, Public}
}

// Next returns the level after l in Settable order, wrapping around. Levels
// that are not user-settable (pending, error, ...) advance to the first one.
func Next(l Level) Level {
	xs := Settable()
	for i, x := range xs {
		if x == l {
			return xs[(i+1)%len(xs)]
		}
	}
	return xs[0]
}
