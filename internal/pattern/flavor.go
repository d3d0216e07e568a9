package pattern

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFlavor is returned for a flavor other than exact, glob or regex.
	ErrUnknownFlavor = errors.New("unknown flavor")
	// ErrInvalidPattern is returned when a pattern cannot be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrUnorderedBlock is returned when a block pattern is built from a set.
	ErrUnorderedBlock = errors.New("block pattern must be ordered")
)

// Flavor selects how literal patterns are interpreted.
type Flavor string

const (
	Exact Flavor = "exact" // the line equals the pattern
	Glob  Flavor = "glob"  // shell wildcard semantics (*, ?, [seq], [!seq])
	Regex Flavor = "regex" // regular expression matched at the start of the line
)

// Flavors lists the recognized flavors.
var Flavors = []Flavor{Exact, Glob, Regex}

// Check returns an error wrapping ErrUnknownFlavor if f is not recognized.
func (f Flavor) Check() error {
	switch f {
	case Exact, Glob, Regex:
		return nil
	}
	names := make([]string, len(Flavors))
	for i, fl := range Flavors {
		names[i] = string(fl)
	}
	return fmt.Errorf("%w: %q (choose from: %s)", ErrUnknownFlavor, string(f), strings.Join(names, ", "))
}

// ParseFlavor accepts the flavor names plus the aliases used by older
// captures ("none" for exact, "fnmatch" for glob, "re" for regex).
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "none":
		return Exact, nil
	case "glob", "fnmatch":
		return Glob, nil
	case "regex", "re":
		return Regex, nil
	}
	return "", Flavor(s).Check()
}
