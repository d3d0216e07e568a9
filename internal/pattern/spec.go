package pattern

import (
	"slices"

	"github.com/dl/linematch/internal/buffer"
)

type specKind uint8

const (
	specEmpty specKind = iota
	specText
	specSingle
	specSequence
	specSet
)

// Spec is a user-supplied pattern specification: a single string, a single
// compiled pattern, an ordered sequence or an unordered set of patterns.
// The shape is fixed at construction and resolved once by ToLinePatterns or
// ToBlockPattern.
type Spec struct {
	kind  specKind
	text  string
	items []Pattern
}

// Text is a single string. As a line spec it is one literal pattern; as a
// block spec it is split into one literal pattern per line.
func Text(s string) Spec {
	return Spec{kind: specText, text: s}
}

// One is a single pattern of any kind.
func One(p Pattern) Spec {
	return Spec{kind: specSingle, items: []Pattern{p}}
}

// Seq is an ordered sequence of patterns; its order is preserved.
func Seq(ps ...Pattern) Spec {
	return Spec{kind: specSequence, items: slices.Clone(ps)}
}

// Lines is an ordered sequence of literal patterns.
func Lines(ss ...string) Spec {
	return Spec{kind: specSequence, items: Literals(ss...)}
}

// Set is an unordered collection of patterns. Duplicates collapse and the
// resolved order is deterministic regardless of argument order.
func Set(ps ...Pattern) Spec {
	return Spec{kind: specSet, items: slices.Clone(ps)}
}

// StringSet is Set over literal patterns.
func StringSet(ss ...string) Spec {
	return Set(Literals(ss...)...)
}

// IsEmpty reports whether the spec was never given any pattern.
func (s Spec) IsEmpty() bool {
	switch s.kind {
	case specEmpty:
		return true
	case specSequence, specSet:
		return len(s.items) == 0
	}
	return false
}

// ToLinePatterns resolves a spec into an ordered list of line patterns.
// Sets are deduplicated and sorted by text, flags and group count.
func ToLinePatterns(s Spec) []Pattern {
	switch s.kind {
	case specText:
		return []Pattern{Literal(s.text)}
	case specSingle, specSequence:
		return slices.Clone(s.items)
	case specSet:
		return sortedSet(s.items)
	}
	return nil
}

// ToBlockPattern resolves a spec into the ordered line patterns of one block.
// A single string is split on line boundaries; a set is rejected since a
// block needs an order.
func ToBlockPattern(s Spec) ([]Pattern, error) {
	switch s.kind {
	case specText:
		return Literals(buffer.SplitLines(s.text, false)...), nil
	case specSingle, specSequence:
		return slices.Clone(s.items), nil
	case specSet:
		return nil, ErrUnorderedBlock
	}
	return nil, nil
}

func sortedSet(items []Pattern) []Pattern {
	out := make([]Pattern, 0, len(items))
	seen := make(map[Pattern]struct{}, len(items))
	for _, p := range items {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.SortStableFunc(out, compareKeys)
	return out
}
