package matcher

import "github.com/dl/linematch/internal/buffer"

type slotState uint8

const (
	slotEmpty slotState = iota
	slotValue
	slotRef
)

// slot caches the cleaned lines of one scope. A slot whose lines equal those
// of an outer scope refers to that scope's slot instead of holding a copy.
type slot struct {
	state slotState
	lines buffer.Block
	ref   int
}

func (m *LineMatcher) cachedLines() buffer.Block {
	depth := len(m.frames) - 1
	top := &m.frames[depth]

	switch top.slot.state {
	case slotValue:
		return top.slot.lines
	case slotRef:
		return m.frames[top.slot.ref].slot.lines
	}

	lines := buffer.FromLines(top.cleaner.Clean(m.content))
	for i := range depth {
		s := m.frames[i].slot
		switch s.state {
		case slotRef:
			target := m.frames[s.ref].slot.lines
			if target.Equal(lines) {
				top.slot = slot{state: slotRef, ref: s.ref}
				m.debug("cache slot reused", "depth", depth, "ref", s.ref)
				return target
			}
		case slotValue:
			if s.lines.Equal(lines) {
				top.slot = slot{state: slotRef, ref: i}
				m.debug("cache slot reused", "depth", depth, "ref", i)
				return s.lines
			}
		}
	}

	top.slot = slot{state: slotValue, lines: lines}
	m.debug("cache slot computed", "depth", depth, "lines", lines.Len())
	return lines
}
