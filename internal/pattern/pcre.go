package pattern

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.elara.ws/pcre"
)

// pcreState is shared by every copy of a PCRE pattern so that the compiled
// code is freed once.
type pcreState struct {
	once   sync.Once
	closed atomic.Bool
}

// PCRE compiles a PCRE2 expression via the pure Go pcre package.
// Supports lookahead, lookbehind, backreferences, atomic groups and the
// other constructs RE2 rejects. The result bypasses flavor translation.
func PCRE(src string, ignoreCase bool) (Pattern, error) {
	var opts pcre.CompileOption
	if ignoreCase {
		opts |= pcre.Caseless
	}

	re, err := pcre.CompileOpts(src, opts)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: pcre %q: %v", ErrInvalidPattern, src, err)
	}
	return Pattern{kind: KindPCRE, text: src, pc: re, state: new(pcreState), flags: opts}, nil
}

// Close releases the resources of a PCRE pattern. It is a no-op for other
// kinds and for patterns already closed through any copy. A closed pattern
// is no longer Valid and fails to compile.
func (p Pattern) Close() {
	if p.pc == nil {
		return
	}
	p.state.once.Do(func() {
		p.state.closed.Store(true)
		p.pc.Close()
	})
}

func (p Pattern) pcreOpen() bool {
	return p.pc != nil && !p.state.closed.Load()
}

// pcreIndex returns the location of the leftmost match of re in line, or nil.
func pcreIndex(re *pcre.Regexp, line string) []int {
	locs := re.FindAllIndex([]byte(line), 1)
	if len(locs) == 0 {
		return nil
	}
	return locs[0]
}
