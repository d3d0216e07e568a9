package output

import (
	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/expect"
)

// Result aggregates what one source produced: matching lines or blocks for
// the query commands, the outcomes of an expectation file for check.
type Result struct {
	Source string
	SeqNum int
	// Blocks holds the matches; a matching line is a block of one line.
	Blocks []buffer.Block
	// Lines is set when Blocks are single lines rather than block matches.
	Lines    bool
	Outcomes []expect.Outcome
	// Failure is the rendered diagnostic of a failed assert or refute.
	Failure string
	Err     error
}

// Count returns the number of matches in this result.
func (r *Result) Count() int {
	return len(r.Blocks)
}

// HasMatch returns true if this result has at least one match.
func (r *Result) HasMatch() bool {
	return len(r.Blocks) > 0
}

// Passed reports whether the source was processed and no assertion or
// expectation failed.
func (r *Result) Passed() bool {
	if r.Err != nil || r.Failure != "" {
		return false
	}
	for _, o := range r.Outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}
