// Package report renders the diagnostics of failed line and block
// assertions: the searched patterns and the cleaned text, with matching
// blocks marked in the left margin.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dl/linematch/internal/buffer"
)

// Indent is the width of the left margin of every rendered line.
const Indent = 4

// Kind is the type of pattern an assertion was about.
type Kind string

const (
	KindLine  Kind = "line"
	KindBlock Kind = "block"
)

// Noun returns the kind, pluralized when n is more than one.
func (k Kind) Noun(n int) string {
	return PluralForm(string(k), n)
}

// Styles decorates the margin marker and the omission placeholders. A style
// without any text attribute or color leaves its text untouched, so the zero
// value renders plain text.
type Styles struct {
	Marker  lipgloss.Style
	Omitted lipgloss.Style
	Heading lipgloss.Style
}

// PlainStyles renders without any escape sequence.
func PlainStyles() Styles { return Styles{} }

// ColorStyles highlights the marker in bold red and dims placeholders.
func ColorStyles() Styles {
	return Styles{
		Marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Omitted: lipgloss.NewStyle().Faint(true),
		Heading: lipgloss.NewStyle().Bold(true),
	}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if text == "" || !decorates(st) {
		return text
	}
	return st.Render(text)
}

// decorates reports whether st changes how text looks. Layout properties are
// ignored: rendering them would pad or re-wrap the report lines.
func decorates(st lipgloss.Style) bool {
	if st.GetBold() || st.GetFaint() || st.GetItalic() || st.GetUnderline() ||
		st.GetStrikethrough() || st.GetReverse() || st.GetBlink() {
		return true
	}
	return isColor(st.GetForeground()) || isColor(st.GetBackground())
}

func isColor(c lipgloss.TerminalColor) bool {
	_, none := c.(lipgloss.NoColor)
	return c != nil && !none
}

// Renderer builds assertion reports.
type Renderer struct {
	styles Styles
}

// NewRenderer returns a renderer using styles.
func NewRenderer(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Section is a highlighted run of Len lines starting at Offset.
type Section struct {
	Offset int
	Len    int
}

// NotFound reports that no line or block matched. The whole source is shown.
func (r *Renderer) NotFound(kind Kind, patterns, source []string, keepends bool) string {
	return r.join(
		r.heading(string(kind)+" pattern"),
		r.Patterns(patterns, kind == KindLine),
		r.heading("not found in"),
		r.Highlight(source, nil, keepends),
	)
}

// WrongCount reports that found distinct matches were seen instead of want.
// Every matching section is marked in the source.
func (r *Renderer) WrongCount(kind Kind, patterns, source []string, sections []Section, found, want int, keepends bool) string {
	return r.join(
		r.heading(fmt.Sprintf("found %d != %d %s matching", found, want, kind.Noun(want))),
		r.Patterns(patterns, kind == KindLine),
		r.heading("in"),
		r.Highlight(source, sections, keepends),
	)
}

// Found reports a match that should not exist, showing block and at most
// context lines around it.
func (r *Renderer) Found(kind Kind, patterns, source []string, block buffer.Block, context int) string {
	return r.join(
		r.heading(string(kind)+" pattern"),
		r.Patterns(patterns, kind == KindLine),
		r.heading("found in"),
		strings.Join(r.DebugContext(source, block, context), "\n"),
	)
}

func (r *Renderer) join(sections ...string) string {
	return strings.Join(sections, "\n\n")
}

func (r *Renderer) heading(s string) string {
	return r.styles.render(r.styles.Heading, s)
}

// Patterns lists one pattern per indented line, sorted if requested.
func (r *Renderer) Patterns(patterns []string, sorted bool) string {
	if sorted {
		patterns = slices.Sorted(slices.Values(patterns))
	}
	return strings.Join(indentLines(patterns, prefix(false)), "\n")
}

// Highlight indents source, marking the lines of every section. Lines are
// joined with "\n", or with nothing when they kept their line breaks.
func (r *Renderer) Highlight(source []string, sections []Section, keepends bool) string {
	sep := "\n"
	if keepends {
		sep = ""
	}

	starts := make(map[int]int, len(sections))
	for _, s := range sections {
		if s.Len > 0 {
			starts[s.Offset] = s.Len
		}
	}

	tab, accent := prefix(false), r.marker()
	out := make([]string, 0, len(source))
	for i := 0; i < len(source); i++ {
		n, ok := starts[i]
		if !ok {
			out = append(out, tab+source[i])
			continue
		}
		end := min(i+n, len(source))
		for ; i < end; i++ {
			out = append(out, accent+source[i])
		}
		i--
	}
	return strings.Join(out, sep)
}

// DebugContext returns the indented lines around block, the block itself
// marked, with placeholders for the lines left out. Placeholders only appear
// when context is positive.
func (r *Renderer) DebugContext(source []string, block buffer.Block, context int) []string {
	limit := len(source)
	before, after := block.Context(context, limit)

	var out []string
	if context > 0 && before.Start > 0 {
		out = append(out, r.omitted(before.Start))
	}
	out = append(out, indentLines(source[before.Start:before.Stop], prefix(false))...)
	out = append(out, indentLines(block.Lines(), r.marker())...)
	out = append(out, indentLines(source[after.Start:after.Stop], prefix(false))...)
	if rest := limit - after.Stop; context > 0 && rest > 0 {
		out = append(out, r.omitted(rest))
	}
	return out
}

func (r *Renderer) marker() string {
	p := prefix(true)
	return r.styles.render(r.styles.Marker, p[:1]) + p[1:]
}

func (r *Renderer) omitted(n int) string {
	return r.styles.render(r.styles.Omitted, OmitMessage(n))
}

// PluralForm appends "s" to noun when n is more than one.
func PluralForm(noun string, n int) string {
	if n > 1 {
		return noun + "s"
	}
	return noun
}

// OmitMessage is the placeholder for n elided lines.
func OmitMessage(n int) string {
	return fmt.Sprintf("... (omitted %d %s) ...", n, PluralForm("line", n))
}

func prefix(highlight bool) string {
	if highlight {
		return ">" + strings.Repeat(" ", Indent-1)
	}
	return strings.Repeat(" ", Indent)
}

func indentLines(lines []string, p string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = p + line
	}
	return out
}
