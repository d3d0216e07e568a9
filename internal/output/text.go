package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dl/linematch/internal/buffer"
	"github.com/dl/linematch/internal/expect"
)

// TextFormatter formats results as human-readable text with optional color.
type TextFormatter struct {
	styles    Styles
	offsets   bool
	countOnly bool
	useColor  bool
}

// NewTextFormatter creates a TextFormatter. Styles are only applied when
// useColor is set.
func NewTextFormatter(styles Styles, offsets bool, countOnly bool, useColor bool) *TextFormatter {
	return &TextFormatter{
		styles:    styles,
		offsets:   offsets,
		countOnly: countOnly,
		useColor:  useColor,
	}
}

func (f *TextFormatter) Format(buf []byte, result Result, multiSource bool) []byte {
	if result.Err != nil {
		return buf
	}
	if result.Outcomes != nil {
		return f.formatOutcomes(buf, result)
	}
	if result.Failure != "" {
		buf = append(buf, result.Failure...)
		return append(buf, '\n')
	}

	if f.countOnly {
		if multiSource {
			buf = f.source(buf, result.Source, ":")
		}
		buf = strconv.AppendInt(buf, int64(result.Count()), 10)
		return append(buf, '\n')
	}

	for i, b := range result.Blocks {
		if i > 0 && !result.Lines {
			buf = append(buf, f.style(f.styles.Separator, "--")...)
			buf = append(buf, '\n')
		}
		b.Each(func(l buffer.Line) bool {
			buf = f.formatLine(buf, result.Source, l, multiSource)
			return true
		})
	}
	return buf
}

func (f *TextFormatter) formatLine(buf []byte, source string, l buffer.Line, multiSource bool) []byte {
	if multiSource {
		buf = f.source(buf, source, ":")
	}
	if f.offsets {
		buf = append(buf, f.style(f.styles.Offset, strconv.Itoa(l.Offset))...)
		buf = append(buf, f.style(f.styles.Separator, ":")...)
	}
	buf = append(buf, l.Text...)
	if !strings.HasSuffix(l.Text, "\n") {
		buf = append(buf, '\n')
	}
	return buf
}

func (f *TextFormatter) formatOutcomes(buf []byte, result Result) []byte {
	for _, o := range result.Outcomes {
		switch {
		case o.Err != nil:
			buf = append(buf, f.style(f.styles.Fail, "ERROR")...)
		case o.Passed:
			buf = append(buf, f.style(f.styles.Pass, "PASS")...)
		default:
			buf = append(buf, f.style(f.styles.Fail, "FAIL")...)
		}
		buf = append(buf, ' ')
		buf = f.source(buf, result.Source, ":")
		buf = strconv.AppendInt(buf, int64(o.Index+1), 10)
		buf = append(buf, ' ')
		buf = append(buf, label(o)...)
		buf = append(buf, '\n')

		switch {
		case o.Err != nil:
			buf = appendIndented(buf, o.Err.Error())
		case !o.Passed:
			buf = appendIndented(buf, o.Message)
		}
	}
	return buf
}

func (f *TextFormatter) source(buf []byte, source, sep string) []byte {
	if source == "" {
		source = "(stdin)"
	}
	buf = append(buf, f.style(f.styles.Source, source)...)
	return append(buf, f.style(f.styles.Separator, sep)...)
}

func (f *TextFormatter) style(st lipgloss.Style, s string) string {
	if !f.useColor {
		return s
	}
	return st.Render(s)
}

func label(o expect.Outcome) string {
	if o.Name != "" {
		return o.Name
	}
	if o.Kind == "" {
		return string(o.Stream)
	}
	return string(o.Kind) + " " + string(o.Stream)
}

func appendIndented(buf []byte, text string) []byte {
	for line := range strings.Lines(text) {
		buf = append(buf, "    "...)
		buf = append(buf, line...)
	}
	if !strings.HasSuffix(text, "\n") {
		buf = append(buf, '\n')
	}
	return buf
}

var _ Formatter = (*TextFormatter)(nil)
