// Package ansi removes ANSI escape sequences from captured terminal output.
package ansi

import (
	"regexp"
	"strings"
)

// colorRe matches SGR color sequences. It is deliberately loose: anything
// from ESC up to the next 'm' on the same line.
var colorRe = regexp.MustCompile("\x1b.*?m")

// controlRe matches the non-color vt100 sequences a build log may contain.
var controlRe = regexp.MustCompile(`\x1b\[(?:` +
	`H` + // home
	`|\?\d+[hl]` + // enable or disable a feature
	`|[1-6] q` + // cursor shape
	`|2?J` + // erase down or clear screen
	`|\d*[ABCD]` + // cursor up, down, forward, backward
	`|\d+G` + // move to column
	`|(?:\d;)?\d+;\d+H` + // move to (x, y)
	`|\dK` + // erase in line
	`)` +
	`|\x1b\]\d;.*?\x07` + // window title
	`|\x07`) // bell

// StripColors removes color sequences from text.
func StripColors(text string) string {
	return colorRe.ReplaceAllLiteralString(text, "")
}

// StripControls removes non-color control sequences from text.
func StripControls(text string) string {
	return controlRe.ReplaceAllLiteralString(text, "")
}

// Strip removes the sequences that are not kept. Control sequences go first,
// since a loose color match could otherwise swallow part of one.
func Strip(text string, keepColor, keepCtrl bool) string {
	if !HasEscape(text) {
		return text
	}
	if !keepCtrl {
		text = StripControls(text)
	}
	if !keepColor {
		text = StripColors(text)
	}
	return text
}

// HasEscape reports whether text contains an ESC or BEL byte. Every sequence
// Strip removes starts with one of them.
func HasEscape(text string) bool {
	return strings.ContainsAny(text, "\x1b\x07")
}
