package capture

import (
	"fmt"
	"maps"
	"slices"
)

// Stream names one of the outputs of a build.
type Stream string

const (
	Status  Stream = "status"
	Warning Stream = "warning"
)

// ParseStream accepts "status" and "warning".
func ParseStream(s string) (Stream, error) {
	switch Stream(s) {
	case Status, Warning:
		return Stream(s), nil
	}
	return "", fmt.Errorf("unknown stream %q (choose from: status, warning)", s)
}

// Capture holds the text of every loaded stream.
type Capture struct {
	streams map[Stream]string
}

// Load reads every stream of paths with r. A stream without a path is not
// loaded.
func Load(r Reader, paths map[Stream]string) (Capture, error) {
	c := Capture{streams: make(map[Stream]string, len(paths))}
	for _, s := range slices.Sorted(maps.Keys(paths)) {
		text, err := ReadText(r, paths[s])
		if err != nil {
			return Capture{}, fmt.Errorf("%s stream: %w", s, err)
		}
		c.streams[s] = text
	}
	return c, nil
}

// Text returns the content of stream s.
func (c Capture) Text(s Stream) (string, error) {
	text, ok := c.streams[s]
	if !ok {
		return "", fmt.Errorf("%s stream not captured", s)
	}
	return text, nil
}

// Status returns the status stream, or "" if it was not captured.
func (c Capture) Status() string { return c.streams[Status] }

// Warning returns the warning stream, or "" if it was not captured.
func (c Capture) Warning() string { return c.streams[Warning] }
