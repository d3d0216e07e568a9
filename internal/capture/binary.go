package capture

import (
	"bytes"
	"errors"
)

// ErrBinary is returned by ReadText for a capture that is not text.
var ErrBinary = errors.New("binary capture")

// binaryScanLimit bounds the NUL scan, matching GNU grep behavior.
const binaryScanLimit = 8192

// IsBinary checks if data appears to be binary by scanning for NUL bytes
// in the first 8KB.
func IsBinary(data []byte) bool {
	limit := min(len(data), binaryScanLimit)
	return bytes.IndexByte(data[:limit], 0) >= 0
}
