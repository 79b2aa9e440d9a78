// Package paste implements bracketed and non-bracketed paste framing and
// the safety check clients use before sending untrusted clipboard text.
package paste

import (
	"bytes"
	"errors"

	"github.com/charmbracelet/x/ansi"
)

const (
	bracketStart = ansi.BracketedPasteStart
	bracketEnd   = ansi.BracketedPasteEnd
)

// ErrMutableRequired is returned when non-bracketed encoding needs to
// rewrite newlines in place but was given data it cannot mutate.
var ErrMutableRequired = errors.New("paste: caller must supply a mutable buffer")

// IsSafe reports whether data can be pasted without bracketed-paste framing
// and without an embedded end-of-bracket sequence confusing the receiving
// application. It is false if data contains a literal newline or the raw
// bracket-end escape.
func IsSafe(data []byte) bool {
	if bytes.IndexByte(data, '\n') >= 0 {
		return false
	}
	if bytes.Contains(data, []byte(bracketEnd)) {
		return false
	}
	return true
}

// EncodeBracketed wraps data in the bracketed-paste start/end markers,
// returning the three pieces a caller can write out in sequence without an
// intermediate allocation joining them.
func EncodeBracketed(data []byte) [3][]byte {
	return [3][]byte{[]byte(bracketStart), data, []byte(bracketEnd)}
}

// Encode produces the bytes to send for a paste, given whether bracketed
// mode (DEC mode 2004) is active. Bracketed mode never needs to rewrite
// data. Non-bracketed mode must replace every '\n' with '\r' (matching
// xterm: "\r\n" becomes "\r\r"); if data is not mutable in place, it
// returns ErrMutableRequired instead of allocating behind the caller's
// back.
func Encode(data []byte, bracketed bool) ([]byte, error) {
	if bracketed {
		start, body, end := bracketStart, data, bracketEnd
		out := make([]byte, 0, len(start)+len(body)+len(end))
		out = append(out, start...)
		out = append(out, body...)
		out = append(out, end...)
		return out, nil
	}
	if bytes.IndexByte(data, '\n') < 0 {
		return data, nil
	}
	return nil, ErrMutableRequired
}

// EncodeMutable is Encode's in-place variant for non-bracketed mode: data
// is rewritten in place so every '\n' becomes '\r', and the same slice,
// with its length unchanged, is returned. Safe to call with bracketed=true,
// in which case it behaves like Encode.
func EncodeMutable(data []byte, bracketed bool) []byte {
	if bracketed {
		out, _ := Encode(data, true)
		return out
	}
	for i, b := range data {
		if b == '\n' {
			data[i] = '\r'
		}
	}
	return data
}
