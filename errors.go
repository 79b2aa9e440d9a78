package vtcore

import "errors"

// Sentinel errors returned by the stream decoder and its DCS/OSC/APC
// sub-handlers. Callers use errors.Is against these; wrapped context is
// added with fmt.Errorf("%w", ...) at the call site rather than here.
var (
	// ErrUnknownDCS names a DCS sequence whose final byte doesn't match any
	// handler this package knows. No function returns it: such sequences
	// are logged (logUnknownDCS) and forwarded to the decoder unchanged.
	ErrUnknownDCS = errors.New("vtcore: unrecognized DCS sequence")

	// ErrTmuxNotActive names a tmux control-mode operation invoked outside
	// an active control-mode session. No function in this module returns it.
	ErrTmuxNotActive = errors.New("vtcore: tmux control mode is not active")

	// ErrMalformedOSC is returned when an OSC payload doesn't parse (bad
	// base64, missing separators, non-numeric color index).
	ErrMalformedOSC = errors.New("vtcore: malformed OSC payload")

	// ErrLayoutChecksum is returned (wrapped) by layout.ParseWithChecksum
	// when a layout string's checksum prefix is malformed or doesn't match
	// its computed value; layout.Parse also wraps it for layout syntax
	// errors.
	ErrLayoutChecksum = errors.New("vtcore: tmux layout checksum mismatch")
)
