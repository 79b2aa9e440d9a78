package vtcore

import (
	"bytes"
	"testing"
)

func newRespondingTerminal(rows, cols int) (*Terminal, *Stream, *[][]byte) {
	var responses [][]byte
	term := NewTerminal(WithGeometry(rows, cols), WithScrollback(0), WithProviders(Providers{
		Respond: func(data []byte) {
			cp := append([]byte(nil), data...)
			responses = append(responses, cp)
		},
	}))
	return term, NewStream(term), &responses
}

func TestDECRQSSReportsSGR(t *testing.T) {
	term, stream, responses := newRespondingTerminal(5, 20)
	stream.Feed([]byte("\x1b[1m"))
	stream.Feed([]byte("\x1bP$qm\x1b\\"))

	if len(*responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(*responses))
	}
	got := string((*responses)[0])
	want := "\x1bP1$r1m\x1b\\"
	if got != want {
		t.Errorf("DECRQSS response = %q, want %q", got, want)
	}
	_ = term
}

func TestDECRQSSReportsCursorStyle(t *testing.T) {
	_, stream, responses := newRespondingTerminal(5, 20)
	stream.Feed([]byte("\x1b[4 q")) // DECSCUSR: steady underline
	stream.Feed([]byte("\x1bP$q q\x1b\\"))

	if len(*responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(*responses))
	}
	want := "\x1bP1$r4 q\x1b\\"
	if got := string((*responses)[0]); got != want {
		t.Errorf("DECRQSS response = %q, want %q", got, want)
	}
}

func TestDECRQSSReportsMargins(t *testing.T) {
	_, stream, responses := newRespondingTerminal(5, 20)
	stream.Feed([]byte("\x1bP$qs\x1b\\"))

	if len(*responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(*responses))
	}
	want := "\x1bP1$r1;20s\x1b\\"
	if got := string((*responses)[0]); got != want {
		t.Errorf("DECRQSS response = %q, want %q", got, want)
	}
}

func TestDECRQSSUnknownSettingReportsFailure(t *testing.T) {
	_, stream, responses := newRespondingTerminal(5, 20)
	stream.Feed([]byte("\x1bP$qZZ\x1b\\"))
	if len(*responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(*responses))
	}
	if string((*responses)[0]) != "\x1bP0$r\x1b\\" {
		t.Errorf("response = %q, want failure form", (*responses)[0])
	}
}

func TestXTGETTCAPKnownCapability(t *testing.T) {
	_, stream, responses := newRespondingTerminal(5, 20)
	// "Co" hex-encoded is "436f".
	stream.Feed([]byte("\x1bP+q436f\x1b\\"))
	if len(*responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(*responses))
	}
	if !bytes.HasPrefix((*responses)[0], []byte("\x1bP1+r")) {
		t.Errorf("expected a successful XTGETTCAP response, got %q", (*responses)[0])
	}
	// The payload is uppercased before decoding, so the name is echoed as
	// "436F"; the value "256" hex-encoded is "323536".
	if want := "\x1bP1+r436F=323536\x1b\\"; string((*responses)[0]) != want {
		t.Errorf("XTGETTCAP response = %q, want %q", (*responses)[0], want)
	}
}

func TestXTGETTCAPUnknownCapabilityReportsFailure(t *testing.T) {
	_, stream, responses := newRespondingTerminal(5, 20)
	stream.Feed([]byte("\x1bP+q000000\x1b\\"))
	if len(*responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(*responses))
	}
	if string((*responses)[0]) != "\x1bP0+r\x1b\\" {
		t.Errorf("response = %q, want failure form", (*responses)[0])
	}
}

func TestSixelDCSPassesThroughUnrecognized(t *testing.T) {
	// A DCS sequence that isn't $q / +q / 1000p must not panic and must not
	// produce a terminfo/DECRQSS response.
	_, stream, responses := newRespondingTerminal(5, 20)
	stream.Feed([]byte("\x1bPq#0;2;0;0;0#0!100~-\x1b\\"))
	if len(*responses) != 0 {
		t.Errorf("unrecognized DCS should not produce a Respond callback, got %v", *responses)
	}
}
