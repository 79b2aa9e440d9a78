package vtcore

import "testing"

func TestSGRForegroundRGB(t *testing.T) {
	term, stream := newTestTerminal(5, 20)
	stream.Feed([]byte("\x1b[38;2;10;20;30m"))
	pen := term.Active().cursor.Pen
	want := RGBColor(10, 20, 30)
	if pen.Fg != want {
		t.Errorf("Fg = %+v, want %+v", pen.Fg, want)
	}
}

func TestSGRBackgroundIndexed(t *testing.T) {
	term, stream := newTestTerminal(5, 20)
	stream.Feed([]byte("\x1b[48;5;200m"))
	pen := term.Active().cursor.Pen
	want := PaletteColor(200)
	if pen.Bg != want {
		t.Errorf("Bg = %+v, want %+v", pen.Bg, want)
	}
}

func TestSGRUnderlineVariantsAreMutuallyExclusive(t *testing.T) {
	term, stream := newTestTerminal(5, 20)
	stream.Feed([]byte("\x1b[4m"))
	if pen := term.Active().cursor.Pen; pen.Flags&StyleUnderline == 0 {
		t.Fatal("expected plain underline after CSI 4 m")
	}
	stream.Feed([]byte("\x1b[4:3m")) // curly underline
	pen := term.Active().cursor.Pen
	if pen.Flags&StyleUnderlineCurly == 0 {
		t.Error("expected curly underline flag set")
	}
	if pen.Flags&StyleUnderline != 0 {
		t.Error("plain underline flag should be cleared when switching variants")
	}
}

func TestSGRCancelUnderlineClearsAllVariants(t *testing.T) {
	term, stream := newTestTerminal(5, 20)
	stream.Feed([]byte("\x1b[4:3m"))
	stream.Feed([]byte("\x1b[24m"))
	pen := term.Active().cursor.Pen
	if pen.Flags&(StyleUnderline|StyleUnderlineDouble|StyleUnderlineCurly|StyleUnderlineDotted|StyleUnderlineDashed) != 0 {
		t.Errorf("expected all underline variants cleared, got flags %v", pen.Flags)
	}
}

func TestSGRResetClearsEverything(t *testing.T) {
	term, stream := newTestTerminal(5, 20)
	stream.Feed([]byte("\x1b[1;4;38;5;200m"))
	stream.Feed([]byte("\x1b[0m"))
	pen := term.Active().cursor.Pen
	if pen != (Style{}) {
		t.Errorf("pen after reset = %+v, want zero value", pen)
	}
}

func TestSGRCancelBoldDimClearsBoth(t *testing.T) {
	term, stream := newTestTerminal(5, 20)
	stream.Feed([]byte("\x1b[1;2m")) // bold + dim/faint
	stream.Feed([]byte("\x1b[22m"))  // cancel bold+dim
	pen := term.Active().cursor.Pen
	if pen.Flags&(StyleBold|StyleFaint) != 0 {
		t.Errorf("expected bold and faint cleared, got flags %v", pen.Flags)
	}
}
