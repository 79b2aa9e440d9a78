package vtcore

import "testing"

func TestEnterExitAlternateSwitchesActiveScreen(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 10))
	if term.OnAlternate() {
		t.Fatal("terminal should start on the primary screen")
	}
	term.EnterAlternate(false)
	if !term.OnAlternate() {
		t.Fatal("expected alternate screen active after EnterAlternate")
	}
	if term.Active() != term.Alternate() {
		t.Error("Active() should return the alternate screen")
	}
	term.ExitAlternate()
	if term.OnAlternate() {
		t.Error("expected primary screen active after ExitAlternate")
	}
}

func TestEnterAlternateClearOnEnterResetsCursor(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 10))
	term.Alternate().Goto(3, 4)
	term.EnterAlternate(true)
	cur := term.Active().cursor
	if cur.X != 0 || cur.Y != 0 {
		t.Errorf("cursor after clearOnEnter = (%d,%d), want (0,0)", cur.X, cur.Y)
	}
}

func TestPushPopTitleIsLIFO(t *testing.T) {
	term := NewTerminal()
	term.PushTitle("first")
	term.PushTitle("second")

	got, ok := term.PopTitle()
	if !ok || got != "second" {
		t.Fatalf("PopTitle = %q, %v, want \"second\", true", got, ok)
	}
	got, ok = term.PopTitle()
	if !ok || got != "first" {
		t.Fatalf("PopTitle = %q, %v, want \"first\", true", got, ok)
	}
	if _, ok := term.PopTitle(); ok {
		t.Error("PopTitle on an empty stack should report ok=false")
	}
}

func TestBeginEndHyperlinkTagsCursor(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 10))
	if err := term.BeginHyperlink("https://example.com", nil); err != nil {
		t.Fatalf("BeginHyperlink: %v", err)
	}
	if term.Active().cursor.Hyperlink == 0 {
		t.Error("cursor hyperlink id should be non-zero after BeginHyperlink")
	}
	term.EndHyperlink()
	if term.Active().cursor.Hyperlink != 0 {
		t.Error("cursor hyperlink id should reset to 0 after EndHyperlink")
	}
}

func TestScrollIntoHistoryAndBack(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 10), WithScrollback(100))
	if term.ViewingHistory() {
		t.Fatal("should not start viewing history")
	}
	term.ScrollIntoHistory(5)
	if !term.ViewingHistory() {
		t.Error("expected ViewingHistory true after a positive offset")
	}
	term.ScrollToLive()
	if term.ViewingHistory() {
		t.Error("expected ViewingHistory false after ScrollToLive")
	}
}

func TestResizePropagatesToBothScreens(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 10))
	term.Resize(8, 20)
	if term.Primary().Cols() != 20 || term.Primary().Rows() != 8 {
		t.Errorf("primary dims = %dx%d, want 8x20", term.Primary().Rows(), term.Primary().Cols())
	}
	if term.Alternate().Cols() != 20 || term.Alternate().Rows() != 8 {
		t.Errorf("alternate dims = %dx%d, want 8x20", term.Alternate().Rows(), term.Alternate().Cols())
	}
}
