package vtcore

import "testing"

func TestWriteRuneJoinsZWJEmojiSequenceIntoOneCell(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 20))
	stream := NewStream(term)

	// Family emoji: man + ZWJ + woman + ZWJ + girl. Each component is a
	// width-2 rune, but UAX #29 groups the whole sequence into a single
	// extended grapheme cluster that must occupy one on-screen cell pair.
	family := "\U0001F468‍\U0001F469‍\U0001F467"
	for _, r := range family {
		stream.Input(r)
	}

	scr := term.Active()
	page := scr.PageList().ActivePage()
	row := scr.PageList().ActiveRow(0)

	head := row.Cells()[0]
	if head.Tag != ContentGrapheme {
		t.Fatalf("cell(0,0).Tag = %v, want ContentGrapheme", head.Tag)
	}
	if got := page.GraphemeOf(head.Grapheme); got != family {
		t.Errorf("cluster = %q, want %q", got, family)
	}
	if !head.IsWide() {
		t.Error("joined cluster cell should keep its WideWide marker")
	}
	if tail := row.Cells()[1]; !tail.IsWideSpacerTail() {
		t.Errorf("cell(0,1).Wide = %v, want WideSpacerTail", tail.Wide)
	}
	if third := row.Cells()[2]; third.Tag != ContentCodepoint || third.Codepoint != ' ' {
		t.Errorf("cell(0,2) should remain blank, got %+v", third)
	}
	if scr.Cursor().X != 2 {
		t.Errorf("cursor.X = %d, want 2 (unchanged by joined continuation runes)", scr.Cursor().X)
	}
}

func TestWriteRuneCombiningMarkJoinsIntoPreviousNarrowCell(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 20))
	stream := NewStream(term)

	stream.Input('e')
	stream.Input('́') // combining acute accent

	scr := term.Active()
	page := scr.PageList().ActivePage()
	cell := scr.PageList().ActiveRow(0).Cells()[0]
	if cell.Tag != ContentGrapheme {
		t.Fatalf("cell.Tag = %v, want ContentGrapheme", cell.Tag)
	}
	if got, want := page.GraphemeOf(cell.Grapheme), "é"; got != want {
		t.Errorf("cluster = %q, want %q", got, want)
	}
	if scr.Cursor().X != 1 {
		t.Errorf("cursor.X = %d, want 1 (combining mark must not advance the cursor)", scr.Cursor().X)
	}
}

func TestWriteRuneCombiningMarkWithNoPreviousCellIsDropped(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 20))
	stream := NewStream(term)

	stream.Input('́') // nothing to combine with at (0,0)

	scr := term.Active()
	cell := scr.PageList().ActiveRow(0).Cells()[0]
	if cell.Tag != ContentCodepoint || cell.Codepoint != ' ' {
		t.Errorf("cell = %+v, want untouched blank", cell)
	}
	if scr.Cursor().X != 0 {
		t.Errorf("cursor.X = %d, want 0", scr.Cursor().X)
	}
}
