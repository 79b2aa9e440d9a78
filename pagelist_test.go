package vtcore

import "testing"

func TestAppendBlankRowGrowsIntoNewPageAtCapacity(t *testing.T) {
	cap := PageCapacity{Cols: 4, Rows: 2, Styles: 4, GraphemeBytes: 64, Hyperlinks: 4}
	list := &PageList{cols: 4, screenRows: 2, cap: cap, maxScrollbackRows: 1000}
	p := NewPage(cap, 2)
	list.head, list.tail, list.pageCount = p, p, 1

	if list.pageCount != 1 {
		t.Fatalf("pageCount = %d, want 1", list.pageCount)
	}
	// The page already holds its full 2-row capacity, so the next append
	// must allocate a successor page rather than growing this one in place.
	list.AppendBlankRow(blankCell)
	if list.pageCount != 2 {
		t.Fatalf("pageCount = %d, want 2 after growing past capacity", list.pageCount)
	}
}

func TestPruneIfNeededFlagsTrackedPinsGarbage(t *testing.T) {
	cap := PageCapacity{Cols: 4, Rows: 1, Styles: 4, GraphemeBytes: 64, Hyperlinks: 4}
	list := &PageList{cols: 4, screenRows: 1, cap: cap, maxScrollbackRows: 1}
	p := NewPage(cap, 1)
	list.head, list.tail, list.pageCount = p, p, 1

	oldPage := list.tail
	pinID := list.TrackPin(Pin{Page: oldPage, Row: 0, Col: 0})

	// Grow past the 1-row scrollback cap so the old page is evicted.
	for i := 0; i < 3; i++ {
		list.AppendBlankRow(blankCell)
	}

	if list.pageIndex(oldPage) != -1 {
		t.Fatal("test setup: expected the original page to have been pruned by now")
	}
	if _, ok := list.Resolve(pinID); ok {
		t.Error("pin should be garbage (Resolve ok=false) once its page is pruned")
	}
}

func TestResizeGrowthReinternsStyleGraphemeAndHyperlink(t *testing.T) {
	cap := PageCapacity{Cols: 4, Rows: 2, Styles: 4, GraphemeBytes: 64, Hyperlinks: 4}
	list := &PageList{cols: 4, screenRows: 2, cap: cap, maxScrollbackRows: 1000}
	old := NewPage(cap, 2)
	list.head, list.tail, list.pageCount = old, old, 1

	style := Style{Bg: RGBColor(9, 9, 9)}
	if err := old.WriteCell(0, 0, Cell{Tag: ContentCodepoint, Codepoint: 'x'}, style); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}

	gid, err := old.InternGrapheme([]rune("é"))
	if err != nil {
		t.Fatalf("InternGrapheme: %v", err)
	}
	if err := old.WriteCell(0, 1, Cell{Tag: ContentGrapheme, Codepoint: 'e', Grapheme: gid}, DefaultStyle); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}

	hid, err := old.InternHyperlink(Hyperlink{URI: "https://example.com"})
	if err != nil {
		t.Fatalf("InternHyperlink: %v", err)
	}
	if err := old.WriteCell(0, 2, Cell{Tag: ContentCodepoint, Codepoint: 'z', Hyperlink: hid}, DefaultStyle); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}

	// Grow the tail's row capacity in place (same cols, taller screen) — this
	// is the branch that must re-intern rather than carry raw ids across.
	list.Resize(3, 4)

	np := list.tail
	if np == old {
		t.Fatal("Resize should have allocated a new tail page")
	}

	styledCell := np.Row(0).Cell(0)
	if got := np.StyleOf(styledCell.Style).Bg; got != (RGBColor(9, 9, 9)) {
		t.Errorf("re-interned style Bg = %+v, want rgb(9,9,9)", got)
	}

	graphemeCell := np.Row(0).Cell(1)
	if graphemeCell.Tag != ContentGrapheme {
		t.Fatalf("cell(0,1).Tag = %v, want ContentGrapheme", graphemeCell.Tag)
	}
	if got := np.GraphemeOf(graphemeCell.Grapheme); got != "é" {
		t.Errorf("re-interned grapheme = %q, want %q", got, "é")
	}

	hyperlinkCell := np.Row(0).Cell(2)
	link, ok := np.HyperlinkOf(hyperlinkCell.Hyperlink)
	if !ok {
		t.Fatal("re-interned hyperlink should resolve in the new page")
	}
	if link.URI != "https://example.com" {
		t.Errorf("re-interned hyperlink URI = %q, want %q", link.URI, "https://example.com")
	}
}

func TestActiveRowOffsetStaysWithinTailPage(t *testing.T) {
	list := NewPageList(10, 5, 100)
	if off := list.ActiveRowOffset(); off != list.tail.Rows()-5 {
		t.Errorf("ActiveRowOffset = %d, want %d", off, list.tail.Rows()-5)
	}
	row := list.ActiveRow(0)
	if row == nil {
		t.Fatal("ActiveRow(0) returned nil")
	}
}
