package vtcore

import (
	"errors"
	"testing"
)

func TestPageWriteCellAndReadBack(t *testing.T) {
	cap := DefaultPageCapacity(10)
	p := NewPage(cap, 5)

	cell := Cell{Tag: ContentCodepoint, Codepoint: 'A'}
	if err := p.WriteCell(0, 0, cell, Style{Flags: StyleBold}); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}
	got := p.Row(0).Cells()[0]
	if got.Codepoint != 'A' {
		t.Errorf("Codepoint = %q, want 'A'", got.Codepoint)
	}
	if style := p.StyleOf(got.Style); style.Flags&StyleBold == 0 {
		t.Errorf("expected interned style to be bold, got %+v", style)
	}
	if !p.Row(0).Dirty() {
		t.Error("row should be marked dirty after a write")
	}
}

func TestStyleTableExhaustion(t *testing.T) {
	cap := PageCapacity{Cols: 1, Rows: 1, Styles: 2, GraphemeBytes: 64, Hyperlinks: 4}
	p := NewPage(cap, 1)

	// Slot 0 is the default style; one more distinct style fits before the
	// table (capacity 2) is full.
	if err := p.WriteCell(0, 0, Cell{Codepoint: 'A'}, Style{Flags: StyleBold}); err != nil {
		t.Fatalf("first distinct style should fit: %v", err)
	}
	err := p.WriteCell(0, 0, Cell{Codepoint: 'B'}, Style{Flags: StyleItalic})
	if !errors.Is(err, ErrStyleTableFull) {
		t.Fatalf("WriteCell error = %v, want ErrStyleTableFull", err)
	}
}

func TestStyleInterningDeduplicates(t *testing.T) {
	cap := PageCapacity{Cols: 2, Rows: 1, Styles: 2, GraphemeBytes: 64, Hyperlinks: 4}
	p := NewPage(cap, 1)

	if err := p.WriteCell(0, 0, Cell{Codepoint: 'A'}, Style{Flags: StyleBold}); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}
	if err := p.WriteCell(0, 1, Cell{Codepoint: 'B'}, Style{Flags: StyleBold}); err != nil {
		t.Fatalf("WriteCell (same style again): %v", err)
	}
	a := p.Row(0).Cells()[0]
	b := p.Row(0).Cells()[1]
	if a.Style != b.Style {
		t.Errorf("identical styles should intern to the same id: %d != %d", a.Style, b.Style)
	}
}

func TestHyperlinkEqualityAcrossCells(t *testing.T) {
	cap := DefaultPageCapacity(10)
	p := NewPage(cap, 1)

	id1, err := p.InternHyperlink(Hyperlink{URI: "https://example.com", ID: "x"})
	if err != nil {
		t.Fatalf("InternHyperlink: %v", err)
	}
	id2, err := p.InternHyperlink(Hyperlink{URI: "https://example.com", ID: "x"})
	if err != nil {
		t.Fatalf("InternHyperlink: %v", err)
	}
	if id1 != id2 {
		t.Errorf("identical hyperlinks should intern to the same id: %d != %d", id1, id2)
	}
}
