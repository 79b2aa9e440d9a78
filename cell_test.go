package vtcore

import "testing"

func TestBackgroundCellRGBResolvesWithoutStyleTable(t *testing.T) {
	page := NewPage(DefaultPageCapacity(10), 1)
	cell := BackgroundCell(RGBColor(10, 20, 30))
	if cell.Tag != ContentRGBBg {
		t.Fatalf("Tag = %v, want ContentRGBBg", cell.Tag)
	}
	if got := cell.Background(page); got != RGBColor(10, 20, 30) {
		t.Errorf("Background() = %+v, want rgb(10,20,30)", got)
	}
}

func TestBackgroundCellPaletteResolvesWithoutStyleTable(t *testing.T) {
	page := NewPage(DefaultPageCapacity(10), 1)
	cell := BackgroundCell(PaletteColor(200))
	if cell.Tag != ContentPaletteBg {
		t.Fatalf("Tag = %v, want ContentPaletteBg", cell.Tag)
	}
	if got := cell.Background(page); got != PaletteColor(200) {
		t.Errorf("Background() = %+v, want palette(200)", got)
	}
}

func TestOrdinaryCellBackgroundFallsThroughToStyle(t *testing.T) {
	page := NewPage(DefaultPageCapacity(10), 1)
	id, err := page.InternStyle(Style{Bg: RGBColor(1, 2, 3)})
	if err != nil {
		t.Fatalf("InternStyle: %v", err)
	}
	cell := Cell{Tag: ContentCodepoint, Codepoint: 'A', Style: id}
	if got := cell.Background(page); got != (RGBColor(1, 2, 3)) {
		t.Errorf("Background() = %+v, want rgb(1,2,3)", got)
	}
}

func TestScreenFillBackgroundPaintsRectangleWithoutCharacters(t *testing.T) {
	scr := NewScreen(ScreenPrimary, 5, 10, 0)
	scr.FillBackground(2, 1, 3, 2, RGBColor(128, 128, 128))

	page := scr.PageList().ActivePage()
	for y := 1; y <= 2; y++ {
		row := scr.PageList().ActiveRow(y)
		for x := 2; x < 5; x++ {
			c := row.Cells()[x]
			if c.Tag != ContentRGBBg {
				t.Fatalf("cell(%d,%d).Tag = %v, want ContentRGBBg", y, x, c.Tag)
			}
			if got := c.Background(page); got != RGBColor(128, 128, 128) {
				t.Errorf("cell(%d,%d).Background() = %+v, want rgb(128,128,128)", y, x, got)
			}
		}
	}
	// Untouched cell outside the rectangle stays ordinary blank content.
	if c := scr.PageList().ActiveRow(0).Cells()[0]; c.Tag != ContentCodepoint {
		t.Errorf("untouched cell Tag = %v, want ContentCodepoint", c.Tag)
	}
}

func TestKittyGraphicsDisplayFillsBackgroundCells(t *testing.T) {
	term := NewTerminal(WithGeometry(5, 20))
	stream := NewStream(term)
	stream.Feed([]byte("\x1b_Ga=T,i=9,c=3,r=2,q=2;\x1b\\"))

	scr := term.Active()
	page := scr.PageList().ActivePage()
	row0 := scr.PageList().ActiveRow(0)
	for x := 0; x < 3; x++ {
		if row0.Cells()[x].Tag != ContentRGBBg {
			t.Errorf("cell(0,%d).Tag = %v, want ContentRGBBg", x, row0.Cells()[x].Tag)
		}
	}
	if got := row0.Cells()[0].Background(page); got != kittyPlaceholderBackground {
		t.Errorf("fill color = %+v, want placeholder gray", got)
	}
}
