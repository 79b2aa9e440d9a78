package vtcore

import "errors"

// ErrPageFull is returned when a Page has no remaining row capacity and the
// caller must allocate a successor Page (spec §4.A).
var ErrPageFull = errors.New("vtcore: page row capacity exhausted")

// PageCapacity bounds the five arenas a Page owns (spec §3 Page).
type PageCapacity struct {
	Cols            int
	Rows            int // row capacity; a page may hold fewer live rows
	Styles          int
	GraphemeBytes   int
	Hyperlinks      int
}

// DefaultPageCapacity is a reasonable single-page size: enough rows to
// amortize allocation, bounded so a page's arena stays cache-friendly.
func DefaultPageCapacity(cols int) PageCapacity {
	return PageCapacity{
		Cols:          cols,
		Rows:          500,
		Styles:        256,
		GraphemeBytes: 64 * 1024,
		Hyperlinks:    256,
	}
}

// Page is an arena that exclusively owns a contiguous range of
// rows+cells+styles+graphemes+hyperlinks, up to its capacity. Pages are
// nodes in PageList's doubly linked list (spec §3 Page, §9 "cyclic refs and
// back-pointers").
type Page struct {
	cap PageCapacity

	rows  []Row
	cells []Cell // len == cap.Rows * cap.Cols; Row.cells slices into this

	styles     *styleTable
	graphemes  *graphemeTable
	hyperlinks *hyperlinkTable

	// generation increments whenever this page's content has been
	// superseded in place — e.g. PageList.Resize replacing the tail with a
	// freshly-reinterned copy when row capacity runs out. A Page object can
	// outlive its removal from the list (a raw Pin may still hold the
	// pointer), so TrackedPin resolution compares the generation it saw at
	// Track/Update time against the page's current value to catch this case
	// in addition to outright pruning (spec §9 "small per-page generation
	// counter").
	generation uint32

	next, prev *Page
}

// NewPage allocates a Page's arena sized to cap. liveRows is the number of rows
// initially live (<= cap.Rows); the rest of the row capacity is reserved for
// future growth without reallocating cells.
func NewPage(cap PageCapacity, liveRows int) *Page {
	if liveRows > cap.Rows {
		liveRows = cap.Rows
	}
	p := &Page{
		cap:        cap,
		rows:       make([]Row, liveRows, cap.Rows),
		cells:      make([]Cell, cap.Rows*cap.Cols),
		styles:     newStyleTable(cap.Styles),
		graphemes:  newGraphemeTable(cap.GraphemeBytes),
		hyperlinks: newHyperlinkTable(cap.Hyperlinks),
	}
	for i := 0; i < liveRows; i++ {
		p.initRow(i)
	}
	return p
}

func (p *Page) initRow(i int) {
	start := i * p.cap.Cols
	p.rows[i].cells = p.cells[start : start+p.cap.Cols]
	for c := range p.rows[i].cells {
		p.rows[i].cells[c] = blankCell
	}
}

// Cols returns the fixed column width of every row in this page.
func (p *Page) Cols() int { return p.cap.Cols }

// Rows returns the number of currently live rows.
func (p *Page) Rows() int { return len(p.rows) }

// Capacity returns the page's row capacity (live rows may grow up to this
// without reallocating the cell arena).
func (p *Page) Capacity() int { return p.cap.Rows }

// Row returns the row at index, or nil if out of range.
func (p *Page) Row(index int) *Row {
	if index < 0 || index >= len(p.rows) {
		return nil
	}
	return &p.rows[index]
}

// GrowRows appends n live rows, up to the page's capacity. Returns the
// number of rows actually added; fewer than n means the page is full and the
// caller (Screen/PageList) must allocate a successor page (spec §4.A
// "Failure semantics").
func (p *Page) GrowRows(n int) int {
	room := p.cap.Rows - len(p.rows)
	if n > room {
		n = room
	}
	start := len(p.rows)
	p.rows = p.rows[:start+n]
	for i := start; i < start+n; i++ {
		p.initRow(i)
	}
	return n
}

// WriteCell stores a cell at (row, col) with the given style, interning the
// style into this page's style table. Returns ErrStyleTableFull (never
// panics) if the style table is at capacity and s is not already interned —
// the caller must split to a new page and continue there (spec §4.A, §9).
func (p *Page) WriteCell(row, col int, content Cell, s Style) error {
	r := p.Row(row)
	if r == nil || col < 0 || col >= p.cap.Cols {
		return nil
	}
	id, err := p.styles.intern(s)
	if err != nil {
		return err
	}
	old := r.cells[col]
	if old.Style != 0 {
		p.styles.release(old.Style)
	}
	if old.Hyperlink != 0 {
		p.hyperlinks.release(old.Hyperlink)
	}
	content.Style = id
	r.cells[col] = content
	if content.Tag == ContentGrapheme || content.Hyperlink != 0 {
		r.SetFlag(RowManaged)
	}
	r.MarkDirty()
	return nil
}

// StyleOf resolves a cell's interned style id back to a Style value.
func (p *Page) StyleOf(id StyleID) Style { return p.styles.get(id) }

// InternStyle interns s without writing a cell, for callers (e.g. the
// cursor's pending SGR template) that need a stable id ahead of a write.
func (p *Page) InternStyle(s Style) (StyleID, error) { return p.styles.intern(s) }

// InternGrapheme stores a multi-rune grapheme cluster, returning
// ErrGraphemeTableFull if the page's grapheme byte budget is exhausted.
func (p *Page) InternGrapheme(runes []rune) (GraphemeID, error) {
	return p.graphemes.intern(runes)
}

// GraphemeOf resolves a grapheme id back to its cluster string.
func (p *Page) GraphemeOf(id GraphemeID) string { return p.graphemes.get(id) }

// InternHyperlink stores a hyperlink, returning ErrHyperlinkTableFull if the
// page's hyperlink table is full.
func (p *Page) InternHyperlink(h Hyperlink) (HyperlinkID, error) {
	return p.hyperlinks.intern(h)
}

// HyperlinkOf resolves a hyperlink id back to its value.
func (p *Page) HyperlinkOf(id HyperlinkID) (Hyperlink, bool) {
	return p.hyperlinks.get(id)
}

// ReleaseHyperlink drops a reference a caller is discarding without writing
// it through WriteCell (e.g. overwriting a cell with ClearRowRange).
func (p *Page) ReleaseHyperlink(id HyperlinkID) { p.hyperlinks.release(id) }

// ClearRowRange blanks cells [startCol, endCol) in row, releasing any style
// or hyperlink references they held.
func (p *Page) ClearRowRange(row, startCol, endCol int, blank Cell, blankStyle StyleID) {
	r := p.Row(row)
	if r == nil {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > p.cap.Cols {
		endCol = p.cap.Cols
	}
	for c := startCol; c < endCol; c++ {
		old := r.cells[c]
		if old.Style != 0 {
			p.styles.release(old.Style)
		}
		if old.Hyperlink != 0 {
			p.hyperlinks.release(old.Hyperlink)
		}
		cell := blank
		cell.Style = blankStyle
		r.cells[c] = cell
	}
	r.MarkDirty()
}
