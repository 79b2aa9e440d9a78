package vtcore

// PageList is an ordered sequence of Pages providing scrollback plus the
// active viewport (spec §3 PageList). The active area is always the last
// ScreenRows rows across the tail of the list.
//
// Simplifying assumption (documented here): a Page's row capacity is always
// sized to at least ScreenRows (Resize enforces this), and AppendBlankRow
// carries the newest ScreenRows-1 rows into each new tail page, so the
// entire active area lives within the tail page. Scroll-region operations
// that stay within the screen (DECSTBM partial regions) therefore only ever
// touch the tail page; only a full-screen scroll (top==0, bottom==rows)
// grows the list and can trigger a prune.
type PageList struct {
	head, tail *Page
	pageCount  int

	cols       int
	screenRows int
	cap        PageCapacity

	maxScrollbackRows int

	tracked   map[TrackedPinID]*trackedPinEntry
	nextPinID TrackedPinID
}

// NewPageList creates a list with one page sized for screenRows live rows
// plus room to grow, and the given scrollback cap (in rows; 0 disables
// scrollback entirely).
func NewPageList(cols, screenRows, maxScrollbackRows int) *PageList {
	cap := DefaultPageCapacity(cols)
	if cap.Rows < screenRows {
		cap.Rows = screenRows
	}
	p := NewPage(cap, screenRows)
	return &PageList{
		head: p, tail: p, pageCount: 1,
		cols: cols, screenRows: screenRows, cap: cap,
		maxScrollbackRows: maxScrollbackRows,
	}
}

func (l *PageList) Cols() int       { return l.cols }
func (l *PageList) ScreenRows() int { return l.screenRows }

// TotalRows returns the number of rows live across every page.
func (l *PageList) TotalRows() int {
	n := 0
	for p := l.head; p != nil; p = p.next {
		n += p.Rows()
	}
	return n
}

// ScrollbackRows returns the number of rows above the active area.
func (l *PageList) ScrollbackRows() int {
	return l.TotalRows() - l.screenRows
}

// ActivePage returns the tail page, which (per the capacity invariant)
// contains the full active area.
func (l *PageList) ActivePage() *Page { return l.tail }

// ActiveRowOffset returns the index within ActivePage's rows where the
// active area begins.
func (l *PageList) ActiveRowOffset() int {
	return l.tail.Rows() - l.screenRows
}

// ActiveRow returns row `screenRow` (0-based within the active area).
func (l *PageList) ActiveRow(screenRow int) *Row {
	return l.tail.Row(l.ActiveRowOffset() + screenRow)
}

// pageIndex returns the ordinal position of page in the list, or -1.
func (l *PageList) pageIndex(page *Page) int {
	i := 0
	for p := l.head; p != nil; p = p.next {
		if p == page {
			return i
		}
		i++
	}
	return -1
}

// Pages calls fn for each page from oldest to newest; stops early if fn
// returns false.
func (l *PageList) Pages(fn func(*Page) bool) {
	for p := l.head; p != nil; p = p.next {
		if !fn(p) {
			return
		}
	}
}

// PagesReverse calls fn for each page from newest to oldest.
func (l *PageList) PagesReverse(fn func(*Page) bool) {
	for p := l.tail; p != nil; p = p.prev {
		if !fn(p) {
			return
		}
	}
}

// AppendBlankRow grows the tail page by one row, allocating a successor page
// if the tail is at capacity, and returns it. This is how content scrolls
// into history: the active-area window (last screenRows rows) simply slides
// forward over the growing list. After appending, PruneIfNeeded is run.
func (l *PageList) AppendBlankRow(blank Cell) *Row {
	if l.tail.GrowRows(1) == 0 {
		// Move the newest screenRows-1 rows along so the active area stays in the tail page.
		old := l.tail
		keep := l.screenRows - 1
		first := old.Rows() - keep
		np := NewPage(l.cap, keep)
		copy(np.rows, old.rows[first:])
		for i := range np.rows {
			np.rows[i].cells = np.cells[i*np.cap.Cols : (i+1)*np.cap.Cols]
			for col, cell := range old.rows[first+i].cells {
				np.rows[i].cells[col] = reinternCell(cell, old, np)
			}
		}
		old.rows = old.rows[:first]
		for _, e := range l.tracked {
			e.garbage = e.garbage || (e.pin.Page == old && e.pin.Row >= first)
		}
		np.prev = l.tail
		l.tail.next = np
		l.tail = np
		l.pageCount++
		np.GrowRows(1)
	}
	row := l.tail.Row(l.tail.Rows() - 1)
	for i := range row.cells {
		row.cells[i] = blank
	}
	row.MarkDirty()
	l.PruneIfNeeded()
	return row
}

// PruneIfNeeded drops the oldest page(s) while scrollback exceeds the
// configured maximum (spec §3 Page "eviction target is the oldest page").
// Any tracked pin addressing a dropped page is flagged garbage — per spec
// §7 it must fail closed on next Resolve, never dereference freed memory.
func (l *PageList) PruneIfNeeded() {
	for l.head != l.tail && l.ScrollbackRows() > l.maxScrollbackRows {
		victim := l.head
		l.head = victim.next
		if l.head != nil {
			l.head.prev = nil
		}
		l.pageCount--
		for _, e := range l.tracked {
			if e.pin.Page == victim {
				e.garbage = true
			}
		}
	}
}

// reinternCell copies cell from src into dst, re-interning its Style,
// Grapheme, and Hyperlink references into dst's own tables rather than
// carrying the raw ids across — each Page's tables are a private bounded
// intern set, so an id copied verbatim from a different Page's arena would
// silently resolve to whatever (or nothing) happens to occupy that slot in
// dst, dropping SGR/grapheme/hyperlink data (spec §3 Page, §9 "interning
// with capacity limits").
func reinternCell(cell Cell, src, dst *Page) Cell {
	if id, err := dst.InternStyle(src.StyleOf(cell.Style)); err == nil {
		cell.Style = id
	} else {
		cell.Style = 0
	}
	if cell.Tag == ContentGrapheme {
		if id, err := dst.InternGrapheme([]rune(src.GraphemeOf(cell.Grapheme))); err == nil {
			cell.Grapheme = id
		} else {
			// Grapheme table full in the new page: fall back to the cluster's
			// base rune rather than leave a dangling id.
			base := []rune(src.GraphemeOf(cell.Grapheme))
			cell.Tag = ContentCodepoint
			cell.Grapheme = 0
			if len(base) > 0 {
				cell.Codepoint = base[0]
			}
		}
	}
	if cell.Hyperlink != 0 {
		if link, ok := src.HyperlinkOf(cell.Hyperlink); ok {
			if id, err := dst.InternHyperlink(link); err == nil {
				cell.Hyperlink = id
			} else {
				cell.Hyperlink = 0
			}
		} else {
			cell.Hyperlink = 0
		}
	}
	return cell
}

// Resize changes the active area's row/col geometry. A column change
// replaces the whole list with one fresh page (cells are fixed-width
// arrays), so scrollback is dropped and every tracked pin becomes garbage;
// a row change just moves the active-area offset, replacing the tail page
// with a larger copy if it needs more capacity.
func (l *PageList) Resize(rows, cols int) {
	if cols != l.cols {
		cap := DefaultPageCapacity(cols)
		if cap.Rows < rows {
			cap.Rows = rows
		}
		np := NewPage(cap, rows)
		l.head, l.tail, l.pageCount = np, np, 1
		l.cols, l.cap = cols, cap
		l.screenRows = rows
		for _, e := range l.tracked {
			e.garbage = true
		}
		return
	}
	l.screenRows = rows
	if l.tail.Capacity() < rows {
		// Grow capacity by allocating a fresh tail sized for the new height,
		// copying the live rows across (arena is fixed-size once allocated).
		old := l.tail
		np := NewPage(PageCapacity{Cols: l.cols, Rows: rows, Styles: l.cap.Styles, GraphemeBytes: l.cap.GraphemeBytes, Hyperlinks: l.cap.Hyperlinks}, old.Rows())
		copy(np.rows, old.rows)
		for i := range np.rows {
			start := i * np.cap.Cols
			np.rows[i].cells = np.cells[start : start+np.cap.Cols]
			for col, cell := range old.rows[i].cells {
				np.rows[i].cells[col] = reinternCell(cell, old, np)
			}
		}
		np.prev = old.prev
		if np.prev != nil {
			np.prev.next = np
		} else {
			l.head = np
		}
		l.tail = np
		l.cap = np.cap
		// old is superseded, not pruned from the list — bump its generation
		// so any TrackedPin still referencing it resolves as garbage instead
		// of quietly returning a stale view (spec §9 "small per-page
		// generation counter").
		old.generation++
	}
	if l.tail.Rows() < rows {
		l.tail.GrowRows(rows - l.tail.Rows())
	}
}
