package vtcore

// ScreenSetKey identifies which of a Terminal's three logical screens is
// being addressed (spec §3 Screen).
type ScreenSetKey int

const (
	ScreenPrimary ScreenSetKey = iota
	ScreenAlternate
	ScreenScrollbackDetached
)

// ScreenModes is a bitmask of screen-level behavior flags (spec §4.B).
type ScreenModes uint32

const (
	ModeOrigin ScreenModes = 1 << iota
	ModeAutowrap
	ModeInsert
	ModeReverseWrap
	ModeLineFeedMode // LF also does CR
)

// CharsetSlot selects one of the four character set registers (G0-G3).
type CharsetSlot int

const (
	G0 CharsetSlot = iota
	G1
	G2
	G3
)

// Charset identifies a designated character set.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CursorShape is the rendering style of the text cursor (DECSCUSR).
type CursorShape int

const (
	CursorBlinkingBlock CursorShape = iota
	CursorSteadyBlock
	CursorBlinkingUnderline
	CursorSteadyUnderline
	CursorBlinkingBar
	CursorSteadyBar
)

// Cursor holds the screen's cursor position and pen state (spec §3 Screen).
type Cursor struct {
	X, Y        int
	PendingWrap bool
	Pen         Style
	Shape       CursorShape
	Visible     bool
	Hyperlink   HyperlinkID
}

// SavedCursor is the cursor/charset/style snapshot restored by DECRC (spec
// §4.B "Cursor save/restore includes charset state, origin mode, and
// style").
type SavedCursor struct {
	X, Y       int
	Pen        Style
	Origin     bool
	Charsets   [4]Charset
	ActiveSlot CharsetSlot
}

// KittyFlags is the Kitty keyboard protocol opt-in bitmask (spec §4.E),
// pushed/popped as a stack per screen.
type KittyFlags uint8

const (
	KittyDisambiguate KittyFlags = 1 << iota
	KittyReportEvents
	KittyReportAlternates
	KittyReportAll
	KittyReportAssociated
)

// Screen is one logical surface over a PageList: cursor, scroll region,
// charsets, modes, selection, and scrollback (spec §3 Screen, §4.B).
type Screen struct {
	Key  ScreenSetKey
	list *PageList

	cursor      Cursor
	saved       *SavedCursor
	charsets    [4]Charset
	activeSlot  CharsetSlot

	scrollTop, scrollBottom int // [top, bottom), screen-relative rows

	modes ScreenModes

	dirty bool // screen-level dirty bit (spec §4.G "screen-level dirty bits")

	tabStops []bool

	selection *Selection

	kittyStack []KittyFlags

	logicalScrollback bool // false for Alternate (no scrollback, spec §3 Terminal)
}

// NewScreen creates a Screen of the given geometry. scrollback is the max
// scrollback rows retained (0 for the alternate screen).
func NewScreen(key ScreenSetKey, rows, cols, scrollback int) *Screen {
	s := &Screen{
		Key:               key,
		list:              NewPageList(cols, rows, scrollback),
		scrollTop:         0,
		scrollBottom:      rows,
		modes:             ModeAutowrap,
		tabStops:          defaultTabStops(cols),
		logicalScrollback: scrollback > 0,
	}
	s.cursor.Visible = true
	return s
}

func defaultTabStops(cols int) []bool {
	stops := make([]bool, cols)
	for i := 0; i < cols; i += 8 {
		stops[i] = true
	}
	return stops
}

func (s *Screen) Rows() int { return s.list.ScreenRows() }
func (s *Screen) Cols() int { return s.list.Cols() }

// PageList exposes the underlying page list (used by RenderState and
// search, which need page pointers/pins).
func (s *Screen) PageList() *PageList { return s.list }

// Dirty reports and MarkDirty sets the screen-level dirty bit consumed by
// RenderState to decide between a partial and full refresh.
func (s *Screen) Dirty() bool    { return s.dirty }
func (s *Screen) MarkDirty()     { s.dirty = true }
func (s *Screen) ClearDirty()    { s.dirty = false }

func (s *Screen) row(y int) *Row { return s.list.ActiveRow(y) }

func (s *Screen) blankCellForPen() Cell {
	c := blankCell
	c.Hyperlink = s.cursor.Hyperlink
	return c
}

func (s *Screen) writeCellAt(y, x int, content Cell) {
	page := s.list.ActivePage()
	_ = page.WriteCell(s.list.ActiveRowOffset()+y, x, content, s.cursor.Pen)
}

// FillBackground paints a cols x rows rectangle starting at (x, y) with a
// bare background fill and no character content (spec §3 Cell content tag
// rgb-bg/palette-bg). Out-of-bounds rows/columns are clipped silently. Used
// for cells a graphics placement covers before any pixel data is decoded —
// the cell grid still carries a plausible fill color without spending a
// style-table slot per covered cell (spec §9 "interning with capacity
// limits").
func (s *Screen) FillBackground(x, y, cols, rows int, bg Color) {
	cell := BackgroundCell(bg)
	for r := 0; r < rows; r++ {
		ry := y + r
		if ry < 0 || ry >= s.Rows() {
			continue
		}
		for c := 0; c < cols; c++ {
			rx := x + c
			if rx < 0 || rx >= s.Cols() {
				continue
			}
			s.writeCellAt(ry, rx, cell)
		}
	}
}

// WriteRune writes a single printable rune at the cursor, applying the
// wraparound rule (spec §4.B, §4.C "print" action):
//
//   - A narrow rune at the last column sets PendingWrap instead of moving
//     the cursor; the next printable rune performs the deferred wrap first.
//   - A wide rune at the last column inserts a spacer-head blank, wraps,
//     then writes the wide+tail pair on the new row.
//   - Non-printable actions and cursor movement cancel PendingWrap without
//     performing the wrap (spec §4.B).
func (s *Screen) WriteRune(r rune) {
	if r > 0x7f && s.joinIntoPrevious(r) {
		return
	}

	width := runeWidth(r)
	if width == 0 {
		// Not joinable (no previous cell, or the segmenter says it's its own
		// boundary): drop it rather than write a standalone zero-width cell.
		return
	}

	if s.cursor.PendingWrap {
		s.performWrap()
	}

	cols := s.Cols()
	if width == 2 {
		if s.cursor.X == cols-1 {
			// Spacer-head blank, then wrap before writing the wide pair.
			s.writeCellAt(s.cursor.Y, s.cursor.X, s.blankCellForPen())
			s.performWrap()
		}
		head := Cell{Tag: ContentCodepoint, Codepoint: r, Wide: WideWide, Hyperlink: s.cursor.Hyperlink}
		tail := Cell{Tag: ContentCodepoint, Codepoint: 0, Wide: WideSpacerTail, Hyperlink: s.cursor.Hyperlink}
		s.writeCellAt(s.cursor.Y, s.cursor.X, head)
		s.writeCellAt(s.cursor.Y, s.cursor.X+1, tail)
		s.advanceCursor(2)
		return
	}

	cell := Cell{Tag: ContentCodepoint, Codepoint: r, Wide: WideNarrow, Hyperlink: s.cursor.Hyperlink}
	s.writeCellAt(s.cursor.Y, s.cursor.X, cell)
	s.advanceCursor(1)
}

// joinIntoPrevious decides whether r extends the grapheme cluster already
// written in the cell to the left — a combining mark (width 0), or a ZWJ
// sequence component joining onto a preceding wide emoji (width 2) — per the
// UAX #29 segmentation spec §3 Cell ties itself to ("grapheme continuation
// codepoints"). It reports whether it consumed r; on false the caller falls
// through to WriteRune's ordinary new-cell path.
func (s *Screen) joinIntoPrevious(r rune) bool {
	x, y := s.cursor.X, s.cursor.Y
	if x == 0 && y == 0 {
		return false
	}
	px, py := x-1, y
	if px < 0 {
		return false
	}
	row := s.row(py)
	if row == nil {
		return false
	}
	cell := row.Cell(px)
	if cell == nil {
		return false
	}
	// A WideSpacerTail carries no content of its own; the cluster actually
	// lives one column further back, under the WideWide head.
	headX := px
	if cell.IsWideSpacerTail() {
		if px-1 < 0 {
			return false
		}
		headX = px - 1
		cell = row.Cell(headX)
		if cell == nil {
			return false
		}
	}
	if cell.Tag != ContentCodepoint && cell.Tag != ContentGrapheme {
		return false
	}

	page := s.list.ActivePage()
	var base []rune
	if cell.Tag == ContentGrapheme {
		base = []rune(page.GraphemeOf(cell.Grapheme))
	} else {
		base = []rune{cell.Codepoint}
	}
	joined := append(append([]rune{}, base...), r)
	if len(SegmentGraphemes(string(joined))) != 1 {
		// The segmenter considers r a boundary of its own: not a
		// continuation of the previous cluster.
		return false
	}

	id, err := page.InternGrapheme(joined)
	if err != nil {
		return true // table full: drop r, but it was still consumed as a join attempt
	}
	newCell := *cell
	newCell.Tag = ContentGrapheme
	newCell.Grapheme = id
	s.writeCellAt(py, headX, newCell)
	return true
}

func (s *Screen) advanceCursor(n int) {
	s.cursor.X += n
	if s.cursor.X >= s.Cols() {
		s.cursor.X = s.Cols() - 1
		if s.modes&ModeAutowrap != 0 {
			s.cursor.PendingWrap = true
		}
	}
}

// performWrap executes a deferred wrap: marks the current row as
// continued, moves to column 0 of the next row, scrolling if needed.
func (s *Screen) performWrap() {
	s.cursor.PendingWrap = false
	if row := s.row(s.cursor.Y); row != nil {
		row.SetFlag(RowWrap)
	}
	s.cursor.X = 0
	s.cursor.Y++
	s.scrollIfNeeded()
}

// CancelPendingWrap clears PendingWrap without performing the wrap; called
// by every non-print action (cursor movement, control codes) per spec §4.B.
func (s *Screen) CancelPendingWrap() { s.cursor.PendingWrap = false }

func (s *Screen) CarriageReturn() {
	s.CancelPendingWrap()
	s.cursor.X = 0
}

func (s *Screen) LineFeed() {
	s.CancelPendingWrap()
	s.cursor.Y++
	s.scrollIfNeeded()
	if s.modes&ModeLineFeedMode != 0 {
		s.cursor.X = 0
	}
}

// Index moves the cursor down one line, scrolling within the region if at
// the bottom margin (ESC D).
func (s *Screen) Index() {
	s.CancelPendingWrap()
	s.cursor.Y++
	s.scrollIfNeeded()
}

// ReverseIndex moves the cursor up one line, scrolling within the region if
// at the top margin (ESC M).
func (s *Screen) ReverseIndex() {
	s.CancelPendingWrap()
	if s.cursor.Y <= s.scrollTop {
		s.ScrollRegionDown(1)
	} else {
		s.cursor.Y--
	}
}

func (s *Screen) Backspace() {
	s.CancelPendingWrap()
	if s.cursor.X > 0 {
		s.cursor.X--
	} else if s.modes&ModeReverseWrap != 0 && s.cursor.Y > 0 {
		s.cursor.Y--
		s.cursor.X = s.Cols() - 1
	}
}

// Tab advances the cursor to the next tab stop, or the last column.
func (s *Screen) Tab(n int) {
	s.CancelPendingWrap()
	for ; n > 0; n-- {
		next := -1
		for x := s.cursor.X + 1; x < len(s.tabStops); x++ {
			if s.tabStops[x] {
				next = x
				break
			}
		}
		if next < 0 {
			s.cursor.X = s.Cols() - 1
			return
		}
		s.cursor.X = next
	}
}

func (s *Screen) SetTabStop()   { s.CancelPendingWrap(); s.tabStops[s.cursor.X] = true }
func (s *Screen) ClearTabStop() { s.tabStops[s.cursor.X] = false }
func (s *Screen) ClearAllTabStops() {
	for i := range s.tabStops {
		s.tabStops[i] = false
	}
}

// Goto moves the cursor to an absolute position, honoring origin mode.
func (s *Screen) Goto(y, x int) {
	s.CancelPendingWrap()
	top, bottom := 0, s.Rows()
	if s.modes&ModeOrigin != 0 {
		top, bottom = s.scrollTop, s.scrollBottom
		y += s.scrollTop
	}
	s.cursor.Y = clampInt(y, top, bottom-1)
	s.cursor.X = clampInt(x, 0, s.Cols()-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scrollIfNeeded scrolls the active region when the cursor moved outside
// [scrollTop, scrollBottom).
func (s *Screen) scrollIfNeeded() {
	if s.cursor.Y >= s.scrollBottom {
		n := s.cursor.Y - s.scrollBottom + 1
		s.ScrollRegionUp(n)
		s.cursor.Y = s.scrollBottom - 1
	} else if s.cursor.Y < s.scrollTop {
		s.ScrollRegionDown(s.scrollTop - s.cursor.Y)
		s.cursor.Y = s.scrollTop
	}
}

// ScrollRegionUp scrolls [scrollTop, scrollBottom) up by n lines. When the
// scroll region is the full screen (top==0, bottom==rows), lines leaving the
// top enter scrollback via PageList.AppendBlankRow; otherwise rows are
// rotated in place within the tail page and never touch scrollback (spec
// §4.B "Scroll-out moves rows into scrollback... pruning the oldest page").
func (s *Screen) ScrollRegionUp(n int) {
	if n <= 0 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	if n > bottom-top {
		n = bottom - top
	}
	if top == 0 && bottom == s.Rows() {
		for i := 0; i < n; i++ {
			s.list.AppendBlankRow(blankCell)
		}
		s.MarkDirty()
		return
	}
	s.rotateRegion(top, bottom, n, true)
}

// ScrollRegionDown scrolls [scrollTop, scrollBottom) down by n lines,
// clearing the lines that enter at the top. Never touches scrollback.
func (s *Screen) ScrollRegionDown(n int) {
	if n <= 0 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	if n > bottom-top {
		n = bottom - top
	}
	s.rotateRegion(top, bottom, n, false)
}

// rotateRegion shifts rows [top,bottom) by n within the active page, in the
// given direction, clearing the vacated rows.
func (s *Screen) rotateRegion(top, bottom, n int, up bool) {
	page := s.list.ActivePage()
	off := s.list.ActiveRowOffset()
	rows := make([][]Cell, bottom-top)
	for i := range rows {
		r := page.Row(off + top + i)
		rows[i] = append([]Cell(nil), r.cells...)
	}
	flags := make([]RowFlags, bottom-top)
	for i := top; i < bottom; i++ {
		flags[i-top] = page.Row(off + i).Flags
	}
	for i := top; i < bottom; i++ {
		var srcIdx int
		if up {
			srcIdx = i - top + n
		} else {
			srcIdx = i - top - n
		}
		dstRow := page.Row(off + i)
		if srcIdx >= 0 && srcIdx < len(rows) {
			copy(dstRow.cells, rows[srcIdx])
			dstRow.Flags = flags[srcIdx]
			dstRow.MarkDirty()
		} else {
			for c := range dstRow.cells {
				dstRow.cells[c] = blankCell
			}
			dstRow.Flags = RowDirty
		}
	}
	s.MarkDirty()
}

// SetScrollRegion sets the scrolling region (DECSTBM), 0-based,
// exclusive-bottom.
func (s *Screen) SetScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom > s.Rows() || bottom <= 0 {
		bottom = s.Rows()
	}
	if top >= bottom {
		top, bottom = 0, s.Rows()
	}
	s.scrollTop, s.scrollBottom = top, bottom
	s.Goto(0, 0)
}

func (s *Screen) ScrollRegion() (top, bottom int) { return s.scrollTop, s.scrollBottom }

// InsertLines inserts n blank lines at the cursor row, within the scroll
// region, pushing following lines down (and off the bottom of the region).
func (s *Screen) InsertLines(n int) {
	if s.cursor.Y < s.scrollTop || s.cursor.Y >= s.scrollBottom {
		return
	}
	savedTop := s.scrollTop
	s.scrollTop = s.cursor.Y
	s.rotateRegion(s.scrollTop, s.scrollBottom, n, false)
	s.scrollTop = savedTop
}

// DeleteLines deletes n lines at the cursor row, within the scroll region,
// pulling following lines up.
func (s *Screen) DeleteLines(n int) {
	if s.cursor.Y < s.scrollTop || s.cursor.Y >= s.scrollBottom {
		return
	}
	savedTop := s.scrollTop
	s.scrollTop = s.cursor.Y
	s.rotateRegion(s.scrollTop, s.scrollBottom, n, true)
	s.scrollTop = savedTop
}

// InsertBlankChars shifts cells from the cursor right by n within the row,
// discarding cells pushed past the right margin.
func (s *Screen) InsertBlankChars(n int) {
	row := s.row(s.cursor.Y)
	if row == nil {
		return
	}
	cols := s.Cols()
	for x := cols - 1; x >= s.cursor.X+n; x-- {
		row.cells[x] = row.cells[x-n]
	}
	for x := s.cursor.X; x < s.cursor.X+n && x < cols; x++ {
		row.cells[x] = s.blankCellForPen()
	}
	row.MarkDirty()
}

// DeleteChars removes n cells at the cursor, shifting the remainder left and
// blanking the vacated tail.
func (s *Screen) DeleteChars(n int) {
	row := s.row(s.cursor.Y)
	if row == nil {
		return
	}
	cols := s.Cols()
	for x := s.cursor.X; x < cols-n; x++ {
		row.cells[x] = row.cells[x+n]
	}
	for x := cols - n; x < cols; x++ {
		if x >= 0 {
			row.cells[x] = s.blankCellForPen()
		}
	}
	row.MarkDirty()
}

// EraseChars blanks n cells starting at the cursor, without shifting.
func (s *Screen) EraseChars(n int) {
	page := s.list.ActivePage()
	styleID, _ := page.InternStyle(s.cursor.Pen)
	page.ClearRowRange(s.list.ActiveRowOffset()+s.cursor.Y, s.cursor.X, s.cursor.X+n, s.blankCellForPen(), styleID)
}

// EraseLineMode mirrors ED/EL parameter semantics.
type EraseLineMode int

const (
	EraseToEnd EraseLineMode = iota
	EraseToStart
	EraseWholeLine
)

// EraseLine erases part or all of the cursor's row. Cells whose style has
// StyleProtected set are skipped when protected is true (DECSCA selective
// erase, spec §4.B "with selective-erase protection").
func (s *Screen) EraseLine(mode EraseLineMode, protected bool) {
	start, end := 0, s.Cols()
	switch mode {
	case EraseToEnd:
		start = s.cursor.X
	case EraseToStart:
		end = s.cursor.X + 1
	}
	s.eraseRange(s.cursor.Y, start, end, protected)
}

func (s *Screen) eraseRange(y, start, end int, protected bool) {
	page := s.list.ActivePage()
	off := s.list.ActiveRowOffset()
	row := page.Row(off + y)
	if row == nil {
		return
	}
	if protected {
		styleID, _ := page.InternStyle(s.cursor.Pen)
		for x := start; x < end && x < len(row.cells); x++ {
			if page.StyleOf(row.cells[x].Style).Flags&StyleProtected != 0 {
				continue
			}
			row.cells[x] = s.blankCellForPen()
			row.cells[x].Style = styleID
		}
		row.MarkDirty()
		return
	}
	styleID, _ := page.InternStyle(s.cursor.Pen)
	page.ClearRowRange(off+y, start, end, s.blankCellForPen(), styleID)
}

type EraseDisplayMode int

const (
	EraseDisplayToEnd EraseDisplayMode = iota
	EraseDisplayToStart
	EraseDisplayWhole
	EraseDisplayWholeAndScrollback
)

// EraseDisplay implements ED (erase-in-display). Mode 3
// (EraseDisplayWholeAndScrollback) erases the visible rows exactly like
// mode 2; it does not remove scrollback rows.
func (s *Screen) EraseDisplay(mode EraseDisplayMode, protected bool) {
	rows := s.Rows()
	switch mode {
	case EraseDisplayToEnd:
		s.eraseRange(s.cursor.Y, s.cursor.X, s.Cols(), protected)
		for y := s.cursor.Y + 1; y < rows; y++ {
			s.eraseRange(y, 0, s.Cols(), protected)
		}
	case EraseDisplayToStart:
		for y := 0; y < s.cursor.Y; y++ {
			s.eraseRange(y, 0, s.Cols(), protected)
		}
		s.eraseRange(s.cursor.Y, 0, s.cursor.X+1, protected)
	case EraseDisplayWhole, EraseDisplayWholeAndScrollback:
		for y := 0; y < rows; y++ {
			s.eraseRange(y, 0, s.Cols(), protected)
		}
	}
	s.MarkDirty()
}

// SetCharset designates a charset into a G-slot (ESC ( / ) / * / +).
func (s *Screen) SetCharset(slot CharsetSlot, cs Charset) { s.charsets[int(slot)] = cs }

// InvokeCharset switches the active G-slot (SI/SO shift in/out).
func (s *Screen) InvokeCharset(slot CharsetSlot) { s.activeSlot = slot }

// ActiveCharset returns the currently invoked charset.
func (s *Screen) ActiveCharset() Charset { return s.charsets[int(s.activeSlot)] }

// SaveCursor implements DECSC: cursor position, pen, origin mode, and
// charset state (spec §4.B).
func (s *Screen) SaveCursor() {
	s.saved = &SavedCursor{
		X: s.cursor.X, Y: s.cursor.Y,
		Pen:        s.cursor.Pen,
		Origin:     s.modes&ModeOrigin != 0,
		Charsets:   s.charsets,
		ActiveSlot: s.activeSlot,
	}
}

// RestoreCursor implements DECRC.
func (s *Screen) RestoreCursor() {
	if s.saved == nil {
		s.Goto(0, 0)
		return
	}
	sv := s.saved
	s.cursor.X, s.cursor.Y = sv.X, sv.Y
	s.cursor.Pen = sv.Pen
	s.cursor.PendingWrap = false
	if sv.Origin {
		s.modes |= ModeOrigin
	} else {
		s.modes &^= ModeOrigin
	}
	s.charsets = sv.Charsets
	s.activeSlot = sv.ActiveSlot
}

// PushKittyFlags/PopKittyFlags maintain the per-screen Kitty keyboard flags
// stack (spec §3 Screen "cached kitty-keyboard flags stack").
func (s *Screen) PushKittyFlags(f KittyFlags) { s.kittyStack = append(s.kittyStack, f) }
func (s *Screen) PopKittyFlags(n int) {
	if n <= 0 || n > len(s.kittyStack) {
		n = len(s.kittyStack)
	}
	s.kittyStack = s.kittyStack[:len(s.kittyStack)-n]
}
func (s *Screen) CurrentKittyFlags() KittyFlags {
	if len(s.kittyStack) == 0 {
		return 0
	}
	return s.kittyStack[len(s.kittyStack)-1]
}

// Resize adjusts the screen's geometry, clamping the cursor and resetting
// the scroll region to the full screen (spec §4.B).
func (s *Screen) Resize(rows, cols int) {
	s.list.Resize(rows, cols)
	s.scrollTop, s.scrollBottom = 0, rows
	s.cursor.X = clampInt(s.cursor.X, 0, cols-1)
	s.cursor.Y = clampInt(s.cursor.Y, 0, rows-1)
	if len(s.tabStops) != cols {
		s.tabStops = defaultTabStops(cols)
	}
	s.MarkDirty()
}

// Cursor returns a copy of the cursor state.
func (s *Screen) Cursor() Cursor { return s.cursor }

// SetSelection installs the selection on this screen.
func (s *Screen) SetSelection(sel *Selection) { s.selection = sel }
func (s *Screen) Selection() *Selection       { return s.selection }
