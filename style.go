package vtcore

import "errors"

// ErrStyleTableFull is returned by Page.InternStyle and Page.WriteCell when the page's bounded
// style set has no room for a new distinct style (spec §4.A: "when full, a
// write fails and the caller must split or evict").
var ErrStyleTableFull = errors.New("vtcore: page style table at capacity")

// StyleFlags is a bitmask of SGR attributes (spec §3 Style).
type StyleFlags uint16

const (
	StyleBold StyleFlags = 1 << iota
	StyleItalic
	StyleFaint
	StyleBlink
	StyleInverse
	StyleInvisible
	StyleStrikethrough
	StyleUnderline
	StyleUnderlineDouble
	StyleUnderlineCurly
	StyleUnderlineDotted
	StyleUnderlineDashed
	// StyleProtected marks a cell as DECSCA-protected: selective erase
	// (erase-display/-line "protected" variants) must skip it.
	StyleProtected
)

// UnderlineVariant returns the flag subset describing the underline kind, or
// 0 if no underline is set.
func (f StyleFlags) UnderlineVariant() StyleFlags {
	return f & (StyleUnderline | StyleUnderlineDouble | StyleUnderlineCurly | StyleUnderlineDotted | StyleUnderlineDashed)
}

// Style is the sum of SGR attributes and the three color slots a cell can
// reference. Styles are interned per page into a bounded, ref-counted set;
// StyleID 0 always means "default" (spec §3).
type Style struct {
	Flags     StyleFlags
	Fg        Color
	Bg        Color
	Underline Color
}

// DefaultStyle is the zero-value style, always interned at StyleID 0.
var DefaultStyle = Style{}

// StyleID identifies an interned Style within one Page. 0 is always the
// default style.
type StyleID uint16

// styleTable is a bounded, ref-counted intern set of Styles owned by one
// Page's arena.
type styleTable struct {
	styles   []Style
	refcount []uint32
	byValue  map[Style]StyleID
	capacity int
}

func newStyleTable(capacity int) *styleTable {
	t := &styleTable{
		styles:   make([]Style, 1, capacity),
		refcount: make([]uint32, 1, capacity),
		byValue:  make(map[Style]StyleID, capacity),
		capacity: capacity,
	}
	t.styles[0] = DefaultStyle
	t.refcount[0] = 1 // default style is never evicted
	t.byValue[DefaultStyle] = 0
	return t
}

// intern returns the StyleID for s, allocating a new slot if s is not
// already interned. Fails with ErrStyleTableFull if the table has no room
// and s is not already present (spec §4.A, §9 "interning with capacity
// limits").
func (t *styleTable) intern(s Style) (StyleID, error) {
	if id, ok := t.byValue[s]; ok {
		t.refcount[id]++
		return id, nil
	}
	if len(t.styles) >= t.capacity {
		return 0, ErrStyleTableFull
	}
	id := StyleID(len(t.styles))
	t.styles = append(t.styles, s)
	t.refcount = append(t.refcount, 1)
	t.byValue[s] = id
	return id, nil
}

// release drops one reference to id. When the refcount of a non-default
// style reaches zero the slot is freed from byValue (but its index is not
// reused within this table's lifetime — the arena is bounded and the page
// is expected to be pruned wholesale, per §3 Lifecycle).
func (t *styleTable) release(id StyleID) {
	if id == 0 || int(id) >= len(t.refcount) {
		return
	}
	if t.refcount[id] > 0 {
		t.refcount[id]--
	}
	if t.refcount[id] == 0 {
		delete(t.byValue, t.styles[id])
	}
}

func (t *styleTable) get(id StyleID) Style {
	if int(id) >= len(t.styles) {
		return DefaultStyle
	}
	return t.styles[id]
}

func (t *styleTable) len() int { return len(t.styles) }
