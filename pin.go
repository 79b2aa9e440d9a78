package vtcore

// Pin is an untracked location (page, row, col) into a PageList (spec §3
// PageList, GLOSSARY "Pin"). It is a plain value; nothing updates it when
// pages are pruned. A tracked pin (TrackPin) is not moved either, but
// Resolve reports when its page has been pruned or superseded.
type Pin struct {
	Page *Page
	Row  int
	Col  int
}

// Valid reports whether the pin addresses a live row/col in its page. It
// does NOT check whether Page is still part of any PageList — a caller
// holding a raw Pin across a prune is responsible for that, which is exactly
// why TrackedPin exists.
func (p Pin) Valid() bool {
	if p.Page == nil {
		return false
	}
	r := p.Page.Row(p.Row)
	return r != nil && p.Col >= 0 && p.Col < p.Page.Cols()
}

// Less reports screen order: p sorts before o if it is on an earlier page,
// or the same page at an earlier row, or the same row at an earlier column.
func (p Pin) Less(o Pin, list *PageList) bool {
	pi, oi := list.pageIndex(p.Page), list.pageIndex(o.Page)
	if pi != oi {
		return pi < oi
	}
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// TrackedPinID identifies a pin registered with a PageList so that Resolve
// can report it as garbage once its location is gone.
type TrackedPinID uint64

// trackedPinEntry is the PageList-owned bookkeeping for one tracked pin.
// generation snapshots pin.Page.generation as of the last Track/Update call;
// Resolve treats a mismatch against the page's current generation as garbage
// the same way it treats an explicitly pruned page, catching the case where
// a page was superseded in place (PageList.Resize) rather than removed from
// the list outright.
type trackedPinEntry struct {
	pin        Pin
	garbage    bool
	generation uint32
}

// TrackPin registers pin with the list and returns a handle for later
// lookups and Untrack. The list never relocates a tracked pin: when its page
// is pruned, its row is carried into a new tail page (AppendBlankRow), or
// its page is superseded by PageList.Resize, the pin becomes garbage and
// Resolve reports ok == false. Only Update moves it.
func (l *PageList) TrackPin(pin Pin) TrackedPinID {
	l.nextPinID++
	id := l.nextPinID
	if l.tracked == nil {
		l.tracked = make(map[TrackedPinID]*trackedPinEntry)
	}
	l.tracked[id] = &trackedPinEntry{pin: pin, generation: pinGeneration(pin)}
	return id
}

func pinGeneration(pin Pin) uint32 {
	if pin.Page == nil {
		return 0
	}
	return pin.Page.generation
}

// Untrack removes a tracked pin's registration. Safe to call on an id that
// is already garbage or unknown.
func (l *PageList) Untrack(id TrackedPinID) {
	delete(l.tracked, id)
}

// Resolve returns the tracked pin's current location and whether it is
// still live. A garbage pin (its page was pruned or superseded, or its row
// was moved to a new tail page) returns ok == false; callers must fail closed (spec §7 "Tracked-pin
// garbage").
func (l *PageList) Resolve(id TrackedPinID) (Pin, bool) {
	e, found := l.tracked[id]
	if !found || e.garbage || pinGeneration(e.pin) != e.generation {
		return Pin{}, false
	}
	return e.pin, true
}

// Update moves a tracked pin to a new location chosen by the caller. The
// PageList itself never calls it; scrolling within a page leaves tracked
// pins where they were.
func (l *PageList) Update(id TrackedPinID, pin Pin) {
	if e, ok := l.tracked[id]; ok {
		e.pin = pin
		e.generation = pinGeneration(pin)
	}
}
