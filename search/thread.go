package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/coreterm/vtcore"
)

// refreshInterval is the background tick cadence (~40 Hz) used when no
// search is making progress and the thread falls back to periodic re-feed.
const refreshInterval = 24 * time.Millisecond

// NotificationKind tags which field of a tick's result changed. Emitted in
// a fixed order per tick: total matches, then viewport matches, then
// selected match, then complete, then quit — matching the ordering
// contract a renderer can rely on.
type NotificationKind int

const (
	NotifyTotalMatches NotificationKind = iota
	NotifyViewportMatches
	NotifySelectedMatch
	NotifyComplete
	NotifyQuit
)

// Notification is one coalesced update from the search thread. Only the
// field matching Kind is meaningful.
type Notification struct {
	Kind            NotificationKind
	TotalMatches    int
	ViewportMatches []vtcore.FlattenedHighlight
	SelectedMatch   int
	Complete        bool
}

// ScreenSearch combines a screen's scrollback search (PageListSearch) and
// active-area search (ActiveSearch) under one needle, matching §4.F's "a
// combined (history + active) ScreenSearch" per screen-set key.
type ScreenSearch struct {
	History *PageListSearch
	Active  *ActiveSearch
	matches []vtcore.UntrackedHighlight
	done    bool
}

// NewScreenSearch creates a combined history+active search for needle.
func NewScreenSearch(needle string) *ScreenSearch {
	return &ScreenSearch{
		History: NewPageListSearch(needle),
		Active:  NewActiveSearch(needle),
	}
}

// advance performs one unit of search work: drain whatever is already
// buffered, and if both sides are dry, feed one more page of history.
// Returns true if it made progress (callers use this to decide whether to
// keep working this tick or fall back to the refresh timer).
func (ss *ScreenSearch) advance(list *vtcore.PageList) bool {
	progressed := false
	for {
		hl, ok := ss.Active.Next()
		if !ok {
			break
		}
		ss.matches = append(ss.matches, hl)
		progressed = true
	}
	for {
		hl, ok := ss.History.Next()
		if !ok {
			break
		}
		ss.matches = append(ss.matches, hl)
		progressed = true
	}
	if progressed {
		return true
	}
	if ss.History.Done() {
		ss.done = true
		return false
	}
	return ss.History.Feed()
}

// Thread is the background search worker: owns one ViewportSearch plus a
// map from screen-set key to combined ScreenSearch, and emits coalesced
// Notifications as match state changes.
type Thread struct {
	term   *vtcore.Terminal
	needle string

	viewport *ViewportSearch
	screens  map[vtcore.ScreenSetKey]*ScreenSearch

	notify chan Notification
	wake   chan struct{}

	sf singleflight.Group

	lastTotal     int
	lastSelected  int
	lastComplete  bool
	lastViewport  []vtcore.FlattenedHighlight
}

// NewThread creates a search thread over term searching for needle. The
// caller drives it by calling Run inside an errgroup (or any goroutine
// lifecycle of its choosing) and reading Notifications().
func NewThread(term *vtcore.Terminal, needle string) *Thread {
	return &Thread{
		term:     term,
		needle:   needle,
		viewport: NewViewportSearch(needle),
		screens:  make(map[vtcore.ScreenSetKey]*ScreenSearch),
		notify:   make(chan Notification, 16),
		wake:     make(chan struct{}, 1),
	}
}

// Notifications returns the channel new coalesced notifications arrive on.
func (t *Thread) Notifications() <-chan Notification { return t.notify }

// WatchScreen registers key for scrollback+active search, initializing its
// PageListSearch at the oldest buffered page.
func (t *Thread) WatchScreen(key vtcore.ScreenSetKey) {
	scr := t.screenByKey(key)
	if scr == nil {
		return
	}
	ss := NewScreenSearch(t.needle)
	oldest := scr.PageList()
	var start *vtcore.Page
	oldest.Pages(func(p *vtcore.Page) bool {
		if start == nil {
			start = p
		}
		return true
	})
	ss.History.Init(scr.PageList(), start)
	ss.Active.Update(scr.PageList())
	t.screens[key] = ss
}

// Wake requests an out-of-band tick (e.g. the needle or viewport changed)
// instead of waiting for the next refresh interval.
func (t *Thread) Wake() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// SetSelectedMatch records which match index the host has navigated to and
// emits a notification if it changed.
func (t *Thread) SetSelectedMatch(index int) {
	if index == t.lastSelected {
		return
	}
	t.lastSelected = index
	t.emit(Notification{Kind: NotifySelectedMatch, SelectedMatch: index})
}

// SetNeedle resets all search state deterministically for a new needle:
// pending notifications for the old needle are flushed with zero totals
// and empty matches, per the cancellation contract.
func (t *Thread) SetNeedle(needle string) {
	t.needle = needle
	t.viewport = NewViewportSearch(needle)
	t.screens = make(map[vtcore.ScreenSetKey]*ScreenSearch)
	t.lastTotal, t.lastSelected, t.lastComplete, t.lastViewport = 0, 0, false, nil
	t.emit(Notification{Kind: NotifyTotalMatches, TotalMatches: 0})
	t.emit(Notification{Kind: NotifyViewportMatches})
	t.Wake()
}

// Run drives the thread until ctx is canceled, then emits a final quit
// notification, closes the notification channel, and returns. Intended to be launched
// via an errgroup.Group so its lifecycle composes with sibling goroutines.
func (t *Thread) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.emit(Notification{Kind: NotifyQuit})
				close(t.notify)
				return nil
			case <-t.wake:
				t.tick()
			case <-ticker.C:
				t.tick()
			}
		}
	})
	return g.Wait()
}

// tick advances every screen's search under the terminal lock, then
// recomputes the viewport search directly (not through the singleflight
// group that UpdateViewport uses), and emits whatever changed.
func (t *Thread) tick() {
	t.term.Lock()
	for key, ss := range t.screens {
		if ss.done {
			continue
		}
		scr := t.screenByKey(key)
		if scr == nil {
			continue
		}
		ss.advance(scr.PageList())
	}
	allDone := true
	for _, ss := range t.screens {
		if !ss.done {
			allDone = false
			break
		}
	}
	t.updateViewportLocked()
	total := 0
	for _, ss := range t.screens {
		total += len(ss.matches)
	}
	var vp []vtcore.FlattenedHighlight
	list := t.term.Active().PageList()
	for {
		hl, ok := t.viewport.Next()
		if !ok {
			break
		}
		vp = append(vp, hl.Flatten(list))
	}
	t.term.Unlock()

	if total != t.lastTotal {
		t.lastTotal = total
		t.emit(Notification{Kind: NotifyTotalMatches, TotalMatches: total})
	}
	if !flattenedEqual(vp, t.lastViewport) {
		t.lastViewport = vp
		t.emit(Notification{Kind: NotifyViewportMatches, ViewportMatches: vp})
	}
	if allDone != t.lastComplete {
		t.lastComplete = allDone
		t.emit(Notification{Kind: NotifyComplete, Complete: allDone})
	}
}

// UpdateViewport triggers (or joins an in-flight) viewport re-search for
// the active screen, usable directly from a renderer goroutine; concurrent
// calls collapse onto a single rebuild via singleflight.
func (t *Thread) UpdateViewport() {
	t.sf.Do("viewport", func() (any, error) {
		t.term.Lock()
		t.updateViewportLocked()
		t.term.Unlock()
		return nil, nil
	})
}

func (t *Thread) updateViewportLocked() {
	t.viewport.Update(t.term.Active())
}

func (t *Thread) screenByKey(key vtcore.ScreenSetKey) *vtcore.Screen {
	switch key {
	case vtcore.ScreenPrimary:
		return t.term.Primary()
	case vtcore.ScreenAlternate:
		return t.term.Alternate()
	default:
		return nil
	}
}

func (t *Thread) emit(n Notification) {
	select {
	case t.notify <- n:
	default:
		// Mailbox full: drop rather than block the search loop; the next
		// tick's coalesced value supersedes this one anyway.
	}
}

func flattenedEqual(a, b []vtcore.FlattenedHighlight) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
