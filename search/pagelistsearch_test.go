package search

import (
	"testing"

	"github.com/coreterm/vtcore"
)

func TestPageListSearchFeedsAndFindsAcrossPages(t *testing.T) {
	term := vtcore.NewTerminal(vtcore.WithGeometry(2, 10), vtcore.WithScrollback(50))
	stream := vtcore.NewStream(term)
	stream.Feed([]byte("needle here\r\nand another needle\r\nlast line\r\n"))

	list := term.Active().PageList()
	var oldest *vtcore.Page
	list.Pages(func(p *vtcore.Page) bool {
		if oldest == nil {
			oldest = p
		}
		return true
	})

	s := NewPageListSearch("needle")
	s.Init(list, oldest)

	var found int
	for {
		if _, ok := s.Next(); ok {
			found++
			continue
		}
		if !s.Feed() {
			break
		}
	}
	if found == 0 {
		t.Error("expected at least one match across fed pages")
	}
}

func TestViewportSearchSkipsUnchangedFingerprint(t *testing.T) {
	term := vtcore.NewTerminal(vtcore.WithGeometry(3, 10))
	stream := vtcore.NewStream(term)
	stream.Feed([]byte("hello"))

	vs := NewViewportSearch("hello")
	if !vs.Update(term.Active()) {
		t.Fatal("first Update should report a change")
	}
	vtcore.ClearDirty(term.Active())
	if vs.Update(term.Active()) {
		t.Error("second Update with no change and a clean screen should be a no-op")
	}
}
