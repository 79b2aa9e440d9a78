package search

import (
	"testing"

	"github.com/coreterm/vtcore"
)

func TestActiveSearchFindsRepeatedNeedle(t *testing.T) {
	term := vtcore.NewTerminal(vtcore.WithGeometry(3, 20), vtcore.WithScrollback(0))
	stream := vtcore.NewStream(term)
	stream.Feed([]byte("foo bar foo baz foo"))

	s := NewActiveSearch("foo")
	s.Update(term.Active().PageList())

	count := 0
	for {
		_, ok := s.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("got %d matches, want 3", count)
	}
}

func TestActiveSearchNoMatch(t *testing.T) {
	term := vtcore.NewTerminal(vtcore.WithGeometry(3, 20), vtcore.WithScrollback(0))
	stream := vtcore.NewStream(term)
	stream.Feed([]byte("hello world"))

	s := NewActiveSearch("xyz")
	s.Update(term.Active().PageList())
	if _, ok := s.Next(); ok {
		t.Error("expected no match")
	}
}

func TestSlidingWindowReverse(t *testing.T) {
	term := vtcore.NewTerminal(vtcore.WithGeometry(3, 20), vtcore.WithScrollback(0))
	stream := vtcore.NewStream(term)
	stream.Feed([]byte("aXbXc"))

	w := NewSlidingWindow(Reverse, "X")
	page := term.Active().PageList().ActivePage()
	w.Append(term.Active().PageList(), page)

	count := 0
	for {
		_, ok := w.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("got %d matches, want 2", count)
	}
}
