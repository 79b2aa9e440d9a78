package vtcore

import "testing"

func TestSnapshotNoChangeIsNotDirty(t *testing.T) {
	term := NewTerminal(WithGeometry(3, 10), WithScrollback(0))
	stream := NewStream(term)
	stream.Feed([]byte("hello"))

	rs := Snapshot(term.Active(), nil)
	ClearDirty(term.Active())

	rs2 := Snapshot(term.Active(), nil)
	if rs2.Verdict != DirtyNone {
		t.Errorf("second snapshot verdict = %v, want DirtyNone", rs2.Verdict)
	}
	if rs.String() != rs2.String() {
		t.Errorf("snapshot content changed with no writes: %q vs %q", rs.String(), rs2.String())
	}
}

func TestSnapshotSingleCellMutationIsPartial(t *testing.T) {
	term := NewTerminal(WithGeometry(3, 10), WithScrollback(0))
	stream := NewStream(term)
	stream.Feed([]byte("hello"))
	ClearDirty(term.Active())

	term.Active().Goto(0, 0)
	stream.Input('H')

	rs := Snapshot(term.Active(), nil)
	if rs.Verdict != DirtyPartial {
		t.Errorf("verdict after single-cell write = %v, want DirtyPartial", rs.Verdict)
	}
	dirtyRows := 0
	for _, l := range rs.Lines {
		if l.Dirty {
			dirtyRows++
		}
	}
	if dirtyRows != 1 {
		t.Errorf("dirty row count = %d, want 1", dirtyRows)
	}
}

func TestSnapshotStringTrimsTrailingBlanks(t *testing.T) {
	term := NewTerminal(WithGeometry(1, 10), WithScrollback(0))
	stream := NewStream(term)
	stream.Feed([]byte("hi"))

	rs := Snapshot(term.Active(), nil)
	if got := rs.String(); got != "hi" {
		t.Errorf("String() = %q, want %q", got, "hi")
	}
}
