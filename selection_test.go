package vtcore

import "testing"

func TestSelectionNormalContainsMiddleRow(t *testing.T) {
	list := NewPageList(10, 5, 100)
	page := list.ActivePage()
	sel := &Selection{
		Anchor: Pin{Page: page, Row: 0, Col: 2},
		Head:   Pin{Page: page, Row: 2, Col: 5},
		Mode:   SelectionNormal,
	}
	if !sel.Contains(list, page, 1, 0) {
		t.Error("row strictly between anchor and head should be contained regardless of column")
	}
	if sel.Contains(list, page, 0, 0) {
		t.Error("column before anchor on the start row should not be contained")
	}
	if sel.Contains(list, page, 2, 9) {
		t.Error("column after head on the end row should not be contained")
	}
}

func TestSelectionBlockBoundsEachRowByColumn(t *testing.T) {
	list := NewPageList(10, 5, 100)
	page := list.ActivePage()
	sel := &Selection{
		Anchor: Pin{Page: page, Row: 0, Col: 5},
		Head:   Pin{Page: page, Row: 2, Col: 2},
		Mode:   SelectionBlock,
	}
	if !sel.Contains(list, page, 1, 3) {
		t.Error("column within [2,5] on a spanned row should be contained")
	}
	if sel.Contains(list, page, 1, 6) {
		t.Error("column outside [2,5] should not be contained even on a spanned row")
	}
}

func TestSelectionReversedAnchorHeadStillOrders(t *testing.T) {
	list := NewPageList(10, 5, 100)
	page := list.ActivePage()
	sel := &Selection{
		Anchor: Pin{Page: page, Row: 3, Col: 0},
		Head:   Pin{Page: page, Row: 1, Col: 0},
		Mode:   SelectionLine,
	}
	if !sel.Contains(list, page, 2, 0) {
		t.Error("row between head and anchor should be contained regardless of which was dragged first")
	}
}

func TestNilSelectionNeverContains(t *testing.T) {
	var sel *Selection
	list := NewPageList(10, 5, 100)
	if sel.Contains(list, list.ActivePage(), 0, 0) {
		t.Error("nil selection should never contain any cell")
	}
}
