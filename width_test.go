package vtcore

import "testing"

func TestRuneWidthASCII(t *testing.T) {
	if w := runeWidth('A'); w != 1 {
		t.Errorf("runeWidth('A') = %d, want 1", w)
	}
}

func TestRuneWidthWideCJK(t *testing.T) {
	if w := runeWidth('中'); w != 2 {
		t.Errorf("runeWidth('中') = %d, want 2", w)
	}
	if !isWideRune('中') {
		t.Error("isWideRune('中') should be true")
	}
}

func TestRuneWidthCombiningMark(t *testing.T) {
	if w := runeWidth('́'); w != 0 {
		t.Errorf("runeWidth(combining acute) = %d, want 0", w)
	}
}

func TestStringWidthSumsRunes(t *testing.T) {
	if w := StringWidth("A中"); w != 3 {
		t.Errorf("StringWidth(\"A中\") = %d, want 3", w)
	}
}
