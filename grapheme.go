package vtcore

import (
	"errors"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"golang.org/x/text/unicode/norm"
)

// ErrGraphemeTableFull mirrors the style/hyperlink capacity errors for the
// per-page grapheme intern table (spec §3 Cell, §9).
var ErrGraphemeTableFull = errors.New("vtcore: page grapheme table at capacity")

// GraphemeID references an extended grapheme cluster stored in a page-local
// table, for cells whose ContentTag is ContentGrapheme.
type GraphemeID uint32

// graphemeTable interns multi-codepoint grapheme clusters (UAX #29 extended
// grapheme clusters, e.g. ZWJ emoji sequences, combining accents) so a Cell
// stays a fixed-size record while still representing clusters that are more
// than one codepoint wide.
type graphemeTable struct {
	clusters []string
	capacity int
	used     int // running byte count, informational
}

func newGraphemeTable(capacity int) *graphemeTable {
	return &graphemeTable{
		clusters: make([]string, 0, 16),
		capacity: capacity,
	}
}

// intern stores runes as a single grapheme cluster and returns its id.
// Clusters are NFC-normalized before storage: West xterm-family emulators
// agree to canonicalize combining sequences before they round-trip through
// search/selection, and NFC is the conservative choice since it never
// changes cluster *boundaries*, only composes what UAX #29 already grouped.
func (t *graphemeTable) intern(runes []rune) (GraphemeID, error) {
	s := string(runes)
	if norm.NFC.IsNormalString(s) {
		// already normal
	} else {
		s = norm.NFC.String(s)
	}
	if t.used+len(s) > t.capacity {
		return 0, ErrGraphemeTableFull
	}
	id := GraphemeID(len(t.clusters))
	t.clusters = append(t.clusters, s)
	t.used += len(s)
	return id, nil
}

func (t *graphemeTable) get(id GraphemeID) string {
	if int(id) >= len(t.clusters) {
		return ""
	}
	return t.clusters[id]
}

// SegmentGraphemes splits s into extended grapheme clusters per UAX #29,
// used by Screen.WriteRune (through joinIntoPrevious) to decide whether consecutive runes belong to
// one Cell (base + combining marks, ZWJ sequences) or separate cells.
func SegmentGraphemes(s string) []string {
	var out []string
	segs := graphemes.FromString(s)
	for segs.Next() {
		out = append(out, segs.Value())
	}
	return out
}
