package tmux

import (
	"math"
	"strconv"
	"strings"

	"github.com/coreterm/vtcore"
)

// maxIntSentinel is the tmux "no saved cursor position" sentinel: a saved
// alternate-screen cursor coordinate pinned to the platform's maximum int
// value rather than left unset. Silently clamped to "no cursor set" here,
// matching the upstream behavior rather than surfacing it as an error.
const maxIntSentinel = math.MaxInt32

// paneState is the parsed result of one list-panes row, in the fixed field
// order paneStateFormat() requests.
type paneState struct {
	PaneID        string
	CursorX       int
	CursorY       int
	CursorFlag    bool
	AlternateOn   bool
	ScrollTop     int
	ScrollBottom  int
	InsertFlag    bool
	WrapFlag      bool
	KeypadFlag    bool
	CursorKeys    bool
	OriginFlag    bool
	MouseFlag     bool
	FocusEvents   bool
	BracketPaste  bool
	SavedAltCurX  int
	SavedAltCurY  int
}

// paneStateFormat returns the tab-delimited #{var} list list-panes is asked
// to emit, in the exact order parsePaneState expects.
func paneStateFormat() string {
	vars := []string{
		"pane_id",
		"cursor_x", "cursor_y", "cursor_flag",
		"alternate_on",
		"scroll_region_upper", "scroll_region_lower",
		"insert_flag", "wrap_flag", "keypad_flag", "cursor_keys_flag",
		"origin_flag", "mouse_all_flag", "focus_events_flag", "bracket_paste_flag",
		"saved_cursor_x", "saved_cursor_y",
	}
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = "#{" + v + "}"
	}
	return strings.Join(out, fieldDelim)
}

func parsePaneState(line string) (paneState, bool) {
	fields := strings.Split(line, fieldDelim)
	if len(fields) < 17 {
		return paneState{}, false
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n
	}
	flag := func(s string) bool { return strings.TrimSpace(s) == "1" }

	ps := paneState{
		PaneID:       fields[0],
		CursorX:      atoi(fields[1]),
		CursorY:      atoi(fields[2]),
		CursorFlag:   flag(fields[3]),
		AlternateOn:  flag(fields[4]),
		ScrollTop:    atoi(fields[5]),
		ScrollBottom: atoi(fields[6]),
		InsertFlag:   flag(fields[7]),
		WrapFlag:     flag(fields[8]),
		KeypadFlag:   flag(fields[9]),
		CursorKeys:   flag(fields[10]),
		OriginFlag:   flag(fields[11]),
		MouseFlag:    flag(fields[12]),
		FocusEvents:  flag(fields[13]),
		BracketPaste: flag(fields[14]),
		SavedAltCurX: clampSentinel(atoi(fields[15])),
		SavedAltCurY: clampSentinel(atoi(fields[16])),
	}
	return ps, true
}

// clampSentinel maps tmux's MAX_INT "no saved cursor" sentinel to -1 (no
// cursor set); any other value passes through unchanged.
func clampSentinel(v int) int {
	if v >= maxIntSentinel {
		return -1
	}
	return v
}

// apply restores ps onto term's active screen, used after capture-pane
// output has repopulated its content.
func (ps paneState) apply(term *vtcore.Terminal) {
	scr := term.Active()
	if ps.AlternateOn {
		term.EnterAlternate(false)
		scr = term.Active()
	} else {
		term.ExitAlternate()
		scr = term.Active()
	}
	scr.Goto(ps.CursorY, ps.CursorX)
	if ps.ScrollBottom > ps.ScrollTop {
		scr.SetScrollRegion(ps.ScrollTop, ps.ScrollBottom)
	}
}
