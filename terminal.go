package vtcore

import (
	"log/slog"
	"sync"
)

const (
	DefaultRows       = 24
	DefaultCols       = 80
	DefaultScrollback = 10000
)

// Terminal owns the primary screen, the alternate screen, and a detached
// scrollback-view screen, behind a single mutex. Exactly one mutator (the
// VT stream decoder) holds the lock for writes; the renderer and search
// threads take brief read-adjacent locks to snapshot state.
type Terminal struct {
	mu sync.Mutex

	rows, cols int
	scrollback int

	primary   *Screen
	alternate *Screen
	active    *Screen // points at primary or alternate

	scrollbackView *Screen // nil unless the user has scrolled into history

	providers Providers
	log       *slog.Logger

	titleStack   []string
	currentTitle string

	hyperlinkCursor HyperlinkID // set by OSC 8 start, cleared on end

	kittyUnicodePlaceholders bool

	tmuxMode TmuxControlMode
}

// TmuxControlMode is implemented by the tmux sub-package's Viewer. A
// Terminal holds one as an interface (rather than importing the tmux
// package directly) to keep the core free of the control-mode state
// machine when it isn't in use. Entered via DCS "1000p" (spec §12
// supplemented "tmux control mode entry"), it then receives every
// subsequent line verbatim until it reports itself inactive again (tmux
// control mode is exited with a literal "%exit" notification line, not a
// DCS terminator).
type TmuxControlMode interface {
	Enter()
	Active() bool
	FeedLine(line []byte)
}

// WithTmuxControlMode installs the tmux control-mode handler invoked when a
// DCS "1000p" sequence is seen.
func WithTmuxControlMode(m TmuxControlMode) Option {
	return func(t *Terminal) { t.tmuxMode = m }
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithGeometry sets the terminal dimensions. Values <= 0 fall back to
// DefaultRows/DefaultCols.
func WithGeometry(rows, cols int) Option {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	return func(t *Terminal) {
		t.rows = rows
		t.cols = cols
	}
}

// WithScrollback sets the maximum scrollback rows retained by the primary
// screen. 0 disables scrollback entirely.
func WithScrollback(rows int) Option {
	return func(t *Terminal) { t.scrollback = rows }
}

// WithProviders installs the host callback bundle. Unset fields remain
// no-ops (see Providers).
func WithProviders(p Providers) Option {
	return func(t *Terminal) { t.providers = p }
}

// WithLogger overrides the structured logger used for "log and continue"
// diagnostics (malformed sequences, unknown OSC/DCS). Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Terminal) { t.log = l }
}

// WithKittyUnicodePlaceholders enables interpreting the Kitty graphics
// unicode-placeholder virtual-placement convention when reading cells back
// out as text.
func WithKittyUnicodePlaceholders(enabled bool) Option {
	return func(t *Terminal) { t.kittyUnicodePlaceholders = enabled }
}

// NewTerminal creates a terminal with the given options, defaulting to
// 24x80 with a 10000-line scrollback on the primary screen. The alternate
// screen never keeps scrollback, matching real terminal emulators.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{
		rows:       DefaultRows,
		cols:       DefaultCols,
		scrollback: DefaultScrollback,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.primary = NewScreen(ScreenPrimary, t.rows, t.cols, t.scrollback)
	t.alternate = NewScreen(ScreenAlternate, t.rows, t.cols, 0)
	t.active = t.primary
	return t
}

// Lock/Unlock expose the terminal's mutex directly to callers (the stream
// decoder and the renderer) that need to hold it across several operations.
func (t *Terminal) Lock()   { t.mu.Lock() }
func (t *Terminal) Unlock() { t.mu.Unlock() }

// Active returns the currently displayed screen (primary or alternate).
func (t *Terminal) Active() *Screen { return t.active }

// Primary and Alternate return the two persistent screens directly,
// regardless of which is active.
func (t *Terminal) Primary() *Screen   { return t.primary }
func (t *Terminal) Alternate() *Screen { return t.alternate }

// EnterAlternate switches to the alternate screen buffer (DECSET 1049 and
// friends). clearOnEnter erases the alternate screen and resets its cursor
// before activating it, matching the common "save cursor, switch, clear"
// sequence.
func (t *Terminal) EnterAlternate(clearOnEnter bool) {
	if t.active == t.alternate {
		return
	}
	if clearOnEnter {
		t.alternate.EraseDisplay(EraseDisplayWhole, false)
		t.alternate.Goto(0, 0)
	}
	t.active = t.alternate
}

// ExitAlternate switches back to the primary screen.
func (t *Terminal) ExitAlternate() {
	t.active = t.primary
}

// OnAlternate reports whether the alternate screen is currently active.
func (t *Terminal) OnAlternate() bool { return t.active == t.alternate }

// Resize propagates a geometry change to both screens (both must track the
// same viewport size even while only one is active, so a mode-1049 restore
// lands on correctly sized content).
func (t *Terminal) Resize(rows, cols int) {
	t.rows, t.cols = rows, cols
	t.primary.Resize(rows, cols)
	t.alternate.Resize(rows, cols)
}

// PushTitle/PopTitle implement the XTWINOPS title stack. Stream calls them
// for the push-title and pop-title requests and reports a popped title
// through Providers.Title.
func (t *Terminal) PushTitle(title string) {
	t.titleStack = append(t.titleStack, title)
}

func (t *Terminal) PopTitle() (string, bool) {
	if len(t.titleStack) == 0 {
		return "", false
	}
	title := t.titleStack[len(t.titleStack)-1]
	t.titleStack = t.titleStack[:len(t.titleStack)-1]
	return title, true
}

// BeginHyperlink records the hyperlink that subsequent writes on the active
// screen should tag cells with (OSC 8 start); EndHyperlink clears it.
func (t *Terminal) BeginHyperlink(uri string, params map[string]string) error {
	page := t.active.PageList().ActivePage()
	id, err := page.InternHyperlink(Hyperlink{URI: uri})
	if err != nil {
		return err
	}
	t.hyperlinkCursor = id
	t.active.cursor.Hyperlink = id
	_ = params // id-correlation params belong to the tmux control-mode layer, not the cell
	return nil
}

func (t *Terminal) EndHyperlink() {
	t.hyperlinkCursor = 0
	t.active.cursor.Hyperlink = 0
}

// ScrollIntoHistory switches rendering to a detached view over the primary
// screen's scrollback; offset <= 0 returns to the live viewport.
func (t *Terminal) ScrollIntoHistory(offset int) {
	if offset <= 0 {
		t.scrollbackView = nil
		return
	}
	t.scrollbackView = t.primary
}

// ScrollToLive returns rendering to the live viewport.
func (t *Terminal) ScrollToLive() { t.scrollbackView = nil }

// ViewingHistory reports whether the terminal is currently detached into
// scrollback.
func (t *Terminal) ViewingHistory() bool { return t.scrollbackView != nil }
