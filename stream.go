package vtcore

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// Stream wraps an ansicode.Decoder, feeding it raw PTY output and
// implementing ansicode.Handler by dispatching every action onto the
// Terminal's active Screen. It is the sole mutator thread: all of its
// methods assume the Terminal's lock is already held by Feed's caller.
type Stream struct {
	term    *Terminal
	decoder *ansicode.Decoder
	dcs     *dcsDemux
}

// NewStream creates a Stream bound to term. The caller retains ownership of
// term and must serialize calls to Feed (the VT writer thread is the only
// permitted mutator).
func NewStream(term *Terminal) *Stream {
	s := &Stream{term: term}
	s.decoder = ansicode.NewDecoder(s)
	s.dcs = newDCSDemux(term, s.decoder)
	return s
}

// Feed decodes bytes of terminal output, dispatching to the active screen.
// Callers must hold term.Lock() for the duration of the call (Terminal's
// single-mutex concurrency model: the VT writer thread is the exclusive
// mutator).
func (s *Stream) Feed(data []byte) {
	s.dcs.feed(data)
}

func (s *Stream) screen() *Screen { return s.term.Active() }

func (s *Stream) writeResponse(data []byte) {
	s.term.providers.respond(data)
}

func (s *Stream) writeResponseString(str string) {
	s.writeResponse([]byte(str))
}

// Input writes a printable rune at the cursor (ground-state print action).
func (s *Stream) Input(r rune) {
	scr := s.screen()
	if scr.ActiveCharset() == CharsetLineDrawing {
		r = translateLineDrawing(r)
	}
	scr.WriteRune(r)
}

func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

func (s *Stream) Backspace()      { s.screen().Backspace() }
func (s *Stream) Bell()           { s.term.providers.bell() }
func (s *Stream) CarriageReturn() { s.screen().CarriageReturn() }
func (s *Stream) LineFeed()       { s.screen().LineFeed() }
func (s *Stream) Substitute() {
	scr := s.screen()
	scr.WriteRune('?')
}

func (s *Stream) Tab(n int)             { s.screen().Tab(n) }
func (s *Stream) HorizontalTabSet()     { s.screen().SetTabStop() }
func (s *Stream) MoveForwardTabs(n int) { s.screen().Tab(n) }
func (s *Stream) MoveBackwardTabs(n int) {
	scr := s.screen()
	for i := 0; i < n; i++ {
		for x := scr.cursor.X - 1; x >= 0; x-- {
			if scr.tabStops[x] {
				scr.cursor.X = x
				break
			}
			if x == 0 {
				scr.cursor.X = 0
			}
		}
	}
}

func (s *Stream) ClearTabs(mode ansicode.TabulationClearMode) {
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		s.screen().ClearTabStop()
	case ansicode.TabulationClearModeAll:
		s.screen().ClearAllTabStops()
	}
}

func (s *Stream) Goto(row, col int)  { s.screen().Goto(row, col) }
func (s *Stream) GotoCol(col int)    { s.screen().cursor.X = clampInt(col, 0, s.screen().Cols()-1) }
func (s *Stream) GotoLine(row int)   { s.screen().Goto(row, s.screen().cursor.X) }
func (s *Stream) MoveForward(n int)  { s.screen().cursor.X = clampInt(s.screen().cursor.X+n, 0, s.screen().Cols()-1) }
func (s *Stream) MoveBackward(n int) { s.screen().cursor.X = clampInt(s.screen().cursor.X-n, 0, s.screen().Cols()-1) }
func (s *Stream) MoveUp(n int)       { s.screen().cursor.Y = clampInt(s.screen().cursor.Y-n, 0, s.screen().Rows()-1) }
func (s *Stream) MoveDown(n int)     { s.screen().cursor.Y = clampInt(s.screen().cursor.Y+n, 0, s.screen().Rows()-1) }
func (s *Stream) MoveUpCr(n int) {
	s.MoveUp(n)
	s.screen().cursor.X = 0
}
func (s *Stream) MoveDownCr(n int) {
	s.MoveDown(n)
	s.screen().cursor.X = 0
}

func (s *Stream) Index()        { s.screen().Index() }
func (s *Stream) ReverseIndex() { s.screen().ReverseIndex() }

func (s *Stream) ScrollUp(n int)   { s.screen().ScrollRegionUp(n) }
func (s *Stream) ScrollDown(n int) { s.screen().ScrollRegionDown(n) }

func (s *Stream) InsertBlank(n int)      { s.screen().InsertBlankChars(n) }
func (s *Stream) InsertBlankLines(n int) { s.screen().InsertLines(n) }
func (s *Stream) DeleteChars(n int)      { s.screen().DeleteChars(n) }
func (s *Stream) DeleteLines(n int)      { s.screen().DeleteLines(n) }
func (s *Stream) EraseChars(n int)       { s.screen().EraseChars(n) }

func (s *Stream) ClearLine(mode ansicode.LineClearMode) {
	scr := s.screen()
	protected := scr.cursor.Pen.Flags&StyleProtected != 0
	switch mode {
	case ansicode.LineClearModeRight:
		scr.EraseLine(EraseToEnd, protected)
	case ansicode.LineClearModeLeft:
		scr.EraseLine(EraseToStart, protected)
	case ansicode.LineClearModeAll:
		scr.EraseLine(EraseWholeLine, protected)
	}
}

func (s *Stream) ClearScreen(mode ansicode.ClearMode) {
	scr := s.screen()
	protected := scr.cursor.Pen.Flags&StyleProtected != 0
	switch mode {
	case ansicode.ClearModeBelow:
		scr.EraseDisplay(EraseDisplayToEnd, protected)
	case ansicode.ClearModeAbove:
		scr.EraseDisplay(EraseDisplayToStart, protected)
	case ansicode.ClearModeAll:
		scr.EraseDisplay(EraseDisplayWhole, protected)
	case ansicode.ClearModeSaved:
		scr.EraseDisplay(EraseDisplayWholeAndScrollback, protected)
		scr.list.PruneIfNeeded()
	}
}

func (s *Stream) Decaln() {
	scr := s.screen()
	for y := 0; y < scr.Rows(); y++ {
		for x := 0; x < scr.Cols(); x++ {
			scr.writeCellAt(y, x, Cell{Tag: ContentCodepoint, Codepoint: 'E', Wide: WideNarrow})
		}
	}
	scr.MarkDirty()
}

func (s *Stream) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	slot := CharsetSlot(index)
	cs := CharsetASCII
	if charset == ansicode.CharsetSpecial {
		cs = CharsetLineDrawing
	}
	s.screen().SetCharset(slot, cs)
}

func (s *Stream) SetActiveCharset(n int) { s.screen().InvokeCharset(CharsetSlot(n)) }

func (s *Stream) SaveCursorPosition()    { s.screen().SaveCursor() }
func (s *Stream) RestoreCursorPosition() { s.screen().RestoreCursor() }

func (s *Stream) SetScrollingRegion(top, bottom int) {
	s.screen().SetScrollRegion(top-1, bottom)
}

func (s *Stream) SetCursorStyle(style ansicode.CursorStyle) {
	s.screen().cursor.Shape = CursorShape(style)
}

func (s *Stream) SetTitle(title string) {
	s.term.currentTitle = title
	s.term.providers.title(title, false)
}

func (s *Stream) PushTitle() {
	s.term.PushTitle(s.term.currentTitle)
}

func (s *Stream) PopTitle() {
	if title, ok := s.term.PopTitle(); ok {
		s.term.currentTitle = title
		s.term.providers.title(title, false)
	}
}

func (s *Stream) SetMode(mode ansicode.TerminalMode)   { s.setMode(mode, true) }
func (s *Stream) UnsetMode(mode ansicode.TerminalMode) { s.setMode(mode, false) }

func (s *Stream) setMode(mode ansicode.TerminalMode, set bool) {
	scr := s.screen()
	var m ScreenModes
	switch mode {
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		if set {
			scr.cursor.Y, scr.cursor.X = scr.scrollTop, 0
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeAutowrap
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedMode
	case ansicode.TerminalModeShowCursor:
		scr.cursor.Visible = set
		return
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		if set {
			scr.SaveCursor()
			s.term.EnterAlternate(true)
		} else {
			s.term.ExitAlternate()
			s.screen().RestoreCursor()
		}
		return
	default:
		return // mouse/focus/bracketed-paste reporting modes are tracked by the host's input layer
	}
	if set {
		scr.modes |= m
	} else {
		scr.modes &^= m
	}
}

func (s *Stream) SetKeypadApplicationMode()   {}
func (s *Stream) UnsetKeypadApplicationMode() {}

func (s *Stream) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	// Forwarded to the key encoder (component E), which owns modify-other-keys
	// state; the core screen has no use for it.
}

func (s *Stream) ReportModifyOtherKeys() {
	s.writeResponseString(fmt.Sprintf("\x1b[>4;%dm", 0))
}

func (s *Stream) PushKeyboardMode(mode ansicode.KeyboardMode) {
	s.screen().PushKittyFlags(KittyFlags(mode))
}

func (s *Stream) PopKeyboardMode(n int) { s.screen().PopKittyFlags(n) }

func (s *Stream) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	scr := s.screen()
	current := scr.CurrentKittyFlags()
	var next KittyFlags
	switch behavior {
	case ansicode.KeyboardModeBehaviorUnion:
		next = current | KittyFlags(mode)
	case ansicode.KeyboardModeBehaviorDifference:
		next = current &^ KittyFlags(mode)
	default:
		next = KittyFlags(mode)
	}
	if len(scr.kittyStack) == 0 {
		scr.PushKittyFlags(next)
		return
	}
	scr.kittyStack[len(scr.kittyStack)-1] = next
}

func (s *Stream) ReportKeyboardMode() {
	s.writeResponseString(fmt.Sprintf("\x1b[?%du", s.screen().CurrentKittyFlags()))
}

func (s *Stream) DeviceStatus(n int) {
	scr := s.screen()
	switch n {
	case 5:
		s.writeResponseString("\x1b[0n")
	case 6:
		s.writeResponseString(fmt.Sprintf("\x1b[%d;%dR", scr.cursor.Y+1, scr.cursor.X+1))
	}
}

func (s *Stream) IdentifyTerminal(b byte) {
	s.writeResponseString("\x1b[?62;c")
}

func (s *Stream) TextAreaSizeChars() {
	scr := s.screen()
	s.writeResponseString(fmt.Sprintf("\x1b[8;%d;%dt", scr.Rows(), scr.Cols()))
}

func (s *Stream) TextAreaSizePixels() {
	scr := s.screen()
	s.writeResponseString(fmt.Sprintf("\x1b[4;%d;%dt", scr.Rows()*20, scr.Cols()*10))
}

func (s *Stream) CellSizePixels() {
	s.writeResponseString("\x1b[6;20;10t")
}

func (s *Stream) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	applySGR(&s.screen().cursor.Pen, attr)
}

func (s *Stream) SetColor(index int, c color.Color) {
	if s.term.providers.ColorSet == nil {
		return
	}
	r, g, b, _ := c.RGBA()
	s.term.providers.ColorSet(ColorQueryPalette, index, RGBColor(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

func (s *Stream) ResetColor(i int) {
	if s.term.providers.ColorSet != nil {
		s.term.providers.ColorSet(ColorQueryPalette, i, DefaultPalette[i&0xff])
	}
}

func (s *Stream) SetDynamicColor(prefix string, index int, terminator string) {
	if s.term.providers.ColorQuery == nil {
		return
	}
	c, ok := s.term.providers.ColorQuery(ColorQueryPalette, index)
	if !ok {
		return
	}
	rgb := c.Resolve(true)
	s.writeResponseString(fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgb.R, rgb.G, rgb.B, terminator))
}

func (s *Stream) SetHyperlink(h *ansicode.Hyperlink) {
	if h == nil {
		s.term.EndHyperlink()
		return
	}
	if err := s.term.BeginHyperlink(h.URI, nil); err != nil {
		s.term.logMalformed("hyperlink intern", err)
	}
}

func (s *Stream) SetWorkingDirectory(uri string) {
	if s.term.providers.WorkingDirectoryChanged != nil {
		s.term.providers.WorkingDirectoryChanged(uri)
	}
}

func (s *Stream) ResetState() {
	scr := s.screen()
	scr.EraseDisplay(EraseDisplayWhole, false)
	scr.cursor = Cursor{Visible: true}
	scr.saved = nil
	scr.charsets = [4]Charset{}
	scr.activeSlot = G0
	scr.scrollTop, scr.scrollBottom = 0, scr.Rows()
	scr.modes = ModeAutowrap
	scr.kittyStack = nil
}

// ApplicationCommandReceived dispatches an APC payload (component D).
func (s *Stream) ApplicationCommandReceived(data []byte) { s.handleAPC(data) }

// PrivacyMessageReceived and StartOfStringReceived are rare legacy
// sub-protocols with no assigned meaning in this terminal; logged and
// dropped (spec §7 error-handling policy).
func (s *Stream) PrivacyMessageReceived(data []byte)  { s.term.logUnknownDCS('^') }
func (s *Stream) StartOfStringReceived(data []byte)   { s.term.logUnknownDCS('X') }

// SixelReceived: pixel image decode/placement is explicitly out of scope;
// the bytes are acknowledged (so the decoder's state machine stays in
// sync) and discarded.
func (s *Stream) SixelReceived(params [][]uint16, data []byte) {}

// ClipboardLoad answers an OSC 52 read request.
func (s *Stream) ClipboardLoad(clipboard byte, terminator string) {
	if s.term.providers.ClipboardRead == nil {
		return
	}
	data, ok := s.term.providers.ClipboardRead(string(clipboard))
	if !ok {
		return
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	s.writeResponseString("\x1b]52;" + string(clipboard) + ";" + encoded + terminator)
}

// ClipboardStore handles an OSC 52 write request.
func (s *Stream) ClipboardStore(clipboard byte, data []byte) {
	if s.term.providers.ClipboardWrite != nil {
		s.term.providers.ClipboardWrite(string(clipboard), data)
	}
}

// DesktopNotification handles OSC 9 / OSC 777 / OSC 99 notification
// requests parsed by the decoder.
func (s *Stream) DesktopNotification(payload *ansicode.NotificationPayload) {
	if s.term.providers.Notify == nil || payload == nil {
		return
	}
	n := Notification{}
	switch payload.PayloadType {
	case "title":
		n.Title = string(payload.Data)
	case "body":
		n.Body = string(payload.Data)
	default:
		n.Body = string(payload.Data)
	}
	s.term.providers.Notify(n)
}

// SetUserVar handles an OSC 1337 SetUserVar request.
func (s *Stream) SetUserVar(name, value string) {
	if s.term.providers.UserVar != nil {
		s.term.providers.UserVar(name, []byte(value))
	}
}

// ShellIntegrationMark handles an OSC 133 shell-integration boundary.
func (s *Stream) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	if s.term.providers.ShellPrompt == nil {
		return
	}
	pm := PromptMark{}
	switch mark {
	case ansicode.ShellIntegrationMarkPromptStart:
		pm.Kind = PromptMarkPromptStart
	case ansicode.ShellIntegrationMarkCommandStart:
		pm.Kind = PromptMarkCommandStart
	case ansicode.ShellIntegrationMarkCommandExecuted:
		pm.Kind = PromptMarkCommandExecuted
	case ansicode.ShellIntegrationMarkCommandFinished:
		pm.Kind = PromptMarkCommandFinished
		pm.ExitCode = exitCode
		pm.HasExitCode = true
	default:
		return
	}
	s.term.providers.ShellPrompt(pm)
}
