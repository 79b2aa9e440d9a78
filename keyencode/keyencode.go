// Package keyencode turns logical key events into the wire bytes a VT
// stream expects, across the legacy, fixterms CSI u, and Kitty keyboard
// protocol encodings.
package keyencode

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Key identifies a logical key independent of layout or modifiers.
type Key int

const (
	KeyUnidentified Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyChar // a printable key; Codepoint/Unshifted carry the rune
)

// Action is the kind of key transition an event reports.
type Action int

const (
	ActionPress Action = iota
	ActionRepeat
	ActionRelease
)

// Mods is a bitmask of held modifiers. Side-specific bits exist for shift,
// ctrl, alt, and super because the Kitty protocol and associated-text rules
// distinguish them; callers that don't track sides can OR in the bare bit.
type Mods uint16

const (
	ModShift Mods = 1 << iota
	ModShiftLeft
	ModShiftRight
	ModCtrl
	ModCtrlLeft
	ModCtrlRight
	ModAlt
	ModAltLeft
	ModAltRight
	ModSuper
	ModSuperLeft
	ModSuperRight
	ModCapsLock
	ModNumLock
)

func (m Mods) has(bit Mods) bool { return m&bit != 0 }

// kittyCode is the 1-based modifier encoding CSI u / special-key sequences
// use: bit0 shift, bit1 alt, bit2 ctrl, bit3 super, bit4 hyper, bit5 meta,
// bit6 caps-lock, bit7 num-lock, plus one, zero meaning "no modifiers".
func (m Mods) kittyCode() int {
	code := 0
	if m.has(ModShift) || m.has(ModShiftLeft) || m.has(ModShiftRight) {
		code |= 1
	}
	if m.has(ModAlt) || m.has(ModAltLeft) || m.has(ModAltRight) {
		code |= 2
	}
	if m.has(ModCtrl) || m.has(ModCtrlLeft) || m.has(ModCtrlRight) {
		code |= 4
	}
	if m.has(ModSuper) || m.has(ModSuperLeft) || m.has(ModSuperRight) {
		code |= 8
	}
	if m.has(ModCapsLock) {
		code |= 64
	}
	if m.has(ModNumLock) {
		code |= 128
	}
	return code + 1
}

// KeyEvent is the logical input the encoder translates to wire bytes.
type KeyEvent struct {
	Key              Key
	Mods             Mods
	Action           Action
	UTF8             string // text produced by the IME/layout, if any
	Unshifted        rune   // base-layout codepoint ignoring shift
	ShiftedCodepoint rune   // codepoint with shift applied, if it differs
	ConsumedMods     Mods   // modifiers the layout already folded into UTF8
	Composing        bool
}

// OptionAsAltPolicy governs whether the macOS Option key is treated as Alt
// for the purpose of suppressing associated text.
type OptionAsAltPolicy int

const (
	OptionAsAltFalse OptionAsAltPolicy = iota
	OptionAsAltLeft
	OptionAsAltRight
	OptionAsAltTrue
)

// KittyFlags is the bitmask of enhancements a client has opted into via
// CSI > flags u / CSI = flags u.
type KittyFlags uint8

const (
	KittyDisambiguate KittyFlags = 1 << iota
	KittyReportEvents
	KittyReportAlternates
	KittyReportAll
	KittyReportAssociated
)

func (f KittyFlags) has(bit KittyFlags) bool { return f&bit != 0 }

// Encoder holds the negotiated state a terminal's key encoding depends on:
// which protocol is active, and the handful of legacy toggles that change
// how plain bytes are produced.
type Encoder struct {
	cursorKeysApplication   bool
	keypadKeysApplication   bool
	ignoreKeypadWithNumlock bool
	altAsEscPrefix          bool
	modifyOtherKeysState2   bool
	kitty                   KittyFlags
	kittyActive             bool
	optionAsAlt             OptionAsAltPolicy
}

// Option configures an Encoder at construction.
type Option func(*Encoder)

func WithCursorKeysApplication(v bool) Option { return func(e *Encoder) { e.cursorKeysApplication = v } }
func WithKeypadKeysApplication(v bool) Option { return func(e *Encoder) { e.keypadKeysApplication = v } }
func WithIgnoreKeypadWithNumlock(v bool) Option {
	return func(e *Encoder) { e.ignoreKeypadWithNumlock = v }
}
func WithAltAsEscPrefix(v bool) Option        { return func(e *Encoder) { e.altAsEscPrefix = v } }
func WithModifyOtherKeysState2(v bool) Option { return func(e *Encoder) { e.modifyOtherKeysState2 = v } }
func WithKittyFlags(f KittyFlags) Option {
	return func(e *Encoder) {
		e.kitty = f
		e.kittyActive = true
	}
}
func WithLegacyMode() Option { return func(e *Encoder) { e.kittyActive = false } }
func WithOptionAsAlt(p OptionAsAltPolicy) Option {
	return func(e *Encoder) { e.optionAsAlt = p }
}

// NewEncoder builds an Encoder in legacy mode with every option at its
// xterm-compatible default.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode translates ev into wire bytes, or nil if the event produces
// nothing (e.g. a suppressed release).
func (e *Encoder) Encode(ev KeyEvent) []byte {
	if e.kittyActive {
		return e.encodeKitty(ev)
	}
	return e.encodeLegacy(ev)
}

// --- Kitty keyboard protocol ---

func (e *Encoder) encodeKitty(ev KeyEvent) []byte {
	if ev.Action == ActionRelease && !e.kitty.has(KittyReportEvents) {
		return nil
	}
	plainSuppressedOnRelease := ev.Key == KeyEnter || ev.Key == KeyBackspace || ev.Key == KeyTab
	if ev.Action == ActionRelease && plainSuppressedOnRelease && !e.kitty.has(KittyReportAll) {
		return nil
	}

	if ev.Action == ActionPress && ev.Mods == 0 && !e.kitty.has(KittyReportAll) {
		switch ev.Key {
		case KeyEnter:
			return []byte("\r")
		case KeyTab:
			return []byte("\t")
		case KeyBackspace:
			return []byte("\x7f")
		}
	}

	code, isSpecial := kittyKeyCode(ev.Key)
	if code == 0 && ev.Key == KeyChar {
		code = int(ev.Unshifted)
	}
	if code == 0 {
		return nil
	}

	mods := ev.Mods.kittyCode()
	event := 0
	switch ev.Action {
	case ActionRepeat:
		event = 2
	case ActionRelease:
		event = 3
	}

	var alt1, alt2 string
	if e.kitty.has(KittyReportAlternates) {
		if ev.ShiftedCodepoint != 0 && ev.ShiftedCodepoint != ev.Unshifted && ev.Mods.has(ModShift) {
			alt1 = strconv.Itoa(int(ev.ShiftedCodepoint))
		}
		if ev.Unshifted != 0 && ev.Unshifted != rune(code) {
			if alt1 == "" {
				alt1 = strconv.Itoa(int(ev.Unshifted))
			} else {
				alt2 = strconv.Itoa(int(ev.Unshifted))
			}
		}
	}

	keyField := strconv.Itoa(code)
	if alt1 != "" {
		keyField += ":" + alt1
		if alt2 != "" {
			keyField += ":" + alt2
		}
	}

	modField := ""
	if mods != 1 || event != 0 {
		modField = strconv.Itoa(mods)
		if event != 0 {
			modField += ":" + strconv.Itoa(event)
		}
	}

	text := ""
	if e.kitty.has(KittyReportAssociated) && ev.Action == ActionPress && !e.textSuppressed(ev) {
		text = associatedText(ev.UTF8)
	}

	final := byte('u')
	if isSpecial {
		if sp := kittySpecialFinal(ev.Key); sp != 0 {
			final = sp
		}
	}

	var b strings.Builder
	b.WriteString(ansi.CSI)
	b.WriteString(keyField)
	if modField != "" || text != "" {
		b.WriteByte(';')
		b.WriteString(modField)
	}
	if text != "" {
		b.WriteByte(';')
		b.WriteString(text)
	}
	b.WriteByte(final)
	return []byte(b.String())
}

// textSuppressed reports whether a modifier present on ev should prevent
// associated text from being emitted. Alt only counts when the platform
// policy says Option-as-Alt is active.
func (e *Encoder) textSuppressed(ev KeyEvent) bool {
	if ev.Mods.has(ModCtrl) || ev.Mods.has(ModCtrlLeft) || ev.Mods.has(ModCtrlRight) {
		return true
	}
	if ev.Mods.has(ModSuper) {
		return true
	}
	altHeld := ev.Mods.has(ModAlt) || ev.Mods.has(ModAltLeft) || ev.Mods.has(ModAltRight)
	if !altHeld {
		return false
	}
	return e.optionAsAlt != OptionAsAltFalse
}

func associatedText(utf8 string) string {
	if utf8 == "" {
		return ""
	}
	parts := make([]string, 0, len(utf8))
	for _, r := range utf8 {
		parts = append(parts, strconv.Itoa(int(r)))
	}
	return strings.Join(parts, ":")
}

// kittyKeyCode maps a logical Key to the numeric code CSI u uses, and
// reports whether it belongs to the arrow/function "special-key" family
// (final byte other than 'u').
func kittyKeyCode(k Key) (code int, special bool) {
	switch k {
	case KeyEnter:
		return 13, false
	case KeyTab:
		return 9, false
	case KeyBackspace:
		return 127, false
	case KeyEscape:
		return 27, false
	case KeySpace:
		return 32, false
	case KeyUp, KeyDown, KeyRight, KeyLeft, KeyHome, KeyEnd, KeyPageUp, KeyPageDown, KeyInsert, KeyDelete:
		return 1, true
	case KeyF1, KeyF2, KeyF3, KeyF4:
		return 1, true
	case KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12:
		return 15, true
	}
	return 0, false
}

func kittySpecialFinal(k Key) byte {
	switch k {
	case KeyUp:
		return 'A'
	case KeyDown:
		return 'B'
	case KeyRight:
		return 'C'
	case KeyLeft:
		return 'D'
	case KeyHome:
		return 'H'
	case KeyEnd:
		return 'F'
	case KeyF1:
		return 'P'
	case KeyF2:
		return 'Q'
	case KeyF3:
		return 'R'
	case KeyF4:
		return 'S'
	}
	return 0
}

// --- Legacy / fixterms / modifyOtherKeys ---

func (e *Encoder) encodeLegacy(ev KeyEvent) []byte {
	if ev.Action == ActionRelease {
		return nil
	}

	if special := e.legacySpecial(ev); special != nil {
		return special
	}

	if ev.Key == KeyChar {
		if b := e.ctrlMapping(ev); b != nil {
			return e.applyAltPrefix(ev, b)
		}
		if ev.Mods != 0 && e.modifyOtherKeysState2 && legacyNeedsModifyOtherKeys(ev) {
			return []byte(ansi.CSI + "27;" + strconv.Itoa(ev.Mods.kittyCode()) + ";" + strconv.Itoa(int(ev.Unshifted)) + "~")
		}
		if ev.UTF8 != "" {
			return e.applyAltPrefix(ev, []byte(ev.UTF8))
		}
	}
	return nil
}

// legacySpecial handles arrows/function keys/navigation via the PC-style
// table, honoring cursor-keys/keypad application mode.
func (e *Encoder) legacySpecial(ev KeyEvent) []byte {
	mods := ev.Mods.kittyCode()
	csi := func(final byte) []byte {
		if mods == 1 {
			intro := ansi.CSI
			if e.cursorKeysApplication {
				intro = ansi.SS3
			}
			return []byte(intro + string(final))
		}
		return []byte(ansi.CSI + "1;" + strconv.Itoa(mods) + string(final))
	}
	switch ev.Key {
	case KeyUp:
		return csi('A')
	case KeyDown:
		return csi('B')
	case KeyRight:
		return csi('C')
	case KeyLeft:
		return csi('D')
	case KeyHome:
		return csi('H')
	case KeyEnd:
		return csi('F')
	case KeyF1:
		return csi('P')
	case KeyF2:
		return csi('Q')
	case KeyF3:
		return csi('R')
	case KeyF4:
		return csi('S')
	case KeyInsert:
		return legacyTilde(2, mods)
	case KeyDelete:
		return legacyTilde(3, mods)
	case KeyPageUp:
		return legacyTilde(5, mods)
	case KeyPageDown:
		return legacyTilde(6, mods)
	case KeyF5:
		return legacyTilde(15, mods)
	case KeyF6:
		return legacyTilde(17, mods)
	case KeyF7:
		return legacyTilde(18, mods)
	case KeyF8:
		return legacyTilde(19, mods)
	case KeyF9:
		return legacyTilde(20, mods)
	case KeyF10:
		return legacyTilde(21, mods)
	case KeyF11:
		return legacyTilde(23, mods)
	case KeyF12:
		return legacyTilde(24, mods)
	case KeyEnter:
		return e.applyAltPrefix(ev, []byte("\r"))
	case KeyTab:
		return e.applyAltPrefix(ev, []byte("\t"))
	case KeyBackspace:
		return e.applyAltPrefix(ev, []byte("\x7f"))
	case KeyEscape:
		return []byte(ansi.ESC)
	}
	return nil
}

func legacyTilde(code, mods int) []byte {
	if mods == 1 {
		return []byte(ansi.CSI + strconv.Itoa(code) + "~")
	}
	return []byte(ansi.CSI + strconv.Itoa(code) + ";" + strconv.Itoa(mods) + "~")
}

// ctrlMapping implements the C0 control mapping for ctrl+char: every letter
// and a few punctuation keys map to a bare control byte, and keys with no
// C0 form use the fixterms CSI u fallback.
func (e *Encoder) ctrlMapping(ev KeyEvent) []byte {
	ctrlHeld := ev.Mods.has(ModCtrl) || ev.Mods.has(ModCtrlLeft) || ev.Mods.has(ModCtrlRight)
	if !ctrlHeld {
		return nil
	}
	r := ev.Unshifted
	switch {
	case r >= 'a' && r <= 'z':
		return []byte{byte(r - 'a' + 1)}
	case r >= 'A' && r <= 'Z':
		return []byte{byte(r - 'A' + 1)}
	case r == ' ':
		return []byte{0x00}
	case r == '?':
		return []byte{0x7f}
	case r == '@':
		return []byte{0x00}
	case r == '[':
		return []byte{0x1b}
	case r == '\\':
		return []byte{0x1c}
	case r == ']':
		return []byte{0x1d}
	case r == '^', r == '~':
		return []byte{0x1e}
	case r == '_':
		return []byte{0x1f}
	}
	// No plain C0 byte exists for this combination (e.g. ctrl+digit): fall
	// back to fixterms CSI u so the application still learns what was
	// pressed.
	mods := ev.Mods.kittyCode()
	return []byte(ansi.CSI + strconv.Itoa(int(r)) + ";" + strconv.Itoa(mods) + "u")
}

func legacyNeedsModifyOtherKeys(ev KeyEvent) bool {
	ctrlHeld := ev.Mods.has(ModCtrl) || ev.Mods.has(ModCtrlLeft) || ev.Mods.has(ModCtrlRight)
	altHeld := ev.Mods.has(ModAlt) || ev.Mods.has(ModAltLeft) || ev.Mods.has(ModAltRight)
	return !ctrlHeld && altHeld
}

// applyAltPrefix prepends ESC to b when alt is held and alt-as-esc-prefix is
// enabled, matching legacy xterm "meta sends escape" behavior.
func (e *Encoder) applyAltPrefix(ev KeyEvent, b []byte) []byte {
	altHeld := ev.Mods.has(ModAlt) || ev.Mods.has(ModAltLeft) || ev.Mods.has(ModAltRight)
	if altHeld && e.altAsEscPrefix {
		out := make([]byte, 0, len(b)+1)
		out = append(out, 0x1b)
		out = append(out, b...)
		return out
	}
	return b
}
