package vtcore

import "github.com/danielgatis/go-ansicode"

// applySGR mutates pen in place according to one decoded SGR attribute. The
// decoder emits one TerminalCharAttribute call per attribute in a sequence
// like "\x1b[1;4;38;5;208m", so this is called once per attribute, not once
// per escape sequence.
func applySGR(pen *Style, attr ansicode.TerminalCharAttribute) {
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*pen = Style{}

	case ansicode.CharAttributeBold:
		pen.Flags |= StyleBold
	case ansicode.CharAttributeDim:
		pen.Flags |= StyleFaint
	case ansicode.CharAttributeItalic:
		pen.Flags |= StyleItalic
	case ansicode.CharAttributeBlinkSlow, ansicode.CharAttributeBlinkFast:
		pen.Flags |= StyleBlink
	case ansicode.CharAttributeReverse:
		pen.Flags |= StyleInverse
	case ansicode.CharAttributeHidden:
		pen.Flags |= StyleInvisible
	case ansicode.CharAttributeStrike:
		pen.Flags |= StyleStrikethrough

	case ansicode.CharAttributeUnderline:
		setUnderlineVariant(pen, StyleUnderline)
	case ansicode.CharAttributeDoubleUnderline:
		setUnderlineVariant(pen, StyleUnderlineDouble)
	case ansicode.CharAttributeCurlyUnderline:
		setUnderlineVariant(pen, StyleUnderlineCurly)
	case ansicode.CharAttributeDottedUnderline:
		setUnderlineVariant(pen, StyleUnderlineDotted)
	case ansicode.CharAttributeDashedUnderline:
		setUnderlineVariant(pen, StyleUnderlineDashed)

	case ansicode.CharAttributeCancelBold:
		pen.Flags &^= StyleBold
	case ansicode.CharAttributeCancelBoldDim:
		pen.Flags &^= StyleBold | StyleFaint
	case ansicode.CharAttributeCancelItalic:
		pen.Flags &^= StyleItalic
	case ansicode.CharAttributeCancelUnderline:
		pen.Flags &^= StyleUnderline | StyleUnderlineDouble | StyleUnderlineCurly | StyleUnderlineDotted | StyleUnderlineDashed
	case ansicode.CharAttributeCancelBlink:
		pen.Flags &^= StyleBlink
	case ansicode.CharAttributeCancelReverse:
		pen.Flags &^= StyleInverse
	case ansicode.CharAttributeCancelHidden:
		pen.Flags &^= StyleInvisible
	case ansicode.CharAttributeCancelStrike:
		pen.Flags &^= StyleStrikethrough

	case ansicode.CharAttributeForeground:
		pen.Fg = sgrColor(attr, DefaultColor)
	case ansicode.CharAttributeBackground:
		pen.Bg = sgrColor(attr, DefaultColor)
	case ansicode.CharAttributeUnderlineColor:
		if attr.RGBColor == nil && attr.IndexedColor == nil && attr.NamedColor == nil {
			pen.Underline = DefaultColor
		} else {
			pen.Underline = sgrColor(attr, DefaultColor)
		}
	}
}

func setUnderlineVariant(pen *Style, variant StyleFlags) {
	pen.Flags &^= StyleUnderline | StyleUnderlineDouble | StyleUnderlineCurly | StyleUnderlineDotted | StyleUnderlineDashed
	pen.Flags |= variant
}

func sgrColor(attr ansicode.TerminalCharAttribute, fallback Color) Color {
	switch {
	case attr.RGBColor != nil:
		return RGBColor(attr.RGBColor.R, attr.RGBColor.G, attr.RGBColor.B)
	case attr.IndexedColor != nil:
		return PaletteColor(uint8(attr.IndexedColor.Index))
	case attr.NamedColor != nil:
		return PaletteColor(uint8(*attr.NamedColor))
	default:
		return fallback
	}
}
