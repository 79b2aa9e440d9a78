package vtcore

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/danielgatis/go-ansicode"
)

// dcsDemux sits in front of ansicode.Decoder. The teacher's decoder parses
// DCS framing only for Sixel; DECRQSS, XTGETTCAP, and tmux control-mode
// entry are different DCS sub-protocols that need their own handling before
// the bytes would otherwise be silently dropped. dcsDemux recognizes those
// three forms, handles them directly, and forwards every other byte
// (including Sixel DCS sequences, which still need to reach the decoder)
// unmodified.
type dcsDemux struct {
	term    *Terminal
	decoder *ansicode.Decoder

	inDCS   bool
	payload []byte
	raw     []byte // the DCS framing bytes verbatim, for passthrough

	tmuxLineBuf []byte // partial line accumulated while tmux control mode is active
}

func newDCSDemux(term *Terminal, decoder *ansicode.Decoder) *dcsDemux {
	return &dcsDemux{term: term, decoder: decoder}
}

const (
	escByte = 0x1b
	belByte = 0x07
)

// feed scans data for DCS framing (ESC P ... ESC \ or ESC P ... BEL),
// intercepting the three recognized sub-protocols and forwarding
// everything else straight to the decoder.
func (d *dcsDemux) feed(data []byte) {
	i := 0
	for i < len(data) {
		if !d.inDCS {
			start := bytes.IndexByte(data[i:], escByte)
			if start < 0 {
				d.passthrough(data[i:])
				return
			}
			start += i
			if start+1 < len(data) && data[start+1] == 'P' {
				d.passthrough(data[i:start])
				d.inDCS = true
				d.raw = append(d.raw[:0], data[start:start+2]...)
				d.payload = d.payload[:0]
				i = start + 2
				continue
			}
			// Not a DCS opener; forward the ESC and keep scanning after it so
			// we don't re-match the same byte.
			d.passthrough(data[i : start+1])
			i = start + 1
			continue
		}

		// Inside a DCS: look for ST (ESC \) or BEL.
		rest := data[i:]
		if end := bytes.IndexByte(rest, belByte); end >= 0 {
			if st := bytes.Index(rest, []byte{escByte, '\\'}); st >= 0 && st < end {
				d.payload = append(d.payload, rest[:st]...)
				d.raw = append(d.raw, rest[:st+2]...)
				d.closeDCS()
				i += st + 2
				continue
			}
			d.payload = append(d.payload, rest[:end]...)
			d.raw = append(d.raw, rest[:end+1]...)
			d.closeDCS()
			i += end + 1
			continue
		}
		if st := bytes.Index(rest, []byte{escByte, '\\'}); st >= 0 {
			d.payload = append(d.payload, rest[:st]...)
			d.raw = append(d.raw, rest[:st+2]...)
			d.closeDCS()
			i += st + 2
			continue
		}
		// DCS not yet terminated within this call; buffer and wait for more.
		d.payload = append(d.payload, rest...)
		d.raw = append(d.raw, rest...)
		return
	}
}

func (d *dcsDemux) passthrough(b []byte) {
	if len(b) == 0 {
		return
	}
	if d.term.tmuxMode != nil && d.term.tmuxMode.Active() {
		d.feedTmuxLines(b)
		return
	}
	_, _ = d.decoder.Write(b)
}

// feedTmuxLines splits b on '\n' and delivers complete lines to the active
// tmux control-mode handler, buffering any trailing partial line.
func (d *dcsDemux) feedTmuxLines(b []byte) {
	d.tmuxLineBuf = append(d.tmuxLineBuf, b...)
	for {
		nl := bytes.IndexByte(d.tmuxLineBuf, '\n')
		if nl < 0 {
			break
		}
		line := d.tmuxLineBuf[:nl]
		line = bytes.TrimSuffix(line, []byte{'\r'})
		d.term.tmuxMode.FeedLine(line)
		d.tmuxLineBuf = d.tmuxLineBuf[nl+1:]
		if !d.term.tmuxMode.Active() {
			break
		}
	}
}

func (d *dcsDemux) closeDCS() {
	d.inDCS = false
	payload := d.payload
	switch {
	case bytes.HasPrefix(payload, []byte("$q")):
		d.handleDECRQSS(payload[2:])
	case bytes.HasPrefix(payload, []byte("+q")):
		d.handleXTGETTCAP(payload[2:])
	case bytes.HasPrefix(payload, []byte("1000p")):
		if d.term.tmuxMode != nil {
			d.term.tmuxMode.Enter()
		}
	default:
		// Not one of ours (most commonly a Sixel image, or an
		// unrecognized private DCS): forward verbatim so the decoder's own
		// Sixel handling still fires.
		_, _ = d.decoder.Write(d.raw)
		d.term.logUnknownDCS(lastByte(payload))
	}
}

func lastByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

// handleDECRQSS answers "Request Selection or Setting" (DECRQSS), enum-
// decoded per spec §4.D into the four settings a headless terminal can
// meaningfully report: SGR (cursor's current pen, "m"), the scroll region
// ("r", DECSTBM), the cursor style ("q", DECSCUSR), and the left/right
// margins ("s", DECSLRM — always the full column width since this screen
// tracks no independent left/right margin state).
func (d *dcsDemux) handleDECRQSS(request []byte) {
	scr := d.term.Active()
	var body string
	valid := true
	switch string(request) {
	case "m":
		body = sgrEncode(scr.cursor.Pen)
	case "r":
		body = strconv.Itoa(scr.scrollTop+1) + ";" + strconv.Itoa(scr.scrollBottom)
	case " q":
		body = strconv.Itoa(int(scr.cursor.Shape) + 1)
	case "s":
		body = "1;" + strconv.Itoa(scr.Cols())
	default:
		valid = false
	}
	if !valid {
		d.term.providers.respond([]byte("\x1bP0$r\x1b\\"))
		return
	}
	d.term.providers.respond([]byte("\x1bP1$r" + body + string(request) + "\x1b\\"))
}

// sgrEncode renders a Style back out as the SGR parameter string DECRQSS
// expects to echo (without the leading CSI or trailing 'm').
func sgrEncode(s Style) string {
	var parts []string
	if s.Flags&StyleBold != 0 {
		parts = append(parts, "1")
	}
	if s.Flags&StyleFaint != 0 {
		parts = append(parts, "2")
	}
	if s.Flags&StyleItalic != 0 {
		parts = append(parts, "3")
	}
	if s.Flags&StyleUnderline != 0 {
		parts = append(parts, "4")
	}
	if s.Flags&StyleBlink != 0 {
		parts = append(parts, "5")
	}
	if s.Flags&StyleInverse != 0 {
		parts = append(parts, "7")
	}
	if s.Flags&StyleInvisible != 0 {
		parts = append(parts, "8")
	}
	if s.Flags&StyleStrikethrough != 0 {
		parts = append(parts, "9")
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, ";")
}

// handleXTGETTCAP answers a terminfo capability query; cap is a ';'-
// separated list of hex-encoded capability names. Known names are answered;
// unknown or undecodable names are left out of the reply, and a bare
// failure response is sent only when none of the names is known.
//
// Quirk (documented, spec §9 "XTGETTCAP response capitalization"): the raw
// accumulated payload is uppercased in its entirety before being split and
// decoded, including any non-hex bytes that snuck in. Hex decoding ignores
// case, so this does not change which names are found; its visible effect
// is that names are echoed in uppercase hex (a query for "436f" is answered
// as "436F=..."). This is implemented literally rather than "fixed".
func (d *dcsDemux) handleXTGETTCAP(payload []byte) {
	payload = bytes.ToUpper(payload)
	names := strings.Split(string(payload), ";")
	var ok []string
	for _, hexName := range names {
		raw, err := decodeHex(hexName)
		if err != nil {
			continue
		}
		if val, found := terminfoCapabilities[string(raw)]; found {
			ok = append(ok, hexName+"="+encodeHex([]byte(val)))
		}
	}
	if len(ok) == 0 {
		d.term.providers.respond([]byte("\x1bP0+r\x1b\\"))
		return
	}
	d.term.providers.respond([]byte("\x1bP1+r" + strings.Join(ok, ";") + "\x1b\\"))
}

// terminfoCapabilities is the small set of capabilities a headless terminal
// can answer for without a full terminfo database.
var terminfoCapabilities = map[string]string{
	"TN":    "xterm-256color",
	"Co":    "256",
	"RGB":   "8",
	"colors": "256",
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, ErrMalformedOSC
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func encodeHex(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}
