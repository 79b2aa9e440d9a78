package vtcore

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"
)

// KittyGraphicsAction is the 'a=' key of a Kitty graphics APC command.
type KittyGraphicsAction byte

const (
	KittyActionTransmit        KittyGraphicsAction = 't'
	KittyActionTransmitDisplay KittyGraphicsAction = 'T'
	KittyActionDisplay         KittyGraphicsAction = 'p'
	KittyActionDelete          KittyGraphicsAction = 'd'
	KittyActionQuery           KittyGraphicsAction = 'q'
)

// KittyGraphicsFormat is the 'f=' key (pixel format of the transmitted
// payload). This package does not decode pixels, only the envelope.
type KittyGraphicsFormat int

const (
	KittyFormatRGBA32 KittyGraphicsFormat = 32
	KittyFormatRGB24  KittyGraphicsFormat = 24
	KittyFormatPNG    KittyGraphicsFormat = 100
)

// KittyGraphicsCommand is the parsed key=value control block of a Kitty
// graphics APC sequence (ESC _ G ... ESC \), with Payload holding the
// base64-decoded data section verbatim. Pixel decode is out of scope:
// callers that want to render graphics take over from here. Cols/Rows, when
// present, still drive a grid-occupancy fill via Screen.FillBackground so
// the cell data plane reflects which cells a placement covers.
type KittyGraphicsCommand struct {
	Action   KittyGraphicsAction
	Format   KittyGraphicsFormat
	ImageID  uint32
	Cols     uint32
	Rows     uint32
	More     bool
	Quiet    int
	Payload  []byte
}

// ParseKittyGraphics parses the control-block/payload pair of a Kitty
// graphics APC command (data has had the "\x1b_G" opener and "\x1b\\"
// terminator already stripped by the caller).
func ParseKittyGraphics(data []byte) (*KittyGraphicsCommand, error) {
	comma := bytes.IndexByte(data, ';')
	controlPart := data
	var payloadPart []byte
	if comma >= 0 {
		controlPart = data[:comma]
		payloadPart = data[comma+1:]
	}

	cmd := &KittyGraphicsCommand{Format: KittyFormatRGBA32}
	for _, kv := range strings.Split(string(controlPart), ",") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], parts[1]
		switch key {
		case "a":
			if len(val) > 0 {
				cmd.Action = KittyGraphicsAction(val[0])
			}
		case "f":
			if n, err := strconv.Atoi(val); err == nil {
				cmd.Format = KittyGraphicsFormat(n)
			}
		case "i":
			if n, err := strconv.ParseUint(val, 10, 32); err == nil {
				cmd.ImageID = uint32(n)
			}
		case "c":
			if n, err := strconv.ParseUint(val, 10, 32); err == nil {
				cmd.Cols = uint32(n)
			}
		case "r":
			if n, err := strconv.ParseUint(val, 10, 32); err == nil {
				cmd.Rows = uint32(n)
			}
		case "m":
			cmd.More = val == "1"
		case "q":
			if n, err := strconv.Atoi(val); err == nil {
				cmd.Quiet = n
			}
		}
	}

	if len(payloadPart) > 0 {
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(payloadPart)))
		n, err := base64.StdEncoding.Decode(decoded, payloadPart)
		if err != nil {
			return nil, ErrMalformedOSC
		}
		cmd.Payload = decoded[:n]
	}

	if cmd.Action == 0 {
		cmd.Action = KittyActionTransmitDisplay
	}
	return cmd, nil
}

// handleAPC dispatches an APC payload. A leading 'G' identifies Kitty
// graphics; anything else is logged and dropped (spec §7 error-handling
// policy — no recognized use for generic APC in this terminal).
func (s *Stream) handleAPC(data []byte) {
	if len(data) == 0 {
		return
	}
	if data[0] == 'G' {
		cmd, err := ParseKittyGraphics(data[1:])
		if err != nil {
			s.term.logMalformed("kitty graphics APC", err)
			return
		}
		s.dispatchKittyGraphics(cmd)
		return
	}
	s.term.logger().Debug("unrecognized APC", "leadByte", string(data[0]))
}

// kittyPlaceholderBackground fills the cells under a graphics placement
// before any pixel data is decoded (pixel decode itself stays out of
// scope). A neutral mid-gray distinguishes "image pending" cells from
// ordinary default-background text without requiring a style-table entry
// per covered cell.
var kittyPlaceholderBackground = RGBColor(128, 128, 128)

// dispatchKittyGraphics acknowledges a Kitty graphics command. Pixel decode
// stays out of scope, but a display action with explicit placement
// dimensions still marks the covered grid cells with a bg-only fill (spec
// §3 Cell content tag rgb-bg/palette-bg) so the data plane reflects that a
// placement occupies those cells, and well-behaved clients still expect a
// response so they don't stall waiting for one (quiet level 0 always
// responds, level 1 suppresses OK, level 2 suppresses everything).
func (s *Stream) dispatchKittyGraphics(cmd *KittyGraphicsCommand) {
	if (cmd.Action == KittyActionTransmitDisplay || cmd.Action == KittyActionDisplay) && cmd.Cols > 0 && cmd.Rows > 0 {
		scr := s.screen()
		cur := scr.Cursor()
		scr.FillBackground(cur.X, cur.Y, int(cmd.Cols), int(cmd.Rows), kittyPlaceholderBackground)
	}
	if cmd.Action == KittyActionQuery || cmd.Action == KittyActionTransmit || cmd.Action == KittyActionTransmitDisplay {
		if cmd.Quiet < 1 {
			s.writeResponseString(formatKittyResponse(cmd.ImageID, ""))
		}
		return
	}
	if cmd.Quiet < 1 {
		s.writeResponseString(formatKittyResponse(cmd.ImageID, ""))
	}
}

func formatKittyResponse(imageID uint32, errCode string) string {
	msg := "OK"
	if errCode != "" {
		msg = errCode
	}
	return "\x1b_Gi=" + strconv.FormatUint(uint64(imageID), 10) + ";" + msg + "\x1b\\"
}
