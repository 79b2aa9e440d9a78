package vtcore

import "log/slog"

// logUnknownOSC/logUnknownDCS/logMalformed are the terminal's "log a line
// and keep going" points: malformed sub-protocol input must never abort the
// stream, it is reported and dropped (spec §7 error-handling policy).
func (t *Terminal) logUnknownOSC(code string, payload []byte) {
	t.logger().Debug("unrecognized OSC", "code", code, "len", len(payload))
}

func (t *Terminal) logUnknownDCS(final byte) {
	t.logger().Debug("unrecognized DCS", "final", string(final))
}

func (t *Terminal) logMalformed(what string, err error) {
	t.logger().Warn("malformed sequence", "what", what, "err", err)
}

func (t *Terminal) logger() *slog.Logger {
	if t.log != nil {
		return t.log
	}
	return slog.Default()
}
