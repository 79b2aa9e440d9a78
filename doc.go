// Package vtcore is the in-memory data plane and protocol machinery for a
// terminal emulator: paged cell storage, a VT/ANSI stream parser, DCS/APC/OSC
// sub-protocol handlers, render-state diffing, and the auxiliary subsystems
// (search, selection, hyperlinks) layered on top.
//
// It does not open a PTY, draw pixels, or manage windows — those are external
// collaborators. vtcore exposes a byte-stream input (Stream.Feed), a
// cell-addressed read model (Screen, RenderState), and a set of
// notifications consumed by a renderer, a search worker, and other clients.
//
// # Quick start
//
//	term := vtcore.NewTerminal(vtcore.WithGeometry(24, 80))
//	stream := vtcore.NewStream(term)
//	term.Lock()
//	stream.Feed([]byte("\x1b[1mHello\x1b[0m, world!"))
//	rs := vtcore.Snapshot(term.Active(), nil)
//	term.Unlock()
//
// # Architecture
//
//   - [Page] / [PageList]: fixed-capacity arena-backed cell storage with
//     bounded scrollback.
//   - [Screen]: one logical surface (cursor, modes, scroll region) over a
//     PageList.
//   - [Terminal]: owns the primary, alternate, and scrollback-detached
//     Screens; a byte-level [Stream] bound to it mutates them.
//   - [RenderState]: a lock-cheap, dirty-tracked viewport snapshot.
//
// Sub-packages cover independently testable protocol machines: keyencode
// (key event -> wire bytes), paste (bracketed paste framing), search
// (sliding-window substring search), tmux (control-mode client), and layout
// (tmux layout grammar + checksum).
package vtcore
