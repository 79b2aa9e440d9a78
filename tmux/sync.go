package tmux

import (
	"strconv"
	"strings"

	"github.com/coreterm/vtcore"
	"github.com/coreterm/vtcore/layout"
)

// syncStep tags which phase of a pane's bootstrap a queued command serves.
// The four capture phases run in a fixed order per pane (primary history,
// primary visible, alternate history, alternate visible) so a pane's
// scrollback always lands before its visible rows, matching how Feed
// expects a page list to grow.
type syncStep int

const (
	syncCaptureHistory syncStep = iota
	syncCaptureVisible
	syncCaptureAlternateHistory
	syncCaptureAlternateVisible
	syncListPanes
)

// paneSyncDesc is the queuedCommand descriptor used for every command a
// paneSyncer issues; Viewer routes anything of this type to commandCompleted
// instead of handling it inline.
type paneSyncDesc struct {
	kind     syncStep
	windowID string
	paneID   string // map key, no leading '%'
}

// paneSyncer owns the pane-discovery and restoration sequence: diffing
// layout trees against live panes, queueing their capture-pane bootstrap,
// and applying list-panes state once capture completes.
type paneSyncer struct{}

func newPaneSyncer() *paneSyncer { return &paneSyncer{} }

// syncLayouts reconciles windowID's current pane set against node's leaves:
// new panes get a Terminal/Stream and a four-phase capture-pane bootstrap,
// vanished panes are dropped, and every live pane in the window gets its
// cursor/mode state refreshed via a trailing list-panes command.
func (v *Viewer) syncLayouts(windowID string, node *layout.Node) {
	leaves := make(map[string]*layout.Node)
	collectLeaves(node, leaves)

	for id, pane := range v.panes {
		if pane.WindowID != windowID {
			continue
		}
		if _, ok := leaves[id]; !ok {
			delete(v.panes, id)
		}
	}

	for id, leaf := range leaves {
		if _, ok := v.panes[id]; ok {
			continue
		}
		rows, cols := leaf.Height, leaf.Width
		if rows <= 0 {
			rows = 24
		}
		if cols <= 0 {
			cols = 80
		}
		term := vtcore.NewTerminal(vtcore.WithGeometry(rows, cols))
		pane := &Pane{
			ID:       id,
			WindowID: windowID,
			Term:     term,
			Stream:   vtcore.NewStream(term),
		}
		v.panes[id] = pane

		target := "%" + id
		v.enqueueDesc(capturePaneCommand(target, true, false),
			paneSyncDesc{kind: syncCaptureHistory, windowID: windowID, paneID: id})
		v.enqueueDesc(capturePaneCommand(target, false, false),
			paneSyncDesc{kind: syncCaptureVisible, windowID: windowID, paneID: id})
		v.enqueueDesc(capturePaneCommand(target, true, true),
			paneSyncDesc{kind: syncCaptureAlternateHistory, windowID: windowID, paneID: id})
		v.enqueueDesc(capturePaneCommand(target, false, true),
			paneSyncDesc{kind: syncCaptureAlternateVisible, windowID: windowID, paneID: id})
	}

	v.enqueueDesc(listPanesCommand(windowID),
		paneSyncDesc{kind: syncListPanes, windowID: windowID})
}

func collectLeaves(n *layout.Node, out map[string]*layout.Node) {
	if n == nil {
		return
	}
	if n.Kind == layout.Leaf {
		if n.PaneID >= 0 {
			out[strconv.Itoa(n.PaneID)] = n
		}
		return
	}
	for _, c := range n.Children {
		collectLeaves(c, out)
	}
}

// commandCompleted routes a %end/%error block back to the capture phase or
// list-panes refresh that requested it.
func (s *paneSyncer) commandCompleted(v *Viewer, desc any, kind blockKind, body []byte) {
	d, ok := desc.(paneSyncDesc)
	if !ok {
		return
	}
	pane, ok := v.panes[d.paneID]
	if !ok {
		return
	}
	if kind == blockError {
		return
	}

	switch d.kind {
	case syncCaptureHistory:
		feedCapture(pane, body)
		pane.capturedPrimaryHistory = true
	case syncCaptureVisible:
		feedCapture(pane, body)
		pane.capturedPrimaryVisible = true
	case syncCaptureAlternateHistory:
		feedAlternateCapture(pane, body)
		pane.capturedAlternateHistory = true
	case syncCaptureAlternateVisible:
		feedAlternateCapture(pane, body)
		pane.capturedAlternateVisible = true
	case syncListPanes:
		s.applyPaneStates(v, d.windowID, body)
	}
}

// feedCapture writes a capture-pane response into the primary screen, one
// tmux-reported line per terminal line, separated by CRLF so Stream's line
// feed and carriage-return handling runs exactly as it would on live input.
func feedCapture(pane *Pane, body []byte) {
	pane.Term.Lock()
	defer pane.Term.Unlock()
	writeCaptureLines(pane.Stream, body)
}

func feedAlternateCapture(pane *Pane, body []byte) {
	pane.Term.Lock()
	defer pane.Term.Unlock()
	wasAlternate := pane.Term.OnAlternate()
	if !wasAlternate {
		pane.Term.EnterAlternate(false)
	}
	writeCaptureLines(pane.Stream, body)
	if !wasAlternate {
		pane.Term.ExitAlternate()
	}
}

func writeCaptureLines(stream *vtcore.Stream, body []byte) {
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			stream.Feed([]byte("\r\n"))
		}
		stream.Feed([]byte(line))
	}
}

// applyPaneStates parses a list-panes response tagged with windowID,
// restores each reported pane's alternate-screen choice, cursor position and
// scroll region, and emits the window's refreshed pane list. The mode flags
// parsed from the response (insert, wrap, keypad, cursor keys, origin,
// mouse, focus events, bracketed paste) are not applied to the pane.
func (s *paneSyncer) applyPaneStates(v *Viewer, windowID string, body []byte) {
	var panes []PaneInfo
	for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
		if line == "" {
			continue
		}
		ps, ok := parsePaneState(line)
		if !ok {
			continue
		}
		id := strings.TrimPrefix(ps.PaneID, "%")
		pane, ok := v.panes[id]
		if !ok || pane.WindowID != windowID {
			continue
		}
		pane.Term.Lock()
		ps.apply(pane.Term)
		pane.Term.Unlock()
		pane.haveState = true
		panes = append(panes, PaneInfo{ID: ps.PaneID, Window: windowID})
	}
	v.emit(Action{Kind: ActionPanes, WindowID: windowID, Panes: panes})
}
