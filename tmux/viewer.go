// Package tmux implements a tmux control-mode client: it consumes
// notification lines delivered over a DCS "1000p" session (see vtcore's
// TmuxControlMode), issues tmux commands as opaque byte strings, and
// mirrors remote panes into local vtcore.Terminal instances.
package tmux

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/coreterm/vtcore"
	"github.com/coreterm/vtcore/layout"
)

// State is the viewer's top-level progression.
type State int

const (
	StateStartupBlock State = iota
	StateStartupSession
	StateCommandQueue
	StateDefunct
)

// ActionKind tags what the viewer wants its host to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionExit
	ActionCommand // Command holds the bytes to write to the control-mode stream
	ActionWindows // Windows holds the refreshed window list
	ActionPanes   // Panes holds a window's refreshed pane list
)

// Action is emitted from FeedLine as the viewer reacts to a notification.
// Actions accumulate in an internal list across FeedLine calls until
// Viewer.Actions() drains it; callers drain it after every FeedLine.
type Action struct {
	Kind     ActionKind
	Command  []byte
	Windows  []WindowInfo
	WindowID string
	Panes    []PaneInfo
}

// WindowInfo is one row of a parsed list-windows response.
type WindowInfo struct {
	ID   string
	Name string
}

// PaneInfo is one row of a parsed list-panes response (see panestate.go for
// the full restoration template).
type PaneInfo struct {
	ID     string
	Window string
}

const maxBufferBytes = 1 << 20 // 1 MiB per control-mode line; the DCS layer itself applies no byte cap

// blockKind distinguishes the three ways a command block can end.
type blockKind int

const (
	blockNone blockKind = iota
	blockEnd
	blockError
)

// Viewer is the tmux control-mode client state machine.
type Viewer struct {
	clientID string

	state   State
	broken  bool
	version string

	lineBuf []byte

	inBlock   bool
	blockBody []byte

	queue       []queuedCommand // FIFO of commands not yet issued
	inFlightDesc any            // descriptor for the command awaiting %end/%error
	inFlight     []byte         // the single command currently awaiting %end/%error

	sessionID string
	windows   map[string]WindowInfo
	panes     map[string]*Pane

	syncer *paneSyncer

	actions []Action
}

// Pane mirrors one remote tmux pane into a local Terminal.
type Pane struct {
	ID       string
	WindowID string
	Term     *vtcore.Terminal
	Stream   *vtcore.Stream

	capturedPrimaryHistory   bool
	capturedPrimaryVisible   bool
	capturedAlternateHistory bool
	capturedAlternateVisible bool
	haveState                bool
}

// NewViewer creates an idle viewer, not yet entered.
func NewViewer() *Viewer {
	return &Viewer{
		clientID: uuid.NewString(),
		windows:  make(map[string]WindowInfo),
		panes:    make(map[string]*Pane),
	}
}

// ClientID returns the correlation id generated for this viewer instance.
func (v *Viewer) ClientID() string { return v.clientID }

// Enter implements vtcore.TmuxControlMode: called when the DCS layer sees
// "1000p" and hands control to the tmux protocol.
func (v *Viewer) Enter() {
	v.state = StateStartupBlock
	v.broken = false
}

// Active implements vtcore.TmuxControlMode.
func (v *Viewer) Active() bool {
	return v.state != StateDefunct
}

// Actions drains and returns the actions accumulated since the last call.
func (v *Viewer) Actions() []Action {
	a := v.actions
	v.actions = nil
	return a
}

func (v *Viewer) emit(a Action) { v.actions = append(v.actions, a) }

// FeedLine implements vtcore.TmuxControlMode: consumes one line (without
// its trailing newline) of the tmux control protocol.
func (v *Viewer) FeedLine(line []byte) {
	if v.broken {
		return
	}
	if len(v.lineBuf)+len(line) > maxBufferBytes {
		v.broken = true
		v.state = StateDefunct
		v.emit(Action{Kind: ActionExit})
		return
	}

	if v.inBlock {
		v.feedBlockLine(line)
		return
	}

	if len(line) == 0 || line[0] != '%' {
		return
	}
	v.dispatchNotification(line)
}

// feedBlockLine accumulates body lines inside a %begin/%end or
// %begin/%error block, detecting the closing line.
func (v *Viewer) feedBlockLine(line []byte) {
	if bytes.HasPrefix(line, []byte("%end")) {
		v.closeBlock(blockEnd, line)
		return
	}
	if bytes.HasPrefix(line, []byte("%error")) {
		v.closeBlock(blockError, line)
		return
	}
	v.blockBody = append(v.blockBody, line...)
	v.blockBody = append(v.blockBody, '\n')
}

// descVersion and descListWindows tag the two bootstrap commands issued
// before any pane sync begins; every later queued command carries a
// syncer-defined descriptor instead (see sync.go).
type descKind int

const (
	descVersion descKind = iota
	descListWindows
)

func (v *Viewer) closeBlock(kind blockKind, line []byte) {
	v.inBlock = false
	body := v.blockBody
	v.blockBody = nil

	if v.state == StateStartupBlock {
		// The handshake block carries no useful body; its close just marks
		// readiness to issue the version query.
		v.state = StateStartupSession
		v.enqueueDesc(versionQueryCommand(), descVersion)
		return
	}

	desc := v.inFlightDesc
	v.inFlight, v.inFlightDesc = nil, nil
	v.handleCommandResult(desc, kind, body)
	if v.state == StateStartupSession && desc == descVersion {
		v.state = StateCommandQueue
	}
	v.issueNext()
}

// queuedCommand pairs a raw command with an opaque descriptor the syncer
// uses to route the eventual %end/%error result back to the right pane
// capture phase.
type queuedCommand struct {
	cmd  []byte
	desc any
}

// issueNext pops and issues the next queued command, if any and if none is
// currently in flight. Exactly one command is in flight at a time.
func (v *Viewer) issueNext() {
	if v.inFlight != nil || len(v.queue) == 0 {
		return
	}
	qc := v.queue[0]
	v.queue = v.queue[1:]
	v.inFlight = qc.cmd
	v.inFlightDesc = qc.desc
	v.emit(Action{Kind: ActionCommand, Command: append(qc.cmd, '\n')})
}

// enqueue appends a command to the FIFO and, if nothing is in flight,
// issues it immediately.
func (v *Viewer) enqueue(cmd string) {
	v.enqueueDesc(cmd, nil)
}

func (v *Viewer) enqueueDesc(cmd string, desc any) {
	v.queue = append(v.queue, queuedCommand{cmd: []byte(cmd), desc: desc})
	v.issueNext()
}

var outputRe = regexp.MustCompile(`^%output (%\S+) (.*)$`)

// dispatchNotification parses one %-prefixed notification line and reacts.
// %output parsing uses a regex per the upstream behavior this mirrors; this
// means extremely long single-line payloads interact with maxBufferBytes
// at the line level, not the aggregate session (documented caveat, not a
// bug this viewer tries to paper over).
func (v *Viewer) dispatchNotification(line []byte) {
	s := string(line)
	switch {
	case s == "%sessions-changed":
		return
	case strings.HasPrefix(s, "%begin"):
		v.inBlock = true
		v.blockBody = nil
	case strings.HasPrefix(s, "%session-changed"):
		v.handleSessionChanged(s)
	case strings.HasPrefix(s, "%window-add"):
		v.enqueueDesc(listWindowsCommand(), descListWindows)
	case strings.HasPrefix(s, "%window-renamed"):
		v.handleWindowRenamed(s)
	case strings.HasPrefix(s, "%window-pane-changed"):
		// mirrored state is keyed by pane id; nothing to restructure here.
	case strings.HasPrefix(s, "%layout-change"):
		v.handleLayoutChange(s)
	case outputRe.MatchString(s):
		v.handleOutput(s)
	case strings.HasPrefix(s, "%client-detached"):
	case strings.HasPrefix(s, "%client-session-changed"):
	case s == "%exit" || strings.HasPrefix(s, "%exit "):
		v.state = StateDefunct
		v.emit(Action{Kind: ActionExit})
	}
}

func (v *Viewer) handleOutput(s string) {
	m := outputRe.FindStringSubmatch(s)
	if m == nil {
		return
	}
	id := strings.TrimPrefix(m[1], "%")
	pane, ok := v.panes[id]
	if !ok {
		return
	}
	data := unescapeOctal(m[2])
	pane.Term.Lock()
	pane.Stream.Feed(data)
	pane.Term.Unlock()
}

// unescapeOctal decodes tmux's \NNN octal byte escapes used in %output
// payloads to smuggle arbitrary bytes through the line-oriented protocol.
func unescapeOctal(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				out = append(out, byte(n))
				i += 3
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

func (v *Viewer) handleSessionChanged(s string) {
	fields := strings.Fields(s)
	if len(fields) >= 2 {
		v.sessionID = fields[1]
	}
	v.windows = make(map[string]WindowInfo)
	v.panes = make(map[string]*Pane)
	v.emit(Action{Kind: ActionWindows, Windows: nil})
	v.enqueueDesc(listWindowsCommand(), descListWindows)
}

func (v *Viewer) handleWindowRenamed(s string) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return
	}
	id := fields[1]
	w := v.windows[id]
	w.ID = id
	w.Name = strings.Join(fields[2:], " ")
	v.windows[id] = w
}

func (v *Viewer) handleLayoutChange(s string) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return
	}
	windowID := fields[1]
	layoutStr := fields[2]
	node, err := layout.ParseWithChecksum(layoutStr)
	if err != nil {
		node, err = layout.Parse(layoutStr)
		if err != nil {
			return
		}
	}
	v.syncLayouts(windowID, node)
}

func (v *Viewer) handleCommandResult(desc any, kind blockKind, body []byte) {
	switch desc {
	case descVersion:
		v.version = strings.TrimSpace(string(body))
		return
	case descListWindows:
		v.handleListWindows(kind, body)
		return
	}
	if v.syncer != nil {
		v.syncer.commandCompleted(v, desc, kind, body)
	}
}

// handleListWindows parses a "list-windows -F
// '#{window_id}\t#{window_name}\t#{window_layout}'" response, one line per
// window, records the window list, and asks the syncer to bootstrap each
// window's panes from its layout string.
func (v *Viewer) handleListWindows(kind blockKind, body []byte) {
	if kind == blockError {
		return
	}
	if v.syncer == nil {
		v.syncer = newPaneSyncer()
	}
	for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldDelim)
		if len(fields) != 3 {
			continue
		}
		id, name, layoutStr := fields[0], fields[1], fields[2]
		v.windows[id] = WindowInfo{ID: id, Name: name}
		node, err := layout.ParseWithChecksum(layoutStr)
		if err != nil {
			node, err = layout.Parse(layoutStr)
		}
		if err == nil {
			v.syncLayouts(id, node)
		}
	}
	var wins []WindowInfo
	for _, w := range v.windows {
		wins = append(wins, w)
	}
	v.emit(Action{Kind: ActionWindows, Windows: wins})
}
