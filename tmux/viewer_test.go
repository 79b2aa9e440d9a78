package tmux

import "testing"

func feedLines(v *Viewer, lines ...string) {
	for _, l := range lines {
		v.FeedLine([]byte(l))
	}
}

// TestViewerStartupHandshake drives the handshake block + version query and
// checks the state progression spec §4.H describes:
// startup_block -> startup_session -> command_queue.
func TestViewerStartupHandshake(t *testing.T) {
	v := NewViewer()
	v.Enter()
	if v.state != StateStartupBlock {
		t.Fatalf("state after Enter = %v, want StateStartupBlock", v.state)
	}

	feedLines(v, "%begin 1 1 1", "%end 1 1 1")
	if v.state != StateStartupSession {
		t.Fatalf("state after handshake block = %v, want StateStartupSession", v.state)
	}

	actions := v.Actions()
	if len(actions) != 1 || actions[0].Kind != ActionCommand {
		t.Fatalf("expected exactly one command action after handshake, got %+v", actions)
	}

	feedLines(v, "%begin 2 2 2", "3.5a", "%end 2 2 2")
	if v.state != StateCommandQueue {
		t.Fatalf("state after version block = %v, want StateCommandQueue", v.state)
	}
	if v.version != "3.5a" {
		t.Errorf("version = %q, want %q", v.version, "3.5a")
	}
}

// TestViewerExitNotification drives an %exit notification and checks the
// viewer transitions to defunct and reports itself inactive.
func TestViewerExitNotification(t *testing.T) {
	v := NewViewer()
	v.Enter()
	feedLines(v, "%begin 1 1 1", "%end 1 1 1")
	v.Actions()
	feedLines(v, "%begin 2 2 2", "3.5a", "%end 2 2 2")
	v.Actions()

	feedLines(v, "%exit")
	if v.Active() {
		t.Error("viewer should be inactive after %exit")
	}
	actions := v.Actions()
	found := false
	for _, a := range actions {
		if a.Kind == ActionExit {
			found = true
		}
	}
	if !found {
		t.Error("expected an ActionExit action")
	}
}

// TestViewerMaxBufferOverflow exercises the 1 MiB line cap: a single
// notification line over the cap breaks the viewer and emits exit.
func TestViewerMaxBufferOverflow(t *testing.T) {
	v := NewViewer()
	v.Enter()
	huge := make([]byte, maxBufferBytes+1)
	for i := range huge {
		huge[i] = 'a'
	}
	v.FeedLine(huge)
	if v.Active() {
		t.Error("viewer should be inactive (broken) after exceeding max buffer")
	}
}

func TestClientIDIsUnique(t *testing.T) {
	a, b := NewViewer(), NewViewer()
	if a.ClientID() == b.ClientID() {
		t.Error("expected distinct client ids across viewer instances")
	}
}
