package tmux

import "fmt"

// fieldDelim separates #{var} fields in the format strings handed to
// list-windows/list-panes: a literal tab, chosen because it cannot appear
// inside any of the fields these templates request.
const fieldDelim = "\t"

func listWindowsCommand() string {
	return fmt.Sprintf(
		"list-windows -F '#{window_id}%s#{window_name}%s#{window_layout}'",
		fieldDelim, fieldDelim,
	)
}

func listPanesCommand(windowID string) string {
	return fmt.Sprintf(
		"list-panes -t %s -F '%s'",
		windowID, paneStateFormat(),
	)
}

func capturePaneCommand(paneID string, history bool, alternate bool) string {
	flags := "-p -e -q"
	if alternate {
		flags += " -a"
	}
	if history {
		flags += " -S - -E -1"
	}
	return fmt.Sprintf("capture-pane %s -t %s", flags, paneID)
}

func displayMessageCommand(format, target string) string {
	return fmt.Sprintf("display-message -p -t %s '%s'", target, format)
}

// versionQueryCommand asks the server for its version string, issued once
// right after the handshake block so the result arrives as the viewer's
// first real command response.
func versionQueryCommand() string {
	return "display-message -p '#{version}'"
}
