package vtcore

// Providers bundles the host callbacks a Terminal invokes for effects that
// reach outside the cell grid itself: changing the window title, ringing
// the bell, answering device-status queries, and so on. Any field left nil
// is treated as a no-op, so embedders only need to implement what they care
// about.
type Providers struct {
	// Title is called on OSC 0/1/2 (icon name / window title / both).
	Title func(title string, icon bool)

	// Bell is called on BEL.
	Bell func()

	// Respond sends bytes back to the host's input stream — used for
	// DECRQSS, DA1/DA2/DA3, DSR, XTGETTCAP, and Kitty keyboard protocol
	// query responses.
	Respond func(data []byte)

	// ClipboardWrite handles OSC 52 writes; selection is "c", "p", etc.
	ClipboardWrite func(selection string, data []byte)

	// ClipboardRead handles OSC 52 queries ("?" payload); the returned
	// bytes are base64-encoded by the caller before being written back.
	ClipboardRead func(selection string) ([]byte, bool)

	// WorkingDirectoryChanged is called on OSC 7.
	WorkingDirectoryChanged func(uri string)

	// Notify is called on OSC 9 / OSC 777 / OSC 99 desktop notifications.
	Notify func(n Notification)

	// ColorQuery resolves OSC color "?" queries (report current color)
	// against the host's live palette. When it is nil, such queries get no
	// reply.
	ColorQuery func(kind ColorQueryKind, index int) (Color, bool)

	// ColorSet is called when OSC 4/10/11/12 assigns a new color.
	ColorSet func(kind ColorQueryKind, index int, c Color)

	// ShellPrompt is called on OSC 133 shell-integration marks.
	ShellPrompt func(mark PromptMark)

	// UserVar is called on OSC 1337 SetUserVar / iTerm2-style user vars.
	UserVar func(key string, value []byte)
}

// ColorQueryKind distinguishes which palette slot an OSC color query/set
// addresses.
type ColorQueryKind int

const (
	ColorQueryPalette ColorQueryKind = iota // OSC 4 / 104
	ColorQueryForeground
	ColorQueryBackground
	ColorQueryCursor
)

// Notification is a parsed desktop notification request (OSC 9, OSC 777
// notify, OSC 99).
type Notification struct {
	Title string
	Body  string
	Urgent bool
}

// PromptMark identifies a shell-integration boundary reported via OSC 133.
type PromptMark struct {
	Kind PromptMarkKind
	// ExitCode is valid only for PromptMarkCommandFinished.
	ExitCode int
	HasExitCode bool
}

// PromptMarkKind enumerates the OSC 133 sub-codes.
type PromptMarkKind int

const (
	PromptMarkPromptStart PromptMarkKind = iota // OSC 133;A
	PromptMarkCommandStart                      // OSC 133;B
	PromptMarkCommandExecuted                   // OSC 133;C
	PromptMarkCommandFinished                   // OSC 133;D[;exit]
)

func (p Providers) respond(data []byte) {
	if p.Respond != nil {
		p.Respond(data)
	}
}

func (p Providers) bell() {
	if p.Bell != nil {
		p.Bell()
	}
}

func (p Providers) title(title string, icon bool) {
	if p.Title != nil {
		p.Title(title, icon)
	}
}
