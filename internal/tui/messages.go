package tui

import (
	"github.com/interpretive-systems/rowdiff/internal/gitx"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/prefs"
	"github.com/interpretive-systems/rowdiff/internal/session"
)

// tickMsg triggers periodic refresh.
type tickMsg struct{}

// filesMsg contains loaded file changes.
type filesMsg struct {
	files []gitx.FileChange
	err   error
}

// diffMsg contains the texts and diff of one file.
type diffMsg struct {
	path   string
	state  session.State
	binary bool
	err    error
}

// highlightMsg carries a worker response.
type highlightMsg struct {
	resp highlight.Response
}

// lastCommitMsg contains the last commit summary.
type lastCommitMsg struct {
	summary string
	err     error
}

// currentBranchMsg contains the current branch name.
type currentBranchMsg struct {
	name string
	err  error
}

// prefsMsg contains loaded preferences.
type prefsMsg struct {
	p prefs.Prefs
}

// copiedMsg reports a clipboard write.
type copiedMsg struct {
	lines int
	err   error
}

// statusMsg is shown in the status bar.
type statusMsg string
