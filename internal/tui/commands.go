package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/rowdiff/internal/gitx"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/prefs"
	"github.com/interpretive-systems/rowdiff/internal/session"
)

// loadFiles loads the files changed in source.
func loadFiles(repoRoot, source string) tea.Cmd {
	return func() tea.Msg {
		all, err := gitx.ChangedFiles(repoRoot)
		if err != nil {
			return filesMsg{err: err}
		}
		var files []gitx.FileChange
		for _, f := range all {
			if source == SourceStaged && f.Staged || source != SourceStaged && (f.Unstaged || f.Untracked) {
				files = append(files, f)
			}
		}
		return filesMsg{files: files}
	}
}

// loadDiff loads both texts and the diff of one changed file.
func loadDiff(repoRoot string, file gitx.FileChange, source string, context int) tea.Cmd {
	return func() tea.Msg {
		if file.Binary {
			return diffMsg{path: file.Path, binary: true}
		}
		st, err := fileState(repoRoot, file.Path, source, context)
		return diffMsg{path: file.Path, state: st, err: err}
	}
}

func fileState(repoRoot, path, source string, context int) (session.State, error) {
	st := session.State{Filename: filepath.Base(path), Path: path}
	var err error
	if st.LeftText, err = gitx.ShowHEAD(repoRoot, path); err != nil {
		return st, err
	}
	if source == SourceStaged {
		if st.RightText, err = gitx.ShowIndex(repoRoot, path); err != nil {
			return st, err
		}
		st.Diff, err = gitx.DiffStaged(repoRoot, path, context)
		return st, err
	}
	if st.RightText, err = gitx.WorkingText(repoRoot, path); err != nil {
		return st, err
	}
	st.Diff, err = gitx.DiffHEAD(repoRoot, path, context)
	return st, err
}

// loadPair loads a file pair and its diff.
func loadPair(p Pair, context int) tea.Cmd {
	return func() tea.Msg {
		st, err := PairState(p, context)
		return diffMsg{path: p.Right, state: st, err: err}
	}
}

// PairState reads a file pair into a session state. Without p.Diff the
// diff comes from git diff --no-index.
func PairState(p Pair, context int) (session.State, error) {
	st := session.State{Filename: filepath.Base(p.Right), Path: p.Right}
	left, err := os.ReadFile(p.Left)
	if err != nil {
		return st, fmt.Errorf("read left: %w", err)
	}
	right, err := os.ReadFile(p.Right)
	if err != nil {
		return st, fmt.Errorf("read right: %w", err)
	}
	st.LeftText, st.RightText = string(left), string(right)
	if p.Diff != "" {
		d, err := os.ReadFile(p.Diff)
		if err != nil {
			return st, fmt.Errorf("read diff: %w", err)
		}
		st.Diff = string(d)
		return st, nil
	}
	st.Diff, err = gitx.DiffFiles(p.Left, p.Right, context)
	return st, err
}

// waitHighlight delivers the next highlight response.
func waitHighlight(w *highlight.Worker) tea.Cmd {
	return func() tea.Msg {
		return highlightMsg{resp: <-w.Results()}
	}
}

// loadLastCommit loads the last commit summary.
func loadLastCommit(repoRoot string) tea.Cmd {
	return func() tea.Msg {
		s, err := gitx.LastCommitSummary(repoRoot)
		return lastCommitMsg{summary: s, err: err}
	}
}

// loadCurrentBranch loads the current branch name.
func loadCurrentBranch(repoRoot string) tea.Cmd {
	return func() tea.Msg {
		name, err := gitx.CurrentBranch(repoRoot)
		return currentBranchMsg{name: name, err: err}
	}
}

// loadPrefs loads user preferences.
func loadPrefs(repoRoot string) tea.Cmd {
	return func() tea.Msg {
		return prefsMsg{p: prefs.Load(repoRoot)}
	}
}

// savePref runs save and reports a failure in the status bar.
func savePref(save func() error) tea.Cmd {
	return func() tea.Msg {
		if err := save(); err != nil {
			return statusMsg("save prefs: " + err.Error())
		}
		return nil
	}
}

// copyText writes text to the clipboard.
func copyText(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{lines: strings.Count(text, "\n"), err: write(text)}
	}
}

// tickOnce schedules a single tick after 1 second.
func tickOnce() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
