package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/prefs"
	"github.com/interpretive-systems/rowdiff/internal/tui/components"
)

// Program is the bubbletea model of the viewer.
type Program struct {
	state      *State
	layout     *Layout
	keyHandler *KeyHandler
}

// New returns a viewer for opts. Its highlight worker is not started.
func New(opts Options) Program {
	return Program{
		state:      NewState(opts),
		layout:     NewLayout(opts.Pair != nil),
		keyHandler: NewKeyHandler(),
	}
}

// Run starts the highlight worker and runs the viewer until it quits.
func Run(opts Options) error {
	m := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.state.Worker.Run(ctx)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func (m Program) watching() bool { return m.state.Pair == nil }

func (m Program) Init() tea.Cmd {
	st := m.state
	if !m.watching() {
		return tea.Batch(waitHighlight(st.Worker), loadPair(*st.Pair, st.Context))
	}
	return tea.Batch(
		waitHighlight(st.Worker),
		loadPrefs(st.RepoRoot),
		loadFiles(st.RepoRoot, st.DiffSource),
		loadLastCommit(st.RepoRoot),
		loadCurrentBranch(st.RepoRoot),
		tickOnce(),
	)
}

func (m Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.state
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		st.Width, st.Height = msg.Width, msg.Height
		m.layout.SetSize(msg.Width, msg.Height)
		m.recalcViewport()
	case tickMsg:
		return m, tea.Batch(loadFiles(st.RepoRoot, st.DiffSource), tickOnce())
	case filesMsg:
		if msg.err != nil {
			st.StatusBar.SetMessage(fmt.Sprintf("status error: %v", msg.err))
			return m, nil
		}
		st.Files = msg.files
		st.FileList.SetFiles(msg.files)
		st.LastRefresh = time.Now()
		st.StatusBar.SetLastRefresh(st.LastRefresh)
		if st.FileList.SelectedFile() == nil {
			st.CurrentPath = ""
			st.DiffView.Reset()
			st.DiffView.SetMessage("No changes")
			m.recalcViewport()
			return m, nil
		}
		return m, m.loadSelected()
	case diffMsg:
		m.applyDiff(msg)
	case highlightMsg:
		ok, err := st.Session.ApplyHighlight(msg.resp)
		if err != nil {
			st.log.Warn("highlight dropped", "err", err)
			st.StatusBar.SetMessage(err.Error())
		}
		if ok {
			st.StatusBar.SetLanguage(msg.resp.Result.Language)
			m.refreshLines()
		}
		return m, waitHighlight(st.Worker)
	case prefsMsg:
		if msg.p.LeftSet {
			m.layout.SetLeftWidth(msg.p.LeftWidth)
		}
		if msg.p.WrapSet {
			st.DiffView.SetWrap(msg.p.Wrap)
		}
		if msg.p.ModeSet {
			m.setMode(msg.p.Mode)
		}
		m.recalcViewport()
	case lastCommitMsg:
		if msg.err == nil {
			st.LastCommit = msg.summary
			st.StatusBar.SetLastCommit(msg.summary)
		}
	case currentBranchMsg:
		if msg.err == nil {
			st.CurrentBranch = msg.name
		}
	case copiedMsg:
		if msg.err != nil {
			st.StatusBar.SetMessage("copy failed: " + msg.err.Error())
		} else {
			st.StatusBar.SetMessage(fmt.Sprintf("copied %d lines", msg.lines))
		}
	case statusMsg:
		st.StatusBar.SetMessage(string(msg))
	}
	return m, nil
}

// loadSelected loads the diff of the selected file.
func (m Program) loadSelected() tea.Cmd {
	st := m.state
	f := st.FileList.SelectedFile()
	if f == nil {
		return nil
	}
	if f.Path != st.CurrentPath {
		st.DiffView.Reset()
		m.recalcViewport()
	}
	return loadDiff(st.RepoRoot, *f, st.DiffSource, st.Context)
}

func (m Program) applyDiff(msg diffMsg) {
	st := m.state
	if m.watching() {
		if f := st.FileList.SelectedFile(); f == nil || f.Path != msg.path {
			return
		}
	}
	switch {
	case msg.err != nil:
		st.CurrentPath = msg.path
		st.DiffView.SetMessage(fmt.Sprintf("diff error: %v", msg.err))
	case msg.binary:
		st.CurrentPath = msg.path
		st.DiffView.SetMessage("(Binary file; no text diff)")
	case msg.path == st.CurrentPath && msg.state == st.Session.State() && st.Session.Rows() != nil:
		return
	default:
		req, err := st.Session.Update(msg.state)
		if err != nil {
			st.CurrentPath = msg.path
			st.DiffView.SetMessage(err.Error())
			break
		}
		if msg.path != st.CurrentPath {
			st.StatusBar.SetLanguage("")
			st.DiffView.Viewport().GotoTop()
		}
		st.CurrentPath = msg.path
		st.StatusBar.SetMode(st.Session.Mode().String())
		st.Worker.Submit(*req)
		m.refreshLines()
		return
	}
	m.recalcViewport()
}

// setMode switches the display mode of the session.
func (m Program) setMode(mode diffview.Mode) {
	st := m.state
	req, err := st.Session.SetMode(mode)
	if err != nil {
		st.StatusBar.SetMessage(err.Error())
		return
	}
	if req != nil {
		st.Worker.Submit(*req)
	}
	st.StatusBar.SetMode(st.Session.Mode().String())
	if st.Session.Rows() != nil {
		m.refreshLines()
	}
}

// refreshLines re-applies the search to freshly rendered session lines and
// hands them to the diff view.
func (m Program) refreshLines() {
	st := m.state
	if st.SearchEngine.Query() != "" {
		st.SearchEngine.Apply(st.Session)
	}
	st.DiffView.SetLines(st.Session.Lines(), st.Session.Mode())
	m.recalcViewport()
}

func (m Program) showCurrentMatch() {
	if cur, ok := m.state.SearchEngine.Current(); ok {
		m.state.DiffView.ShowRow(cur.Line)
	}
}

func (m Program) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.state
	if st.SearchEngine.IsActive() {
		changed, cmd := st.SearchEngine.HandleKey(msg, st.Session)
		if st.Session.Rows() != nil {
			st.DiffView.SetLines(st.Session.Lines(), st.Session.Mode())
		}
		m.recalcViewport()
		if changed {
			m.showCurrentMatch()
		}
		return m, cmd
	}
	if st.ShowHelp {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "h", "?", "esc":
			st.ShowHelp = false
			m.recalcViewport()
		}
		return m, nil
	}

	action, count := m.keyHandler.Handle(msg)
	st.StatusBar.SetKeyBuffer(m.keyHandler.KeyBuffer())
	if action != ActionNone {
		st.StatusBar.SetMessage("")
	}
	vp := st.DiffView.Viewport()

	switch action {
	case ActionQuit:
		return m, tea.Quit
	case ActionToggleHelp:
		st.ShowHelp = true
		m.recalcViewport()
	case ActionOpenSearch:
		st.SearchEngine.Activate()
		m.recalcViewport()
	case ActionClearSearch:
		if st.SearchEngine.Query() != "" {
			st.SearchEngine.Clear(st.Session)
			m.refreshLines()
		}
	case ActionRefresh:
		if !m.watching() {
			return m, loadPair(*st.Pair, st.Context)
		}
		return m, tea.Batch(loadFiles(st.RepoRoot, st.DiffSource), loadLastCommit(st.RepoRoot))
	case ActionToggleMode:
		next := diffview.ModeUnified
		if st.Session.RequestedMode() == diffview.ModeUnified {
			next = diffview.ModeSplit
		}
		m.setMode(next)
		if m.watching() {
			return m, savePref(func() error { return prefs.SaveMode(st.RepoRoot, next) })
		}
	case ActionToggleDiffSource:
		if !m.watching() {
			return m, nil
		}
		if st.DiffSource == SourceStaged {
			st.DiffSource = SourceHEAD
		} else {
			st.DiffSource = SourceStaged
		}
		st.CurrentPath = ""
		st.DiffView.Reset()
		m.recalcViewport()
		return m, loadFiles(st.RepoRoot, st.DiffSource)
	case ActionToggleWrap:
		wrap := !st.DiffView.Wrap()
		st.DiffView.SetWrap(wrap)
		m.recalcViewport()
		if m.watching() {
			return m, savePref(func() error { return prefs.SaveWrap(st.RepoRoot, wrap) })
		}
	case ActionMoveDown, ActionMoveUp:
		delta := count
		if action == ActionMoveUp {
			delta = -count
		}
		if !m.watching() {
			if delta > 0 {
				vp.LineDown(delta)
			} else {
				vp.LineUp(-delta)
			}
			return m, nil
		}
		if st.FileList.MoveSelection(delta) {
			return m, m.loadSelected()
		}
	case ActionGoToTop:
		if !m.watching() {
			vp.GotoTop()
		} else if st.FileList.GoToTop() {
			return m, m.loadSelected()
		}
	case ActionGoToBottom:
		if !m.watching() {
			vp.GotoBottom()
		} else if st.FileList.GoToBottom() {
			return m, m.loadSelected()
		}
	case ActionPageUpLeft:
		st.FileList.PageUp(m.contentHeight())
	case ActionPageDownLeft:
		st.FileList.PageDown(m.contentHeight())
	case ActionScrollLeft:
		st.DiffView.ScrollLeft(8 * count)
		m.recalcViewport()
	case ActionScrollRight:
		st.DiffView.ScrollRight(8 * count)
		m.recalcViewport()
	case ActionScrollHome:
		st.DiffView.ScrollHome()
		m.recalcViewport()
	case ActionPageDown:
		vp.PageDown()
	case ActionPageUp:
		vp.PageUp()
	case ActionHalfPageDown:
		vp.HalfPageDown()
	case ActionHalfPageUp:
		vp.HalfPageUp()
	case ActionLineDown:
		vp.LineDown(count)
	case ActionLineUp:
		vp.LineUp(count)
	case ActionAdjustLeftNarrower, ActionAdjustLeftWider:
		if !m.watching() {
			return m, nil
		}
		delta := 2 * count
		if action == ActionAdjustLeftNarrower {
			delta = -delta
		}
		m.layout.AdjustLeftWidth(delta)
		m.recalcViewport()
		w := m.layout.LeftWidth()
		return m, savePref(func() error { return prefs.SaveLeftWidth(st.RepoRoot, w) })
	case ActionSearchNext, ActionSearchPrevious:
		for range count {
			if action == ActionSearchNext {
				st.SearchEngine.Next(st.Session)
			} else {
				st.SearchEngine.Previous(st.Session)
			}
		}
		st.DiffView.SetLines(st.Session.Lines(), st.Session.Mode())
		m.recalcViewport()
		m.showCurrentMatch()
	case ActionNextChange, ActionPrevChange:
		dir := 1
		if action == ActionPrevChange {
			dir = -1
		}
		starts := st.Session.ChangeStarts()
		for range count {
			if !st.DiffView.JumpChange(starts, dir) {
				break
			}
		}
	case ActionYankRight, ActionYankLeft:
		side := diffview.SideRight
		if action == ActionYankLeft {
			side = diffview.SideLeft
		}
		from, to := st.DiffView.VisibleRows()
		text := st.Session.SelectionText(from, to, side)
		if text == "" {
			return m, nil
		}
		return m, copyText(st.Copy, text)
	}
	return m, nil
}

func (m Program) View() string {
	st := m.state
	if st.Width == 0 || st.Height == 0 {
		return "Loading..."
	}
	overlay := m.overlayLines()
	var left []string
	if m.watching() {
		left = st.FileList.Render(m.layout.ContentHeight(len(overlay)), st.Theme)
	}
	right := strings.Split(st.DiffView.View(), "\n")
	return m.layout.RenderFrame(m.topLeft(), m.topRight(), left, right, overlay, st.StatusBar.Render(st.Width), st.Theme)
}

func (m Program) topLeft() string {
	st := m.state
	if !m.watching() {
		return "Compare | " + st.Pair.Left + " → " + st.Pair.Right
	}
	title := "Changes"
	if st.DiffSource == SourceStaged {
		title = "Staged"
	}
	if f := st.FileList.SelectedFile(); f != nil {
		title += fmt.Sprintf(" | %s (%s)", f.Path, components.FileStatusLabel(*f))
	}
	return title
}

func (m Program) topRight() string {
	if m.state.CurrentBranch == "" {
		return ""
	}
	return m.state.Theme.MetaText(m.state.CurrentBranch)
}

func (m Program) contentHeight() int {
	return m.layout.ContentHeight(len(m.overlayLines()))
}

// recalcViewport resizes the diff view and re-renders its content.
func (m Program) recalcViewport() {
	st := m.state
	if st.Width == 0 || st.Height == 0 {
		return
	}
	w := m.layout.RightWidth()
	st.DiffView.SetSize(w, m.contentHeight())
	st.DiffView.Render(w)
}

var helpKeys = []string{
	"j/k or arrows   Move selection (scroll in compare view)",
	"J/K, PgDn/PgUp  Scroll diff",
	". / ,           Next / previous change",
	"/  n / N        Search, next / previous match (esc clears)",
	"y / Y           Copy visible new / old lines",
	"</> or H/L      Adjust left pane width",
	"s               Toggle split / unified",
	"t               Toggle working tree / staged",
	"w               Toggle wrap",
	"r               Refresh now",
	"g / G           Top / Bottom",
	"q               Quit",
}

func (m Program) overlayLines() []string {
	st := m.state
	var lines []string
	if st.ShowHelp {
		lines = append(lines,
			st.Theme.DividerText(strings.Repeat("─", st.Width)),
			lipgloss.NewStyle().Bold(true).Render("Help (h or esc to close)"))
		lines = append(lines, helpKeys...)
	}
	return append(lines, st.SearchEngine.RenderOverlay(st.Width, st.Theme.DividerColor)...)
}
