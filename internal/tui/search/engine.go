package search

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/rowdiff/internal/session"
)

// Engine manages search state and operations.
type Engine struct {
	query   string
	matches []session.Match
	index   int
	input   textinput.Model
	active  bool
}

// New creates a new search engine.
func New() *Engine {
	ti := textinput.New()
	ti.Placeholder = "Search diff"
	ti.Prompt = "/ "
	ti.CharLimit = 0
	return &Engine{input: ti}
}

// Activate opens the search input.
func (e *Engine) Activate() {
	e.active = true
	e.input.Focus()
}

// Deactivate closes the input. Matches stay marked.
func (e *Engine) Deactivate() {
	e.active = false
	e.input.Blur()
}

// IsActive returns whether the input is open.
func (e *Engine) IsActive() bool {
	return e.active
}

// HandleKey processes key input while the input is open. It reports whether
// the set of matches or the current match changed.
func (e *Engine) HandleKey(msg tea.KeyMsg, s *session.Session) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		e.Deactivate()
		return false, nil
	case "down", "ctrl+n":
		e.Next(s)
		return true, nil
	case "up", "ctrl+p":
		e.Previous(s)
		return true, nil
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	if v := e.input.Value(); v != e.query {
		e.query = v
		e.index = 0
		e.Apply(s)
		return true, cmd
	}
	return false, cmd
}

// Apply marks the matches of the current query in s. Call it again whenever
// the session re-renders its lines.
func (e *Engine) Apply(s *session.Session) {
	if e.query == "" {
		e.matches = nil
		e.index = 0
		s.ClearSearch()
		return
	}
	e.matches = s.Search(Compile(e.query), e.index)
	if e.index >= len(e.matches) && len(e.matches) > 0 {
		e.index = 0
		e.matches = s.Search(Compile(e.query), e.index)
	}
}

// Clear drops the query and its marks.
func (e *Engine) Clear(s *session.Session) {
	e.input.SetValue("")
	e.query = ""
	e.Apply(s)
}

// Query returns the current search query.
func (e *Engine) Query() string {
	return e.query
}

// Next advances to the next match.
func (e *Engine) Next(s *session.Session) {
	if len(e.matches) == 0 {
		return
	}
	e.index = (e.index + 1) % len(e.matches)
	e.Apply(s)
}

// Previous moves to the previous match.
func (e *Engine) Previous(s *session.Session) {
	if len(e.matches) == 0 {
		return
	}
	e.index = (e.index - 1 + len(e.matches)) % len(e.matches)
	e.Apply(s)
}

// Current returns the current match.
func (e *Engine) Current() (session.Match, bool) {
	if len(e.matches) == 0 {
		return session.Match{}, false
	}
	return e.matches[e.index], true
}

// MatchCount returns the number of matches.
func (e *Engine) MatchCount() int {
	return len(e.matches)
}

// CurrentMatchIndex returns the current match index (1-based).
func (e *Engine) CurrentMatchIndex() int {
	if len(e.matches) == 0 {
		return 0
	}
	return e.index + 1
}

// InputView returns the text input view.
func (e *Engine) InputView() string {
	return e.input.View()
}
