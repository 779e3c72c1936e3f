package tui

import (
	"log/slog"
	"time"

	"github.com/atotto/clipboard"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
	"github.com/interpretive-systems/rowdiff/internal/gitx"
	"github.com/interpretive-systems/rowdiff/internal/highlight"
	"github.com/interpretive-systems/rowdiff/internal/logger"
	"github.com/interpretive-systems/rowdiff/internal/session"
	"github.com/interpretive-systems/rowdiff/internal/theme"
	"github.com/interpretive-systems/rowdiff/internal/tui/components"
	"github.com/interpretive-systems/rowdiff/internal/tui/search"
)

// Diff sources of the watch view.
const (
	SourceHEAD   = "head"
	SourceStaged = "staged"
)

// Pair names two files to compare. Diff optionally names a file holding
// their unified diff; without it the diff is computed.
type Pair struct {
	Left  string
	Right string
	Diff  string
}

// Options configure the viewer. With Pair set the viewer shows that pair,
// otherwise the changed files of the repository at RepoRoot.
type Options struct {
	RepoRoot string
	Pair     *Pair
	Mode     diffview.Mode
	Style    string
	Theme    string
	Context  int
}

// State holds all application state.
type State struct {
	// Repository
	RepoRoot      string
	Files         []gitx.FileChange
	CurrentBranch string
	DiffSource    string
	LastCommit    string
	Context       int
	Pair          *Pair

	// UI State
	Width       int
	Height      int
	ShowHelp    bool
	LastRefresh time.Time

	// The path whose diff the session holds.
	CurrentPath string
	Session     *session.Session
	Worker      *highlight.Worker

	// Components
	FileList     *components.FileList
	DiffView     *components.DiffView
	StatusBar    *components.StatusBar
	SearchEngine *search.Engine

	Theme   theme.Theme
	Palette *theme.Palette

	// Copy writes text to the system clipboard.
	Copy func(string) error

	log *slog.Logger
}

// NewState creates initial application state.
func NewState(opts Options) *State {
	curTheme := theme.Load(opts.RepoRoot, opts.Theme)
	palette := theme.NewPalette(curTheme, opts.Style)

	sb := components.NewStatusBar()
	sb.SetMode(opts.Mode.String())

	return &State{
		RepoRoot:     opts.RepoRoot,
		DiffSource:   SourceHEAD,
		Context:      opts.Context,
		Pair:         opts.Pair,
		Session:      session.New(opts.Mode),
		Worker:       highlight.NewWorker(),
		FileList:     components.NewFileList(),
		DiffView:     components.NewDiffView(palette),
		StatusBar:    sb,
		SearchEngine: search.New(),
		Theme:        curTheme,
		Palette:      palette,
		Copy:         clipboard.WriteAll,
		log:          logger.Component("tui"),
	}
}
