package components

import (
	"strings"

	"github.com/interpretive-systems/rowdiff/internal/gitx"
	"github.com/interpretive-systems/rowdiff/internal/theme"
)

// FileList manages the left pane file list.
type FileList struct {
	files    []gitx.FileChange
	selected int
	offset   int
}

// NewFileList creates a new file list.
func NewFileList() *FileList {
	return &FileList{}
}

// SetFiles replaces the list, keeping the selected path selected when it is
// still listed.
func (f *FileList) SetFiles(files []gitx.FileChange) {
	prev := ""
	if sel := f.SelectedFile(); sel != nil {
		prev = sel.Path
	}
	f.files = files
	f.selected = 0
	if prev != "" {
		f.SelectPath(prev)
	}
}

// Files returns the current file list.
func (f *FileList) Files() []gitx.FileChange {
	return f.files
}

// Selected returns the currently selected file index.
func (f *FileList) Selected() int {
	return f.selected
}

// SelectedFile returns the currently selected file, or nil for an empty list.
func (f *FileList) SelectedFile() *gitx.FileChange {
	if f.selected < 0 || f.selected >= len(f.files) {
		return nil
	}
	return &f.files[f.selected]
}

// SelectPath selects path and reports whether it is listed.
func (f *FileList) SelectPath(path string) bool {
	for i, fc := range f.files {
		if fc.Path == path {
			f.selected = i
			return true
		}
	}
	return false
}

// MoveSelection moves the selection by delta and reports whether it changed.
func (f *FileList) MoveSelection(delta int) bool {
	return f.selectIndex(f.selected + delta)
}

// GoToTop moves selection to the first file.
func (f *FileList) GoToTop() bool {
	return f.selectIndex(0)
}

// GoToBottom moves selection to the last file.
func (f *FileList) GoToBottom() bool {
	return f.selectIndex(len(f.files) - 1)
}

func (f *FileList) selectIndex(i int) bool {
	if len(f.files) == 0 {
		return false
	}
	i = clamp(i, 0, len(f.files)-1)
	changed := i != f.selected
	f.selected = i
	return changed
}

// PageUp scrolls the list up one page without moving the selection.
func (f *FileList) PageUp(visible int) {
	f.scroll(-pageStep(visible), visible)
}

// PageDown scrolls the list down one page without moving the selection.
func (f *FileList) PageDown(visible int) {
	f.scroll(pageStep(visible), visible)
}

func pageStep(visible int) int {
	if visible <= 0 {
		visible = 10
	}
	return max(visible-1, 1)
}

func (f *FileList) scroll(delta, visible int) {
	f.offset = clamp(f.offset+delta, 0, max(len(f.files)-visible, 0))
}

// EnsureVisible scrolls so the selected item is visible.
func (f *FileList) EnsureVisible(visible int) {
	if len(f.files) == 0 || visible <= 0 {
		return
	}
	if f.selected < f.offset {
		f.offset = f.selected
	} else if f.selected >= f.offset+visible {
		f.offset = f.selected - visible + 1
	}
	f.offset = clamp(f.offset, 0, max(len(f.files)-visible, 0))
}

// Render renders at most height lines of the list.
func (f *FileList) Render(height int, t theme.Theme) []string {
	if len(f.files) == 0 {
		return []string{"No changes detected"}
	}
	f.EnsureVisible(height)
	end := min(f.offset+height, len(f.files))
	lines := make([]string, 0, end-f.offset)
	for i := f.offset; i < end; i++ {
		file := f.files[i]
		marker := "  "
		if i == f.selected {
			marker = "> "
		}
		label := FileStatusLabel(file)
		switch {
		case file.Deleted:
			label = t.DelText(label)
		case file.Untracked:
			label = t.AddText(label)
		default:
			label = t.MetaText(label)
		}
		lines = append(lines, marker+label+" "+file.Path)
	}
	return lines
}

// FileStatusLabel returns a short status label for a file.
func FileStatusLabel(f gitx.FileChange) string {
	var b strings.Builder
	for _, tag := range []struct {
		on  bool
		tag string
	}{
		{f.Deleted, "D"},
		{f.Untracked, "U"},
		{f.Staged, "S"},
		{f.Unstaged, "M"},
		{f.Binary, "B"},
	} {
		if tag.on {
			b.WriteString(tag.tag)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
