package gitx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// FileChange represents a changed file in the repo.
type FileChange struct {
	Path      string
	Staged    bool
	Unstaged  bool
	Untracked bool
	Binary    bool
	Deleted   bool
}

// RepoRoot resolves the git repository root from a given path (or current dir).
func RepoRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	out, err := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("rev-parse: %w", err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", errors.New("empty git root")
	}
	return root, nil
}

// ChangedFiles lists files changed relative to HEAD, combining staged, unstaged, and untracked.
func ChangedFiles(repoRoot string) ([]FileChange, error) {
	unstaged, err := listNames(repoRoot, "diff", "--name-only", "--diff-filter=ACDMRTUXB")
	if err != nil {
		return nil, err
	}
	staged, err := listNames(repoRoot, "diff", "--name-only", "--cached", "--diff-filter=ACDMRTUXB")
	if err != nil {
		return nil, err
	}
	untracked, err := listNames(repoRoot, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	deletedUnstaged, _ := listNames(repoRoot, "ls-files", "-d")
	deletedStaged, _ := listNames(repoRoot, "diff", "--cached", "--name-only", "--diff-filter=D")

	m := map[string]*FileChange{}
	mark := func(paths []string, fn func(fc *FileChange)) {
		for _, p := range paths {
			fc := m[p]
			if fc == nil {
				fc = &FileChange{Path: p}
				m[p] = fc
			}
			fn(fc)
		}
	}
	mark(unstaged, func(fc *FileChange) { fc.Unstaged = true })
	mark(staged, func(fc *FileChange) { fc.Staged = true })
	mark(untracked, func(fc *FileChange) { fc.Untracked = true })
	mark(deletedUnstaged, func(fc *FileChange) { fc.Deleted = true; fc.Unstaged = true })
	mark(deletedStaged, func(fc *FileChange) { fc.Deleted = true; fc.Staged = true })

	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]FileChange, 0, len(paths))
	for _, p := range paths {
		fc := m[p]
		fc.Binary = isBinary(repoRoot, p)
		out = append(out, *fc)
	}
	return out, nil
}

func listNames(repoRoot string, args ...string) ([]string, error) {
	b, err := exec.Command("git", append([]string{"-C", repoRoot}, args...)...).Output()
	if err != nil {
		return nil, fmt.Errorf("git %v: %w", strings.Join(args, " "), err)
	}
	var out []string
	for _, l := range strings.Split(string(b), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

// DiffHEAD returns a unified diff between HEAD and the working tree for a single file.
// Untracked files are diffed against /dev/null. A negative context means three lines.
func DiffHEAD(repoRoot, path string, context int) (string, error) {
	if !isTracked(repoRoot, path) {
		return diffNoIndex(repoRoot, os.DevNull, path, context)
	}
	return diff(repoRoot, "diff", "--no-color", "--text", unified(context), "HEAD", "--", path)
}

// DiffStaged returns a unified diff between HEAD and the index for a single file.
func DiffStaged(repoRoot, path string, context int) (string, error) {
	return diff(repoRoot, "diff", "--no-color", "--text", unified(context), "--cached", "--", path)
}

// DiffFiles diffs two arbitrary files with git diff --no-index.
func DiffFiles(left, right string, context int) (string, error) {
	return diffNoIndex("", left, right, context)
}

func unified(context int) string {
	if context < 0 {
		return "--unified=3"
	}
	return fmt.Sprintf("--unified=%d", context)
}

func diffNoIndex(dir, left, right string, context int) (string, error) {
	args := []string{"diff", "--no-color", "--no-index", "--text", unified(context), "--", left, right}
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.Command("git", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	b, err := cmd.Output()
	// --no-index exits 1 both when the files differ and when one is unreadable.
	var exit *exec.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == 1 && len(b) > 0 {
		return string(b), nil
	}
	if err != nil {
		return "", fmt.Errorf("git diff --no-index: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(b), nil
}

func diff(repoRoot string, args ...string) (string, error) {
	b, err := exec.Command("git", append([]string{"-C", repoRoot}, args...)...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git diff: %w: %s", err, strings.TrimSpace(string(b)))
	}
	return string(b), nil
}

// ShowHEAD returns the contents of path at HEAD, or "" when HEAD does not have it.
func ShowHEAD(repoRoot, path string) (string, error) {
	return show(repoRoot, "HEAD:"+filepath.ToSlash(path))
}

// ShowIndex returns the staged contents of path, or "" when the index does not have it.
func ShowIndex(repoRoot, path string) (string, error) {
	return show(repoRoot, ":"+filepath.ToSlash(path))
}

func show(repoRoot, object string) (string, error) {
	if err := exec.Command("git", "-C", repoRoot, "cat-file", "-e", object).Run(); err != nil {
		return "", nil
	}
	b, err := exec.Command("git", "-C", repoRoot, "show", object).Output()
	if err != nil {
		return "", fmt.Errorf("git show %s: %w", object, err)
	}
	return string(b), nil
}

// WorkingText returns the working tree contents of path, or "" when it was deleted.
func WorkingText(repoRoot, path string) (string, error) {
	b, err := os.ReadFile(filepath.Join(repoRoot, path))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isBinary(repoRoot, path string) bool {
	var args []string
	if isTracked(repoRoot, path) {
		args = []string{"-C", repoRoot, "diff", "--numstat", "HEAD", "--", path}
	} else {
		args = []string{"-C", repoRoot, "diff", "--numstat", "--no-index", os.DevNull, path}
	}
	b, _ := exec.Command("git", args...).Output()
	// numstat reports "-\t-\tpath" for binary files
	parts := strings.Split(strings.TrimSpace(string(b)), "\t")
	return len(parts) >= 2 && (parts[0] == "-" || parts[1] == "-")
}

func isTracked(repoRoot, path string) bool {
	return exec.Command("git", "-C", repoRoot, "ls-files", "--error-unmatch", "--", path).Run() == nil
}

// LastCommitSummary returns short hash and subject of last commit.
func LastCommitSummary(repoRoot string) (string, error) {
	b, err := exec.Command("git", "-C", repoRoot, "log", "-1", "--pretty=format:%h %s").Output()
	if err != nil {
		return "", fmt.Errorf("git log: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// CurrentBranch returns the checked out branch name, or "HEAD" when detached.
func CurrentBranch(repoRoot string) (string, error) {
	b, err := exec.Command("git", "-C", repoRoot, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
