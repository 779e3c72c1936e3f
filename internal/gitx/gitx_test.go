package gitx

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, "git", "-c", "init.defaultBranch=main", "init", "-q")
	mustRun(t, dir, "git", "config", "user.email", "test@example.com")
	mustRun(t, dir, "git", "config", "user.name", "Test User")
	return dir
}

func TestChangedFiles_AndDiffHEAD(t *testing.T) {
	dir := initRepo(t)

	// initial commit
	write(t, filepath.Join(dir, "f1.txt"), "one\nline\n")
	write(t, filepath.Join(dir, "del.txt"), "to delete\n")
	mustRun(t, dir, "git", "add", ".")
	mustRun(t, dir, "git", "commit", "-q", "-m", "init")

	// modify f1 (unstaged), create new (untracked), delete del.txt (unstaged)
	write(t, filepath.Join(dir, "f1.txt"), "one\nline changed\n")
	write(t, filepath.Join(dir, "new.txt"), "brand new\n")
	if err := os.Remove(filepath.Join(dir, "del.txt")); err != nil {
		t.Fatal(err)
	}

	files, err := ChangedFiles(dir)
	if err != nil {
		t.Fatalf("ChangedFiles error: %v", err)
	}
	m := map[string]FileChange{}
	for _, f := range files {
		m[f.Path] = f
	}
	if !m["f1.txt"].Unstaged {
		t.Fatalf("expected f1.txt to be unstaged modified, got %+v", m["f1.txt"])
	}
	if !m["new.txt"].Untracked {
		t.Fatalf("expected new.txt to be untracked, got %+v", m["new.txt"])
	}
	if !(m["del.txt"].Deleted && m["del.txt"].Unstaged) {
		t.Fatalf("expected del.txt to be deleted unstaged, got %+v", m["del.txt"])
	}

	d, err := DiffHEAD(dir, "f1.txt", 3)
	if err != nil {
		t.Fatalf("DiffHEAD error: %v", err)
	}
	if !strings.Contains(d, "-line") || !strings.Contains(d, "+line changed") {
		t.Fatalf("unexpected diff: %s", d)
	}

	d, err = DiffHEAD(dir, "new.txt", 3)
	if err != nil {
		t.Fatalf("DiffHEAD(untracked) error: %v", err)
	}
	if !strings.Contains(d, "+brand new") {
		t.Fatalf("unexpected untracked diff: %s", d)
	}

	mustRun(t, dir, "git", "add", "-A")
	mustRun(t, dir, "git", "commit", "-q", "-m", "second")
	files2, err := ChangedFiles(dir)
	if err != nil {
		t.Fatalf("ChangedFiles(2) error: %v", err)
	}
	if len(files2) != 0 {
		t.Fatalf("expected no changes after commit, got %v", files2)
	}
}

func TestShowAndWorkingText(t *testing.T) {
	dir := initRepo(t)
	write(t, filepath.Join(dir, "a.go"), "package a\n")
	mustRun(t, dir, "git", "add", ".")
	mustRun(t, dir, "git", "commit", "-q", "-m", "init")
	write(t, filepath.Join(dir, "a.go"), "package a\n\nvar x = 1\n")
	mustRun(t, dir, "git", "add", "a.go")
	write(t, filepath.Join(dir, "a.go"), "package b\n")

	head, err := ShowHEAD(dir, "a.go")
	if err != nil || head != "package a\n" {
		t.Fatalf("ShowHEAD = %q, %v", head, err)
	}
	idx, err := ShowIndex(dir, "a.go")
	if err != nil || idx != "package a\n\nvar x = 1\n" {
		t.Fatalf("ShowIndex = %q, %v", idx, err)
	}
	wt, err := WorkingText(dir, "a.go")
	if err != nil || wt != "package b\n" {
		t.Fatalf("WorkingText = %q, %v", wt, err)
	}

	missing, err := ShowHEAD(dir, "nope.go")
	if err != nil || missing != "" {
		t.Fatalf("ShowHEAD(missing) = %q, %v", missing, err)
	}
	gone, err := WorkingText(dir, "nope.go")
	if err != nil || gone != "" {
		t.Fatalf("WorkingText(missing) = %q, %v", gone, err)
	}

	staged, err := DiffStaged(dir, "a.go", 3)
	if err != nil || !strings.Contains(staged, "+var x = 1") {
		t.Fatalf("DiffStaged = %q, %v", staged, err)
	}

	branch, err := CurrentBranch(dir)
	if err != nil || branch != "main" {
		t.Fatalf("CurrentBranch = %q, %v", branch, err)
	}
	summary, err := LastCommitSummary(dir)
	if err != nil || !strings.HasSuffix(summary, " init") {
		t.Fatalf("LastCommitSummary = %q, %v", summary, err)
	}
}

func TestDiffFiles(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.txt")
	right := filepath.Join(dir, "right.txt")
	write(t, left, "a\nb\n")
	write(t, right, "a\nc\n")

	d, err := DiffFiles(left, right, 3)
	if err != nil {
		t.Fatalf("DiffFiles error: %v", err)
	}
	if !strings.Contains(d, "@@ -1,2 +1,2 @@") || !strings.Contains(d, "-b") || !strings.Contains(d, "+c") {
		t.Fatalf("unexpected diff: %s", d)
	}

	d, err = DiffFiles(left, right, 0)
	if err != nil || !strings.Contains(d, "@@ -2 +2 @@") {
		t.Fatalf("DiffFiles(context 0) = %q, %v", d, err)
	}

	same, err := DiffFiles(left, left, 3)
	if err != nil || same != "" {
		t.Fatalf("DiffFiles(same) = %q, %v", same, err)
	}

	if _, err := DiffFiles(left, filepath.Join(dir, "missing.txt"), 3); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func mustRun(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("command %s %v failed: %v\n%s", name, args, err, out)
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
