package prefs

import (
	"os/exec"
	"testing"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if out, err := exec.Command("git", "-C", dir, "init", "-q").CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, out)
	}
	return dir
}

func TestLoadSave(t *testing.T) {
	dir := initRepo(t)

	p := Load(dir)
	if p.ModeSet || p.WrapSet || p.LeftSet {
		t.Fatalf("expected no prefs in a fresh repo, got %+v", p)
	}

	if err := SaveMode(dir, diffview.ModeUnified); err != nil {
		t.Fatal(err)
	}
	if err := SaveWrap(dir, true); err != nil {
		t.Fatal(err)
	}
	if err := SaveLeftWidth(dir, 32); err != nil {
		t.Fatal(err)
	}

	p = Load(dir)
	if !p.ModeSet || p.Mode != diffview.ModeUnified {
		t.Fatalf("expected unified mode, got %+v", p)
	}
	if !p.WrapSet || !p.Wrap {
		t.Fatalf("expected wrap saved as true, got %+v", p)
	}
	if !p.LeftSet || p.LeftWidth != 32 {
		t.Fatalf("expected left width 32, got %+v", p)
	}
}

func TestLoad_MalformedValues(t *testing.T) {
	dir := initRepo(t)
	for key, value := range map[string]string{
		keyMode:      "diagonal",
		keyWrap:      "sometimes",
		keyLeftWidth: "wide",
	} {
		if out, err := exec.Command("git", "-C", dir, "config", key, value).CombinedOutput(); err != nil {
			t.Fatalf("git config: %v\n%s", err, out)
		}
	}

	p := Load(dir)
	if p.ModeSet || p.WrapSet || p.LeftSet {
		t.Fatalf("expected malformed prefs to be ignored, got %+v", p)
	}
}

func TestLoad_GitBoolSpellings(t *testing.T) {
	dir := initRepo(t)
	if out, err := exec.Command("git", "-C", dir, "config", keyWrap, "yes").CombinedOutput(); err != nil {
		t.Fatalf("git config: %v\n%s", err, out)
	}
	if p := Load(dir); !p.WrapSet || !p.Wrap {
		t.Fatalf("expected yes to read as true, got %+v", p)
	}
}

func TestSaveLeftWidth_Invalid(t *testing.T) {
	if err := SaveLeftWidth(t.TempDir(), 0); err == nil {
		t.Fatalf("expected error for zero width")
	}
}
