// Package prefs persists viewer toggles in the repository's local git config.
package prefs

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/interpretive-systems/rowdiff/internal/diffview"
)

// Prefs represents persisted UI preferences. Each Set flag reports whether
// the value came from git config.
type Prefs struct {
	Mode      diffview.Mode
	ModeSet   bool
	Wrap      bool
	WrapSet   bool
	LeftWidth int
	LeftSet   bool
}

const (
	keyMode      = "rowdiff.mode"
	keyWrap      = "rowdiff.wrap"
	keyLeftWidth = "rowdiff.leftWidth"
)

// Load reads preferences from git config. Unset or malformed keys leave
// their Set flag false.
func Load(repoRoot string) Prefs {
	var p Prefs
	if s, ok := get(repoRoot, keyMode, ""); ok {
		if m, err := diffview.ParseMode(s); err == nil {
			p.Mode, p.ModeSet = m, true
		}
	}
	if s, ok := get(repoRoot, keyWrap, "bool"); ok {
		p.Wrap, p.WrapSet = s == "true", true
	}
	if s, ok := get(repoRoot, keyLeftWidth, "int"); ok {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.LeftWidth, p.LeftSet = n, true
		}
	}
	return p
}

// SaveMode persists the display mode.
func SaveMode(repoRoot string, m diffview.Mode) error {
	return set(repoRoot, keyMode, m.String())
}

// SaveWrap persists wrap pref.
func SaveWrap(repoRoot string, v bool) error {
	return set(repoRoot, keyWrap, strconv.FormatBool(v))
}

// SaveLeftWidth persists left column width.
func SaveLeftWidth(repoRoot string, w int) error {
	if w <= 0 {
		return fmt.Errorf("invalid left width: %d", w)
	}
	return set(repoRoot, keyLeftWidth, strconv.Itoa(w))
}

// get lets git normalize typed values; a value git cannot parse reads as unset.
func get(repoRoot, key, typ string) (string, bool) {
	args := []string{"-C", repoRoot, "config"}
	if typ != "" {
		args = append(args, "--type="+typ)
	}
	b, err := exec.Command("git", append(args, "--get", key)...).Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}

func set(repoRoot, key, value string) error {
	out, err := exec.Command("git", "-C", repoRoot, "config", "--local", key, value).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git config %s: %w: %s", key, err, strings.TrimSpace(string(out)))
	}
	return nil
}
