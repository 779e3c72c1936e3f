package theme

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// Dir is the per-repository directory holding theme.json.
const Dir = ".rowdiff"

// Theme defines customizable colors for rendering.
type Theme struct {
	AddColor     string `json:"addColor"`
	DelColor     string `json:"delColor"`
	MetaColor    string `json:"metaColor"`
	DividerColor string `json:"dividerColor"`
	AddBgColor   string `json:"addBgColor"`
	DelBgColor   string `json:"delBgColor"`
	// Intraline and search marks.
	ChangedBgColor      string `json:"changedBgColor"`
	MatchBgColor        string `json:"matchBgColor"`
	CurrentMatchBgColor string `json:"currentMatchBgColor"`
}

func darkTheme() Theme {
	return Theme{
		AddColor:            "34",
		DelColor:            "196",
		MetaColor:           "63",
		DividerColor:        "240",
		AddBgColor:          "22",
		DelBgColor:          "52",
		ChangedBgColor:      "239",
		MatchBgColor:        "15",
		CurrentMatchBgColor: "220",
	}
}

func lightTheme() Theme {
	return Theme{
		AddColor:            "22",
		DelColor:            "9",
		MetaColor:           "27",
		DividerColor:        "244",
		AddBgColor:          "194",
		DelBgColor:          "224",
		ChangedBgColor:      "252",
		MatchBgColor:        "250",
		CurrentMatchBgColor: "220",
	}
}

// Get returns the named base theme. Anything but "light" is dark.
func Get(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}

// Load returns the base theme overlaid with .rowdiff/theme.json at repoRoot.
// A missing or unreadable file leaves the base untouched.
func Load(repoRoot, base string) Theme {
	t := Get(base)
	b, err := os.ReadFile(filepath.Join(repoRoot, Dir, "theme.json"))
	if err != nil {
		return t
	}
	var u Theme
	if err := json.Unmarshal(b, &u); err != nil {
		return t
	}
	merge(&t.AddColor, u.AddColor)
	merge(&t.DelColor, u.DelColor)
	merge(&t.MetaColor, u.MetaColor)
	merge(&t.DividerColor, u.DividerColor)
	merge(&t.AddBgColor, u.AddBgColor)
	merge(&t.DelBgColor, u.DelBgColor)
	merge(&t.ChangedBgColor, u.ChangedBgColor)
	merge(&t.MatchBgColor, u.MatchBgColor)
	merge(&t.CurrentMatchBgColor, u.CurrentMatchBgColor)
	return t
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (t Theme) AddText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.AddColor)).Render(s)
}

func (t Theme) DelText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.DelColor)).Render(s)
}

func (t Theme) MetaText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.MetaColor)).Render(s)
}

func (t Theme) DividerText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.DividerColor)).Render(s)
}
