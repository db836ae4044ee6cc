package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHexToColor(t *testing.T) {
	tests := []struct {
		in   string
		want tcell.Color
	}{
		{"#ff0000", tcell.NewRGBColor(255, 0, 0)},
		{"#0f0", tcell.NewRGBColor(0, 255, 0)},
		{"0000ff", tcell.NewRGBColor(0, 0, 255)},
		{"#12", tcell.ColorDefault},
		{"#zzzzzz", tcell.ColorDefault},
	}
	for _, tt := range tests {
		if got := HexToColor(tt.in); got != tt.want {
			t.Errorf("HexToColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorString(t *testing.T) {
	if got := ParseColorString(" rgb(1, 2, 3) "); got != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("Unexpected rgb color %v", got)
	}
	if got := ParseColorString("rgb(1,2,300)"); got != tcell.ColorDefault {
		t.Errorf("Out of range rgb should give default, got %v", got)
	}
	if got := ParseColorString("red"); got != tcell.ColorDefault {
		t.Errorf("Named colors are not supported, got %v", got)
	}
}

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	content := `name = "mine"
base = "default"

[colors]
checkbox_checked = "#00ff00"
banner_background = "rgb(10, 20, 30)"
no_such_color = "#ffffff"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadThemeFromFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFromFile failed: %v", err)
	}
	if th.Name != "mine" {
		t.Errorf("Expected name 'mine', got %q", th.Name)
	}
	if th.Colors.CheckboxChecked != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("checkbox_checked not applied: %v", th.Colors.CheckboxChecked)
	}
	if th.Colors.BannerBackground != tcell.NewRGBColor(10, 20, 30) {
		t.Errorf("banner_background not applied: %v", th.Colors.BannerBackground)
	}
	if th.Colors.EmptyCount != tcell.ColorRed {
		t.Errorf("Unset colors should come from the default base, got %v", th.Colors.EmptyCount)
	}
}

func TestLoadThemeOrDefaultFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if th := LoadThemeOrDefault("default"); th.Name != "default" {
		t.Errorf("Expected built-in default, got %q", th.Name)
	}
	if th := LoadThemeOrDefault("does-not-exist"); th.Name != "tokyo-night" {
		t.Errorf("Expected tokyo-night fallback, got %q", th.Name)
	}
}

func TestColorNamesCoverEveryField(t *testing.T) {
	names := ColorNames()
	if len(names) != 33 {
		t.Errorf("Expected 33 color names, got %d", len(names))
	}
}

func TestDim(t *testing.T) {
	if got := Dim(tcell.ColorDefault, tcell.ColorBlack, 0.5); got != tcell.ColorDefault {
		t.Errorf("Non-RGB colors should be returned unchanged, got %v", got)
	}
	white := tcell.NewRGBColor(255, 255, 255)
	black := tcell.NewRGBColor(0, 0, 0)
	if got := Dim(white, black, 0); got != white {
		t.Errorf("Zero amount should keep the color, got %v", got)
	}
	if got := Dim(white, black, 1); got != black {
		t.Errorf("Full amount should give the background, got %v", got)
	}
}
