package theme

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration. Colors are keyed
// by snake_case names, e.g. checkbox_checked = "#9ece6a".
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Base   string            `toml:"base"`
	Colors map[string]string `toml:"colors"`
}

// slots maps TOML color names to the fields they override
func (c *Colors) slots() map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"tree_normal_text":     &c.TreeNormalText,
		"tree_cursor":          &c.TreeCursor,
		"tree_expanded_arrow":  &c.TreeExpandedArrow,
		"tree_collapsed_arrow": &c.TreeCollapsedArrow,
		"checkbox_checked":     &c.CheckboxChecked,
		"checkbox_partial":     &c.CheckboxPartial,
		"checkbox_empty":       &c.CheckboxEmpty,
		"reference_badge":      &c.ReferenceBadge,
		"tree_link":            &c.TreeLink,
		"search_label":         &c.SearchLabel,
		"search_text":          &c.SearchText,
		"search_placeholder":   &c.SearchPlaceholder,
		"search_cursor":        &c.SearchCursor,
		"header_title":         &c.HeaderTitle,
		"header_count":         &c.HeaderCount,
		"empty_count":          &c.EmptyCount,
		"instructions":         &c.Instructions,
		"advisory":             &c.Advisory,
		"summary_link":         &c.SummaryLink,
		"toggle_enabled":       &c.ToggleEnabled,
		"toggle_disabled":      &c.ToggleDisabled,
		"banner_text":          &c.BannerText,
		"banner_background":    &c.BannerBackground,
		"command_prompt":       &c.CommandPrompt,
		"command_text":         &c.CommandText,
		"command_cursor":       &c.CommandCursor,
		"help_background":      &c.HelpBackground,
		"help_border":          &c.HelpBorder,
		"help_title":           &c.HelpTitle,
		"help_content":         &c.HelpContent,
		"status_mode":          &c.StatusMode,
		"status_message":       &c.StatusMessage,
		"status_modified":      &c.StatusModified,
	}
}

// ColorNames lists the color keys accepted in theme files
func ColorNames() []string {
	var c Colors
	names := make([]string, 0, 32)
	for name := range c.slots() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "myorganisms", "themes"),
		filepath.Join(home, ".local", "share", "myorganisms", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme applies the configured colors on top of the base theme
// (Tokyo Night unless another built-in is named).
func configToTheme(config ThemeConfig) *Theme {
	base, ok := Builtin(config.Base)
	if !ok {
		base = TokyoNight()
	}

	slots := base.Colors.slots()
	for name, value := range config.Colors {
		slot, ok := slots[name]
		if !ok {
			log.Printf("theme: unknown color %q", name)
			continue
		}
		*slot = ParseColorString(value)
	}

	if config.Name != "" {
		base.Name = config.Name
	}
	return base
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if t, ok := Builtin(themeName); ok {
		return t
	}

	t, err := LoadTheme(themeName)
	if err != nil {
		log.Printf("theme %q: %v, using tokyo-night", themeName, err)
		return TokyoNight()
	}

	return t
}
