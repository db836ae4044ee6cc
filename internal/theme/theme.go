package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Tree widget
	TreeNormalText     tcell.Color
	TreeCursor         tcell.Color
	TreeExpandedArrow  tcell.Color
	TreeCollapsedArrow tcell.Color
	CheckboxChecked    tcell.Color
	CheckboxPartial    tcell.Color
	CheckboxEmpty      tcell.Color
	ReferenceBadge     tcell.Color
	TreeLink           tcell.Color

	// Search box
	SearchLabel       tcell.Color
	SearchText        tcell.Color
	SearchPlaceholder tcell.Color
	SearchCursor      tcell.Color

	// Preferences screen
	HeaderTitle  tcell.Color
	HeaderCount  tcell.Color
	EmptyCount   tcell.Color
	Instructions tcell.Color
	Advisory     tcell.Color

	// Summary bar and new organism banner
	SummaryLink      tcell.Color
	ToggleEnabled    tcell.Color
	ToggleDisabled   tcell.Color
	BannerText       tcell.Color
	BannerBackground tcell.Color

	// Command line
	CommandPrompt tcell.Color
	CommandText   tcell.Color
	CommandCursor tcell.Color

	// Help overlay
	HelpBackground tcell.Color
	HelpBorder     tcell.Color
	HelpTitle      tcell.Color
	HelpContent    tcell.Color

	// Status line
	StatusMode     tcell.Color
	StatusMessage  tcell.Color
	StatusModified tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a theme that leaves colors to the terminal, using
// attributes only where a distinction is needed.
func Default() *Theme {
	d := tcell.ColorDefault
	return &Theme{
		Name: "default",
		Colors: Colors{
			TreeNormalText: d, TreeCursor: d, TreeExpandedArrow: d, TreeCollapsedArrow: d,
			CheckboxChecked: d, CheckboxPartial: d, CheckboxEmpty: d,
			ReferenceBadge: tcell.ColorYellow, TreeLink: d,
			SearchLabel: d, SearchText: d, SearchPlaceholder: tcell.ColorGray, SearchCursor: d,
			HeaderTitle: d, HeaderCount: d, EmptyCount: tcell.ColorRed,
			Instructions: d, Advisory: tcell.ColorRed,
			SummaryLink: d, ToggleEnabled: tcell.ColorGreen, ToggleDisabled: tcell.ColorGray,
			BannerText: tcell.ColorBlack, BannerBackground: tcell.ColorYellow,
			CommandPrompt: d, CommandText: d, CommandCursor: d,
			HelpBackground: d, HelpBorder: d, HelpTitle: d, HelpContent: d,
			StatusMode: d, StatusMessage: d, StatusModified: d,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			TreeNormalText:     HexToColor("#c0caf5"), // Light gray-blue
			TreeCursor:         HexToColor("#7aa2f7"), // Blue
			TreeExpandedArrow:  HexToColor("#7dcfff"), // Cyan
			TreeCollapsedArrow: HexToColor("#7dcfff"),
			CheckboxChecked:    HexToColor("#9ece6a"), // Green
			CheckboxPartial:    HexToColor("#e0af68"), // Orange
			CheckboxEmpty:      HexToColor("#565f89"), // Comment gray
			ReferenceBadge:     HexToColor("#e0af68"),
			TreeLink:           HexToColor("#7dcfff"),
			SearchLabel:        HexToColor("#bb9af7"), // Magenta
			SearchText:         HexToColor("#c0caf5"),
			SearchPlaceholder:  HexToColor("#565f89"),
			SearchCursor:       HexToColor("#7aa2f7"),
			HeaderTitle:        HexToColor("#bb9af7"),
			HeaderCount:        HexToColor("#9ece6a"),
			EmptyCount:         HexToColor("#f7768e"), // Red
			Instructions:       HexToColor("#a9b1d6"),
			Advisory:           HexToColor("#f7768e"),
			SummaryLink:        HexToColor("#7aa2f7"),
			ToggleEnabled:      HexToColor("#9ece6a"),
			ToggleDisabled:     HexToColor("#565f89"),
			BannerText:         HexToColor("#1a1b26"),
			BannerBackground:   HexToColor("#e0af68"),
			CommandPrompt:      HexToColor("#bb9af7"),
			CommandText:        HexToColor("#c0caf5"),
			CommandCursor:      HexToColor("#7aa2f7"),
			HelpBackground:     HexToColor("#1a1b26"), // Dark background
			HelpBorder:         HexToColor("#7dcfff"),
			HelpTitle:          HexToColor("#bb9af7"),
			HelpContent:        HexToColor("#c0caf5"),
			StatusMode:         HexToColor("#bb9af7"),
			StatusMessage:      HexToColor("#9ece6a"),
			StatusModified:     HexToColor("#f7768e"),
		},
	}
}

// Builtin returns a built-in theme by name
func Builtin(name string) (*Theme, bool) {
	switch name {
	case "default":
		return Default(), true
	case "tokyo-night":
		return TokyoNight(), true
	}
	return nil, false
}
