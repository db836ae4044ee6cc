package app

import (
	"github.com/pstuifzand/myorganisms/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() rune {
	return kb.Key
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// PendingKeyBinding represents a prefix key that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune                // The first key, e.g. 'o'
	Description string              // Description of what the pending key does
	Sequences   map[rune]KeyBinding // Map of second key to keybinding
}

// GetKey returns the prefix key
func (pkb *PendingKeyBinding) GetKey() rune {
	return pkb.Prefix
}

// GetDescription returns the description
func (pkb *PendingKeyBinding) GetDescription() string {
	return pkb.Description
}

// GetSequences returns a map of second key to description for display in help
func (pkb *PendingKeyBinding) GetSequences() map[rune]string {
	result := make(map[rune]string)
	for key, binding := range pkb.Sequences {
		result[key] = binding.Description
	}
	return result
}

// InitializeKeybindings sets up the application key bindings. Keys not
// listed here go to the tree of the current screen.
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         ':',
			Description: "Command line",
			Handler: func(app *App) {
				app.command.Start()
			},
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler: func(app *App) {
				app.help.Toggle()
			},
		},
		{
			Key:         't',
			Description: "Enable or disable My Organisms",
			Handler: func(app *App) {
				app.toggle()
			},
		},
		{
			Key:         'd',
			Description: "Dismiss the new organisms banner",
			Handler: func(app *App) {
				app.dismiss()
			},
		},
		{
			Key:         's',
			Description: "Save preferences",
			Handler: func(app *App) {
				if !app.dirty {
					app.SetStatus("No unsaved changes")
					return
				}
				app.save()
			},
		},
		{
			Key:         'r',
			Description: "Discard unsaved edits",
			Handler: func(app *App) {
				if !app.dirty {
					return
				}
				app.Reset()
				app.SetStatus("Discarded unsaved changes")
			},
		},
		{
			Key:         'q',
			Description: "Quit",
			Handler: func(app *App) {
				app.handleCommand("q")
			},
		},
	}
}

// InitializePendingKeybindings sets up the prefix key bindings
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{
		{
			Prefix:      'o',
			Description: "Open a screen",
			Sequences: map[rune]KeyBinding{
				'h': {
					Key:         'h',
					Description: "Open the organisms list",
					Handler: func(app *App) {
						app.navigate(HomePath)
					},
				},
				'p': {
					Key:         'p',
					Description: "Open My Organism Preferences",
					Handler: func(app *App) {
						app.navigate(ui.PreferencesPath)
					},
				},
				'm': {
					Key:         'm',
					Description: "Open the message history",
					Handler: func(app *App) {
						app.showMessages = true
					},
				},
			},
		},
	}
}

// helpKeybindings lists the bindings for the help screen
func (a *App) helpKeybindings() []ui.KeyBindingInfo {
	infos := make([]ui.KeyBindingInfo, 0, len(a.keybindings)+len(a.pendingKeybindings))
	for i := range a.keybindings {
		infos = append(infos, &a.keybindings[i])
	}
	for i := range a.pendingKeybindings {
		infos = append(infos, &a.pendingKeybindings[i])
	}
	return infos
}
