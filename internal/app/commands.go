package app

import (
	"strings"
)

// parseCommand splits a command line into words. Double or single quotes
// group words; a backslash escapes the next character.
func parseCommand(input string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		escaped bool
		inWord  bool
	)

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "q", "quit":
		if a.dirty {
			a.SetError("Unsaved changes! Use :q! to discard them or :save")
		} else {
			a.quit = true
		}
	case "q!", "quit!":
		a.quit = true
	case "w", "save":
		a.save()
	case "wq":
		a.save()
		if !a.dirty {
			a.quit = true
		}
	case "reset":
		a.Reset()
		a.SetStatus("Discarded unsaved changes")
	case "toggle":
		a.toggle()
	case "dismiss":
		a.dismiss()
	case "go":
		path := HomePath
		if len(parts) > 1 {
			path = parts[1]
		}
		a.navigate(path)
	case "reload":
		a.reloadTaxonomy()
	case "messages":
		a.showMessages = true
	case "help":
		a.help.Toggle()
	case "debug":
		a.debugMode = !a.debugMode
		if a.debugMode {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetError("Unknown command: " + parts[0])
	}
}

