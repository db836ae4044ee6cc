package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/history"
)

// CommandMode manages command line input (`:command`)
type CommandMode struct {
	active  bool
	line    lineInput
	history *History
}

// NewCommandMode creates a CommandMode. manager may be nil for an
// in-memory history.
func NewCommandMode(manager *history.Manager) *CommandMode {
	return &CommandMode{
		history: NewHistoryWithManager(50, manager, history.CommandFile),
	}
}

// Start enters command mode
func (c *CommandMode) Start() {
	c.active = true
	c.line = lineInput{}
	c.history.Reset()
}

// Stop exits command mode
func (c *CommandMode) Stop() {
	c.active = false
}

// IsActive returns whether command mode is active
func (c *CommandMode) IsActive() bool {
	return c.active
}

// HandleKey processes a key press in command mode. done is set when the
// command line closes; command is empty when it was cancelled.
func (c *CommandMode) HandleKey(ev *tcell.EventKey) (command string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		cmd := c.line.text()
		c.history.Add(cmd)
		c.Stop()
		return cmd, true
	case tcell.KeyUp:
		c.history.navigate(&c.line, true)
	case tcell.KeyDown:
		c.history.navigate(&c.line, false)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.line.input == "" {
			// Backspace on an empty command line leaves command mode
			c.Stop()
			return "", true
		}
		c.line.handleEditKey(ev)
	default:
		c.line.handleEditKey(ev)
	}
	return "", false
}

// GetInput returns the current command input
func (c *CommandMode) GetInput() string {
	return c.line.text()
}

// Render renders the command line
func (c *CommandMode) Render(screen *Screen, y int) {
	if !c.active {
		return
	}
	width := screen.GetWidth()
	textStyle := screen.CommandTextStyle()

	x := screen.DrawString(0, y, ":", screen.CommandPromptStyle())
	x = c.line.render(screen, x, y, width, textStyle, screen.CommandCursorStyle(), true)
	screen.FillLine(x, y, width-x, textStyle)
}
