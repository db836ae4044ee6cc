package app

import (
	"fmt"
	"log"

	"github.com/pstuifzand/myorganisms/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (app *App) handleSocketMessage(msg socket.Message) {
	log.Printf("Received socket message: id=%s command=%s path=%s", msg.ID, msg.Command, msg.Path)

	var response *socket.Response
	switch msg.Command {
	case socket.CommandStatus:
		response = app.statusResponse()
	case socket.CommandToggle:
		response = app.handleToggleCommand()
	case socket.CommandDismiss:
		response = app.handleDismissCommand()
	case socket.CommandNavigate:
		if err := app.navigateTo(msg.Path); err != nil {
			response = &socket.Response{Message: err.Error()}
		} else {
			response = &socket.Response{Success: true, Message: "Showing " + app.path}
		}
	case socket.CommandReload:
		app.reloadTaxonomy()
		response = &socket.Response{Success: true, Message: "Reloaded taxonomy"}
	default:
		log.Printf("Unknown socket command: %s", msg.Command)
		response = &socket.Response{Message: "Unknown command: " + msg.Command}
	}

	if msg.ResponseChan != nil {
		msg.ResponseChan <- response
	}
}

func (app *App) statusResponse() *socket.Response {
	summary, err := app.prefs.Summary(app.ctx)
	if err != nil {
		log.Printf("Failed to collect status: %v", err)
		return &socket.Response{Message: err.Error()}
	}
	return &socket.Response{
		Success: true,
		Message: fmt.Sprintf("My Organism Preferences (%d of %d)", summary.Preferred, summary.Available),
		Status: &socket.Status{
			Enabled:      summary.Enabled,
			Preferred:    summary.Preferred,
			Available:    summary.Available,
			NewOrganisms: summary.NewOrganisms,
			Path:         app.path,
		},
	}
}

// handleToggleCommand flips the enabled flag. It runs on the event loop, so
// it can answer with the new state.
func (app *App) handleToggleCommand() *socket.Response {
	if err := app.prefs.Toggle(app.ctx); err != nil {
		log.Printf("Failed to toggle: %v", err)
		return &socket.Response{Message: err.Error()}
	}
	state := "disabled"
	if app.prefs.Enabled() {
		state = "enabled"
	}
	app.SetStatus("My Organisms " + state)
	return &socket.Response{Success: true, Message: "My Organisms " + state}
}

func (app *App) handleDismissCommand() *socket.Response {
	if err := app.prefs.Dismiss(app.ctx); err != nil {
		log.Printf("Failed to dismiss new organisms: %v", err)
		return &socket.Response{Message: err.Error()}
	}
	app.SetStatus("Dismissed new organisms")
	return &socket.Response{Success: true, Message: "Dismissed new organisms"}
}
