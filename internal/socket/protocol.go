package socket

import "errors"

// ErrNoInstance is returned when no running instance can be found
var ErrNoInstance = errors.New("no running myorganisms instance found")

// Message represents a command sent to the running instance
type Message struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	// Path is the route for CommandNavigate
	Path string `json:"path,omitempty"`

	// ResponseChan receives the answer of the application; the server
	// writes it back to the client.
	ResponseChan chan *Response `json:"-"`
}

// Status is the preference state reported by CommandStatus
type Status struct {
	Enabled      bool   `json:"enabled"`
	Preferred    int    `json:"preferred"`
	Available    int    `json:"available"`
	NewOrganisms int    `json:"new_organisms"`
	Path         string `json:"path"`
}

// Response represents the response from the server
type Response struct {
	ID      string  `json:"id"`
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Status  *Status `json:"status,omitempty"`
}

// Command types
const (
	CommandStatus   = "status"
	CommandToggle   = "toggle"
	CommandDismiss  = "dismiss"
	CommandNavigate = "navigate"
	CommandReload   = "reload"
)

func validCommand(cmd string) bool {
	switch cmd {
	case CommandStatus, CommandToggle, CommandDismiss, CommandNavigate, CommandReload:
		return true
	}
	return false
}
