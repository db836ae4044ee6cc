package socket

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// responseTimeout bounds how long a client waits for the application
const responseTimeout = 10 * time.Second

// DefaultDir returns the directory holding the sockets of running instances
func DefaultDir() string {
	// Use XDG_RUNTIME_DIR if available, otherwise fall back to ~/.local/share
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "myorganisms")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "myorganisms")
}

func socketName(pid int) string {
	return fmt.Sprintf("myorganisms-%d.sock", pid)
}

// Server represents a Unix socket server for accepting external commands
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
}

// NewServer creates a new Unix socket server in dir
func NewServer(dir string, pid int) (*Server, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, socketName(pid))

	// Remove a stale socket left by a crashed run
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	log.Printf("Socket server listening on: %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				log.Printf("Error accepting connection: %v", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// handleConnection reads one message, hands it to the application and
// writes back its answer.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			log.Printf("Error decoding message: %v", err)
		}
		encoder.Encode(Response{Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}

	if msg.Command == "" {
		encoder.Encode(Response{ID: msg.ID, Message: "Missing command field"})
		return
	}
	if !validCommand(msg.Command) {
		encoder.Encode(Response{ID: msg.ID, Message: "Unknown command: " + msg.Command})
		return
	}

	msg.ResponseChan = make(chan *Response, 1)

	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		encoder.Encode(Response{ID: msg.ID, Message: "Server is shutting down"})
		return
	}

	select {
	case response := <-msg.ResponseChan:
		response.ID = msg.ID
		encoder.Encode(response)
	case <-time.After(responseTimeout):
		encoder.Encode(Response{ID: msg.ID, Message: "Command timed out"})
	case <-s.stopChan:
		encoder.Encode(Response{ID: msg.ID, Message: "Server is shutting down"})
	}
}

// Messages returns the channel for receiving messages
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and cleans up resources
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.socketPath != "" {
		os.Remove(s.socketPath)
	}
	log.Printf("Socket server stopped")
}
