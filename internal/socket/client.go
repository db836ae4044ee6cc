package socket

import (
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
	timeout    time.Duration
}

// FindRunningInstance finds the socket of a running instance in dir.
// Returns the socket path and PID, or ErrNoInstance.
func FindRunningInstance(dir string) (string, int, error) {
	var sockets []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, directory might not exist
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), "myorganisms-") && strings.HasSuffix(d.Name(), ".sock") {
			sockets = append(sockets, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	// Use the most recent socket
	var newestSocket string
	var newestTime time.Time
	for _, sock := range sockets {
		info, err := os.Stat(sock)
		if err != nil {
			continue
		}
		if newestSocket == "" || info.ModTime().After(newestTime) {
			newestTime = info.ModTime()
			newestSocket = sock
		}
	}
	if newestSocket == "" {
		return "", 0, ErrNoInstance
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(newestSocket), "myorganisms-"), ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0 // Unknown PID
	}

	return newestSocket, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}

	return &Client{
		socketPath: socketPath,
		timeout:    responseTimeout + 2*time.Second,
	}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	if response.ID != msg.ID {
		return nil, fmt.Errorf("response %q does not answer request %q", response.ID, msg.ID)
	}

	return &response, nil
}

// SendCommand sends a command without arguments
func (c *Client) SendCommand(command string) (*Response, error) {
	return c.Send(Message{Command: command})
}

// SendNavigate asks the instance to show path
func (c *Client) SendNavigate(path string) (*Response, error) {
	return c.Send(Message{Command: CommandNavigate, Path: path})
}
