package ui

import (
	"sync"
	"time"
)

// Message represents a status message with timestamp
type Message struct {
	Text      string
	Timestamp time.Time
	Error     bool
}

// MessageLogger keeps the last N status messages. The newest one is shown
// on the status line until it expires.
type MessageLogger struct {
	messages []*Message
	maxSize  int
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// NewMessageLogger creates a new message logger with the specified max size
func NewMessageLogger(maxSize int) *MessageLogger {
	return &MessageLogger{
		messages: make([]*Message, 0, maxSize),
		maxSize:  maxSize,
		ttl:      5 * time.Second,
		now:      time.Now,
	}
}

// AddMessage adds a status message
func (ml *MessageLogger) AddMessage(text string) {
	ml.add(text, false)
}

// AddError adds an error message
func (ml *MessageLogger) AddError(text string) {
	ml.add(text, true)
}

func (ml *MessageLogger) add(text string, isError bool) {
	if text == "" {
		return
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.messages = append(ml.messages, &Message{Text: text, Timestamp: ml.now(), Error: isError})
	if len(ml.messages) > ml.maxSize {
		ml.messages = ml.messages[len(ml.messages)-ml.maxSize:]
	}
}

// Current returns the newest message if it has not expired
func (ml *MessageLogger) Current() (*Message, bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if len(ml.messages) == 0 {
		return nil, false
	}
	last := ml.messages[len(ml.messages)-1]
	if ml.now().Sub(last.Timestamp) > ml.ttl {
		return nil, false
	}
	return last, true
}

// GetMessagesReverse returns a copy of all messages, newest first
func (ml *MessageLogger) GetMessagesReverse() []*Message {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	result := make([]*Message, len(ml.messages))
	for i, msg := range ml.messages {
		result[len(ml.messages)-1-i] = msg
	}
	return result
}

// Count returns the number of messages in the logger
func (ml *MessageLogger) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.messages)
}
