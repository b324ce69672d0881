// Package chat provides the bounded message log used by the lobby channel
// and by each room's chat.
package chat

import (
	"sync"
	"time"
)

// Message is a single chat entry. Sender holds the truncated display form
// of the connection identifier, never the full identifier.
type Message struct {
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// DisplayName truncates a connection identifier to the sender form stored
// and broadcast with every message.
func DisplayName(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Log is a bounded ring of chat messages, oldest evicted first.
// All methods are safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	capacity int
	messages []Message
}

// NewLog creates an empty Log holding at most capacity messages.
//
// Precondition: capacity must be >= 1.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		capacity: capacity,
		messages: make([]Message, 0, capacity),
	}
}

// Append adds a message, evicting the oldest entry when the log is full.
//
// Postcondition: The log holds at most its capacity, most recent last.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.messages) == l.capacity {
		copy(l.messages, l.messages[1:])
		l.messages = l.messages[:l.capacity-1]
	}
	l.messages = append(l.messages, msg)
}

// Messages returns a snapshot of the log, oldest first.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the current number of messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
