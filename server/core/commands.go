package core

import (
	"sync"

	"github.com/automoto/netphys/shared/netcomponents"
)

// CommandType enumerates the observer requests the authority accepts.
type CommandType int

const (
	CommandFire CommandType = iota
	CommandForce
)

func (t CommandType) String() string {
	switch t {
	case CommandFire:
		return "fire"
	case CommandForce:
		return "force"
	}
	return "unknown"
}

// Command is one staged observer request.
type Command struct {
	Type    CommandType
	Session netcomponents.SessionID
}

// CommandBuffer stores staged commands in a fixed-size ring. It is safe for
// concurrent producers and a single consumer.
type CommandBuffer struct {
	mu    sync.Mutex
	data  []Command
	head  int
	tail  int
	count int
}

// NewCommandBuffer constructs a ring buffer with the provided capacity.
func NewCommandBuffer(capacity int) *CommandBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &CommandBuffer{data: make([]Command, capacity)}
}

// Push stages a command, returning false if the buffer is full.
func (b *CommandBuffer) Push(cmd Command) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == len(b.data) {
		return false
	}
	b.data[b.tail] = cmd
	b.tail = (b.tail + 1) % len(b.data)
	b.count++
	return true
}

// Drain returns all staged commands in FIFO order and clears the buffer.
func (b *CommandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		return nil
	}
	commands := make([]Command, b.count)
	for i := 0; i < b.count; i++ {
		commands[i] = b.data[(b.head+i)%len(b.data)]
	}
	b.head = 0
	b.tail = 0
	b.count = 0
	return commands
}

// Len reports the number of staged commands.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// sessionChange is a connect or disconnect observed by a transport
// callback. Session changes are never dropped, so they are kept apart from
// the bounded command ring.
type sessionChange struct {
	session   netcomponents.SessionID
	connected bool
}

type sessionQueue struct {
	mu      sync.Mutex
	changes []sessionChange
}

func (q *sessionQueue) push(c sessionChange) {
	q.mu.Lock()
	q.changes = append(q.changes, c)
	q.mu.Unlock()
}

func (q *sessionQueue) drain() []sessionChange {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.changes
	q.changes = nil
	return out
}
