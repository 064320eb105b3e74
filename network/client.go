package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/netphys/shared/messages"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateWelcomed
	StateError
)

var ErrNotConnected = errors.New("not connected")

// EntityState is one replicated entity of a snapshot, with its components
// already decoded into their value types.
type EntityState struct {
	ID         esync.NetworkId
	Components []any
}

// Snapshot is the full set of entities the authority replicated in one
// flush. Entities missing from it no longer exist.
type Snapshot []EntityState

// Client manages a WebSocket connection to the authority.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	welcome   messages.Welcome
	conn      *websocket.Conn

	snapshots []Snapshot
	capacity  int
	dropped   int
}

// NewClient returns a client buffering at most capacity snapshots between
// two drains. When the buffer is full the oldest snapshot is dropped.
func NewClient(capacity int) *Client {
	if capacity < 1 {
		capacity = 1
	}
	return &Client{
		state:    StateDisconnected,
		capacity: capacity,
	}
}

// Connect dials the authority in a background goroutine.
func (c *Client) Connect(address string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		if c.state == StateConnecting {
			c.state = StateConnected
		}
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.Welcome) {
		log.Printf("[client] welcome: session=%d tickRate=%d networkTickRate=%d",
			msg.Session, msg.TickRate, msg.NetworkTickRate)
		c.mu.Lock()
		c.welcome = msg
		c.state = StateWelcomed
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		c.push(decodeSnapshot(snapshot))
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Session is the identifier the authority assigned to this connection,
// or NoSession before the welcome message.
func (c *Client) Session() netcomponents.SessionID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.welcome.Session
}

// Welcome returns the last welcome message received.
func (c *Client) Welcome() messages.Welcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.welcome
}

// Dropped is the number of snapshots discarded because the buffer was full.
func (c *Client) Dropped() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dropped
}

// DrainSnapshots returns every buffered snapshot in arrival order and
// empties the buffer. Non-blocking.
func (c *Client) DrainSnapshots() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.snapshots
	c.snapshots = nil
	return out
}

func (c *Client) push(snapshot Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snapshots) >= c.capacity {
		c.snapshots = c.snapshots[1:]
		c.dropped++
	}
	c.snapshots = append(c.snapshots, snapshot)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// Fire asks the authority to spawn a projectile owned by this session.
func (c *Client) Fire() error {
	return c.SendMessage(messages.Fire{})
}

// Force asks the authority to push every projectile owned by this session.
func (c *Client) Force() error {
	return c.SendMessage(messages.Force{})
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func decodeSnapshot(snapshot esync.WorldSnapshot) Snapshot {
	out := make(Snapshot, 0, len(snapshot))
	for _, ent := range snapshot {
		state := EntityState{ID: ent.Id}
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				log.Printf("[client] skipping component of entity %d: %v", ent.Id, err)
				continue
			}
			state.Components = append(state.Components, instance)
		}
		out = append(out, state)
	}
	return out
}
