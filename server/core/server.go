package core

import (
	"log"
	"sync"

	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/shared/messages"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Server owns the authoritative world. Transport callbacks never touch the
// world: they stage session changes and commands, and the game loop
// applies them at the start of the next tick.
type Server struct {
	cfg        *config.Config
	world      donburi.World
	space      *physics.Space
	arena      *leveldata.Arena
	replicator Replicator
	loop       *GameLoop
	transport  *transports.WsServerTransport

	commands *CommandBuffer
	changes  sessionQueue

	// guarded by mu, written by transport callbacks
	mu          sync.Mutex
	nextSession netcomponents.SessionID
	clients     map[*router.NetworkClient]netcomponents.SessionID

	// owned by the game loop
	sessions map[netcomponents.SessionID]struct{}
	players  map[netcomponents.SessionID]donburi.Entity
	spawned  int
	ticks    uint64
}

// NewServer creates an authority simulating arena in world and
// replicating through replicator.
func NewServer(cfg *config.Config, arena *leveldata.Arena, world donburi.World, replicator Replicator) *Server {
	s := &Server{
		cfg:        cfg,
		world:      world,
		arena:      arena,
		replicator: replicator,
		space: physics.NewSpace(physics.Settings{
			Gravity:  cfg.Physics.Gravity.Vec(),
			Friction: cfg.Physics.Friction,
			CellSize: cfg.Physics.CellSize,
			Extent:   cfg.Physics.Extent,
		}, arena),
		commands: NewCommandBuffer(cfg.Server.CommandQueueCapacity),
		clients:  make(map[*router.NetworkClient]netcomponents.SessionID),
		sessions: make(map[netcomponents.SessionID]struct{}),
		players:  make(map[netcomponents.SessionID]donburi.Entity),
	}
	s.loop = NewGameLoop(s, cfg.Simulation.TickRate, cfg.NetworkEvery())
	return s
}

// Start runs the game loop and serves websocket connections on port. It
// blocks until the transport stops.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()

	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop halts the game loop.
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.onConnect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, _ messages.Fire) {
		s.onCommand(client, CommandFire)
	})

	router.On(func(client *router.NetworkClient, _ messages.Force) {
		s.onCommand(client, CommandForce)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) onConnect(client *router.NetworkClient) {
	session := s.Connect()

	s.mu.Lock()
	s.clients[client] = session
	s.mu.Unlock()

	log.Printf("[server] client %s connected as session %d", client.Id(), session)

	err := client.SendMessage(messages.Welcome{
		Session:         session,
		TickRate:        s.cfg.Simulation.TickRate,
		NetworkTickRate: s.cfg.Simulation.NetworkTickRate,
	})
	if err != nil {
		log.Printf("[server] failed to welcome session %d: %v", session, err)
	}
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	s.mu.Lock()
	session, exists := s.clients[client]
	delete(s.clients, client)
	s.mu.Unlock()

	if err != nil {
		log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("[server] client %s disconnected", client.Id())
	}

	if exists {
		s.Disconnect(session)
	}
}

func (s *Server) onCommand(client *router.NetworkClient, t CommandType) {
	s.mu.Lock()
	session, exists := s.clients[client]
	s.mu.Unlock()

	if !exists {
		log.Printf("[server] %s from unknown client %s dropped", t, client.Id())
		return
	}
	s.Enqueue(Command{Type: t, Session: session})
}

// Connect allocates a session and stages its arrival.
func (s *Server) Connect() netcomponents.SessionID {
	s.mu.Lock()
	s.nextSession++
	session := s.nextSession
	s.mu.Unlock()

	s.changes.push(sessionChange{session: session, connected: true})
	return session
}

// Disconnect stages the departure of session.
func (s *Server) Disconnect(session netcomponents.SessionID) {
	s.changes.push(sessionChange{session: session, connected: false})
}

// Enqueue stages a command for the next tick. It returns false, and the
// command is lost, when the queue is full.
func (s *Server) Enqueue(cmd Command) bool {
	if !s.commands.Push(cmd) {
		log.Printf("[server] command queue full, %s from session %d dropped", cmd.Type, cmd.Session)
		return false
	}
	return true
}

// Step advances the authoritative world by one fixed tick: staged session
// changes, then Fire commands, then Force commands, then physics, the state
// writer and elimination.
func (s *Server) Step(dt float64) {
	for _, change := range s.changes.drain() {
		if change.connected {
			s.join(change.session)
		} else {
			s.leave(change.session)
		}
	}

	s.applyCommands(s.commands.Drain())

	s.space.Step(s.world, dt)
	s.writeBodies()
	s.eliminate()

	s.ticks++
}

// Flush hands the current world to the replicator.
func (s *Server) Flush() error {
	return s.replicator.Flush()
}

// PlayerCount returns the number of live player entities.
func (s *Server) PlayerCount() int {
	return len(s.players)
}

func (s *Server) join(session netcomponents.SessionID) {
	s.sessions[session] = struct{}{}
	s.spawnPlayer(session)
}

func (s *Server) leave(session netcomponents.SessionID) {
	if _, ok := s.sessions[session]; !ok {
		return
	}
	delete(s.sessions, session)
	s.clearIdentity(session)

	entity, ok := s.players[session]
	delete(s.players, session)
	if ok && s.cfg.Server.DespawnOnDisconnect && s.world.Valid(entity) {
		s.despawn(s.world.Entry(entity))
	}
	log.Printf("[server] session %d left", session)
}

func (s *Server) known(session netcomponents.SessionID) bool {
	_, ok := s.sessions[session]
	return ok
}
