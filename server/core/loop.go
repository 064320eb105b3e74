package core

import (
	"log"
	"time"
)

type GameLoop struct {
	server       *Server
	tickRate     int
	networkEvery int
	stopChan     chan struct{}
}

func NewGameLoop(server *Server, tickRate, networkEvery int) *GameLoop {
	if networkEvery < 1 {
		networkEvery = 1
	}
	return &GameLoop{
		server:       server,
		tickRate:     tickRate,
		networkEvery: networkEvery,
		stopChan:     make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[loop] started at %d ticks/second, flushing every %d ticks", g.tickRate, g.networkEvery)

	for {
		select {
		case <-g.stopChan:
			log.Println("[loop] stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}

// tick always advances the simulation by the fixed delta, however late
// the ticker fired.
func (g *GameLoop) tick() {
	g.server.Step(1 / float64(g.tickRate))

	if g.server.ticks%uint64(g.networkEvery) != 0 {
		return
	}
	if err := g.server.Flush(); err != nil {
		log.Printf("[loop] sync error: %v", err)
	}
}
