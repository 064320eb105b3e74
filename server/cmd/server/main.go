package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/server/core"
	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/shared/protocol"
	"github.com/yohamta/donburi"
)

func main() {
	configPath := flag.String("config", "", "YAML config file overlaying the defaults")
	port := flag.Uint("port", 0, "Server port (overrides config)")
	arenaPath := flag.String("arena", "", "TMX arena, or builtin/<name>.tmx (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *arenaPath != "" {
		cfg.Arena.Path = *arenaPath
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arena, err := leveldata.Load(cfg.Arena.Path, cfg.Arena.FloorSize.Vec(), cfg.Arena.FloorPosition.Vec())
	if err != nil {
		if names, listErr := leveldata.BuiltinNames(); listErr == nil {
			log.Printf("Builtin arenas: %v", names)
		}
		log.Fatalf("Failed to load arena: %v", err)
	}
	log.Printf("Arena: %d floors, %d spawn points", len(arena.Floors), len(arena.SpawnPoints))

	world := donburi.NewWorld()
	server := core.NewServer(cfg, arena, world, core.NewEsyncReplicator(world))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting netphys server on port %d (tick rate: %d/s, network rate: %d/s, projectiles: %s)",
		cfg.Server.Port, cfg.Simulation.TickRate, cfg.Simulation.NetworkTickRate, cfg.Projectile.Simulation)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
