package main

import (
	"flag"
	"log"

	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/network"
	"github.com/automoto/netphys/scenes"
	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/shared/protocol"
	"github.com/automoto/netphys/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Game struct {
	scene *scenes.NetworkedScene
}

func (g *Game) Update() error {
	return g.scene.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return scenes.ScreenWidth, scenes.ScreenHeight
}

func main() {
	configPath := flag.String("config", "", "YAML config file overlaying the defaults")
	address := flag.String("server", "", "Server address host:port (overrides config and saved prefs)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	if err := systems.InitPersistence("netphys"); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	prefs := &systems.ObserverPrefs{ServerAddress: cfg.Observer.ServerAddress}
	if saved, err := systems.LoadPrefs(); err == nil && saved != nil {
		prefs = saved
	}
	if *address != "" {
		prefs.ServerAddress = *address
	}

	arena, err := leveldata.Load(cfg.Arena.Path, cfg.Arena.FloorSize.Vec(), cfg.Arena.FloorPosition.Vec())
	if err != nil {
		log.Fatalf("Failed to load arena: %v", err)
	}

	client := network.NewClient(cfg.Observer.SnapshotBuffer)
	client.Connect(prefs.ServerAddress)
	defer client.Disconnect()

	if err := systems.SavePrefs(prefs); err != nil {
		log.Printf("Warning: Could not save prefs: %v", err)
	}

	ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
	ebiten.SetWindowTitle("netphys observer - " + prefs.ServerAddress)
	ebiten.SetTPS(cfg.Simulation.TickRate)

	game := &Game{scene: scenes.NewNetworkedScene(cfg, arena, client, prefs)}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
