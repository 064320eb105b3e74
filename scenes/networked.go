package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/network"
	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/shared/physics"
	"github.com/automoto/netphys/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var ErrConnectionClosed = errors.New("connection to server closed")

// NetworkedScene is the observer: it renders what the authority
// replicates and forwards Fire/Force requests.
type NetworkedScene struct {
	cfg       *config.Config
	arena     *leveldata.Arena
	ecsWorld  *ecs.ECS
	netClient *network.Client
	netSync   *systems.NetSync
	prefs     *systems.ObserverPrefs
	welcomed  bool
}

func NewNetworkedScene(cfg *config.Config, arena *leveldata.Arena, client *network.Client, prefs *systems.ObserverPrefs) *NetworkedScene {
	world := donburi.NewWorld()
	space := physics.NewSpace(physics.Settings{
		Gravity:  cfg.Physics.Gravity.Vec(),
		Friction: cfg.Physics.Friction,
		CellSize: cfg.Physics.CellSize,
		Extent:   cfg.Physics.Extent,
	}, arena)

	ns := &NetworkedScene{
		cfg:       cfg,
		arena:     arena,
		ecsWorld:  ecs.NewECS(world),
		netClient: client,
		netSync:   systems.NewNetSync(world, space, cfg),
		prefs:     prefs,
	}

	dt := cfg.FixedDelta()
	ns.ecsWorld.AddSystem(systems.NewNetInterpSystem(ns.networkPeriod, dt))
	ns.ecsWorld.AddSystem(systems.NewNetPredictionSystem(space, dt))

	return ns
}

// networkPeriod prefers the rate announced by the authority over the local
// configuration.
func (ns *NetworkedScene) networkPeriod() float64 {
	if rate := ns.netClient.Welcome().NetworkTickRate; rate > 0 {
		return 1 / float64(rate)
	}
	return ns.cfg.NetworkPeriod()
}

// Update runs one fixed tick: advance smoothing and prediction, then apply
// every snapshot received since the previous tick.
func (ns *NetworkedScene) Update() error {
	switch ns.netClient.State() {
	case network.StateError:
		return ns.netClient.LastError()
	case network.StateDisconnected:
		if ns.welcomed {
			return ErrConnectionClosed
		}
	case network.StateWelcomed:
		if !ns.welcomed {
			ns.welcomed = true
			ns.checkRates(ns.netClient.Welcome().TickRate)
		}
	}

	ns.handleInput()

	ns.ecsWorld.Update()

	for _, snapshot := range ns.netClient.DrainSnapshots() {
		if err := ns.netSync.Apply(snapshot); err != nil {
			return fmt.Errorf("apply snapshot: %w", err)
		}
	}
	return nil
}

func (ns *NetworkedScene) checkRates(tickRate int) {
	if tickRate != ns.cfg.Simulation.TickRate {
		log.Printf("[observer] server ticks at %d/s, local tick is %d/s", tickRate, ns.cfg.Simulation.TickRate)
	}
}

func (ns *NetworkedScene) handleInput() {
	if justPressed(ActionFire) {
		if err := ns.netClient.Fire(); err != nil {
			log.Printf("[observer] fire: %v", err)
		}
	}
	if justPressed(ActionForce) {
		if err := ns.netClient.Force(); err != nil {
			log.Printf("[observer] force: %v", err)
		}
	}
	if justPressed(ActionToggleGizmos) {
		ns.prefs.ShowGizmos = !ns.prefs.ShowGizmos
		_ = systems.SavePrefs(ns.prefs)
	}
}

func (ns *NetworkedScene) Draw(screen *ebiten.Image) {
	drawArena(screen, ns.arena)
	drawBodies(screen, ns.ecsWorld.World, ns.netClient.Session(), ns.prefs.ShowGizmos)
	drawHUD(screen, ns.netClient, ns.ecsWorld.World)
}
