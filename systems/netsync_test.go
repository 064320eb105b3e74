package systems

import (
	"errors"
	"testing"

	"github.com/automoto/netphys/components"
	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/network"
	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

type observer struct {
	cfg   *config.Config
	ecs   *ecs.ECS
	space *physics.Space
	sync  *NetSync
}

func newObserver(t *testing.T) *observer {
	t.Helper()
	cfg := config.Default()
	world := donburi.NewWorld()
	space := physics.NewSpace(physics.Settings{
		Gravity:  cfg.Physics.Gravity.Vec(),
		Friction: cfg.Physics.Friction,
		CellSize: cfg.Physics.CellSize,
		Extent:   cfg.Physics.Extent,
	}, leveldata.SingleFloor(cfg.Arena.FloorSize.Vec(), cfg.Arena.FloorPosition.Vec()))

	e := ecs.NewECS(world)
	e.AddSystem(NewNetInterpSystem(cfg.NetworkPeriod, cfg.FixedDelta()))
	e.AddSystem(NewNetPredictionSystem(space, cfg.FixedDelta()))

	return &observer{cfg: cfg, ecs: e, space: space, sync: NewNetSync(world, space, cfg)}
}

func (o *observer) entry(t *testing.T, id esync.NetworkId) *donburi.Entry {
	t.Helper()
	entity := esync.FindByNetworkId(o.ecs.World, id)
	if !o.ecs.World.Valid(entity) {
		t.Fatalf("expected entity %d to exist", id)
	}
	return o.ecs.World.Entry(entity)
}

func serverState(id esync.NetworkId, y float64) network.EntityState {
	return network.EntityState{ID: id, Components: []any{
		netcomponents.NewServerBody(mgl64.Vec3{0, y, 0}, mgl64.Vec3{}),
		netcomponents.NetSessionData{Session: 7},
	}}
}

func predictedState(id esync.NetworkId, pos, vel mgl64.Vec3) network.EntityState {
	return network.EntityState{ID: id, Components: []any{
		netcomponents.NewPredictedBody(pos, mgl64.Vec3{}, vel, mgl64.Vec3{}),
		netcomponents.ProjectileOwnerData{Session: 7},
	}}
}

func TestAuthoritativeBodyInterpolates(t *testing.T) {
	o := newObserver(t)

	// spawn, then the first and second network updates
	for _, y := range []float64{25, 25, 24} {
		if err := o.sync.Apply(network.Snapshot{serverState(1, y)}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	entry := o.entry(t, 1)
	cache := components.NetRigidBodyCache.Get(entry)
	if cache.Previous.Translation[1] != 25 || cache.Latest.Translation[1] != 24 {
		t.Fatalf("expected bracket 25 -> 24, got %+v", cache)
	}
	if !physics.RigidBody.Get(entry).Kinematic {
		t.Fatalf("expected authoritative body to be kinematic")
	}

	every := o.cfg.NetworkEvery()
	for i := 0; i < every/2; i++ {
		o.ecs.Update()
	}
	mid := components.Transform.Get(entry).Translation[1]
	if mid >= 25 || mid <= 24 {
		t.Fatalf("expected rendered y between samples, got %v", mid)
	}

	for i := 0; i < every; i++ {
		o.ecs.Update()
	}
	if got := components.Transform.Get(entry).Translation[1]; got != 24 {
		t.Fatalf("expected rendered y to settle on 24, got %v", got)
	}
	if got := physics.RigidBody.Get(entry).Position[1]; got != 24 {
		t.Fatalf("expected kinematic collider to follow the cache, got %v", got)
	}
}

func TestAbsentEntityIsRemoved(t *testing.T) {
	o := newObserver(t)

	if err := o.sync.Apply(network.Snapshot{serverState(1, 5), serverState(2, 5)}); err != nil {
		t.Fatal(err)
	}
	if err := o.sync.Apply(network.Snapshot{serverState(2, 5)}); err != nil {
		t.Fatal(err)
	}

	if o.ecs.World.Valid(esync.FindByNetworkId(o.ecs.World, 1)) {
		t.Fatalf("expected entity 1 to be removed")
	}
	o.entry(t, 2)
}

func TestIdentityClearedAfterOwnerLeaves(t *testing.T) {
	o := newObserver(t)

	snapshot := network.Snapshot{
		serverState(1, 5),
		predictedState(2, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{}),
	}
	if err := o.sync.Apply(snapshot); err != nil {
		t.Fatal(err)
	}
	if got := netcomponents.NetSession.Get(o.entry(t, 1)).Session; got != 7 {
		t.Fatalf("expected player session 7, got %d", got)
	}

	orphaned := network.Snapshot{
		{ID: 1, Components: []any{
			netcomponents.NewServerBody(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{}),
			netcomponents.NetSessionData{Session: netcomponents.NoSession},
		}},
		{ID: 2, Components: []any{
			netcomponents.NewPredictedBody(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}),
			netcomponents.ProjectileOwnerData{Session: netcomponents.NoSession},
		}},
	}
	if err := o.sync.Apply(orphaned); err != nil {
		t.Fatal(err)
	}

	if got := netcomponents.NetSession.Get(o.entry(t, 1)).Session; got != netcomponents.NoSession {
		t.Errorf("expected player session cleared, got %d", got)
	}
	if got := netcomponents.ProjectileOwner.Get(o.entry(t, 2)).Session; got != netcomponents.NoSession {
		t.Errorf("expected projectile owner cleared, got %d", got)
	}
}

func TestCaseChangeFailsFast(t *testing.T) {
	o := newObserver(t)

	if err := o.sync.Apply(network.Snapshot{serverState(1, 5)}); err != nil {
		t.Fatal(err)
	}
	err := o.sync.Apply(network.Snapshot{predictedState(1, mgl64.Vec3{}, mgl64.Vec3{})})
	if !errors.Is(err, netcomponents.ErrVariantMismatch) {
		t.Fatalf("expected ErrVariantMismatch, got %v", err)
	}
}

func TestMalformedBodyFailsFast(t *testing.T) {
	o := newObserver(t)

	bad := network.EntityState{ID: 3, Components: []any{netcomponents.NetRigidBodyData{}}}
	if err := o.sync.Apply(network.Snapshot{bad}); !errors.Is(err, netcomponents.ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestPredictedBodyIntegratesLocally(t *testing.T) {
	o := newObserver(t)

	start := mgl64.Vec3{0, 10, 20}
	vel := mgl64.Vec3{0, 5, -15}
	if err := o.sync.Apply(network.Snapshot{predictedState(4, start, vel)}); err != nil {
		t.Fatal(err)
	}

	entry := o.entry(t, 4)
	if entry.HasComponent(components.NetRigidBodyCache) {
		t.Fatalf("expected no interpolation cache on a predicted body")
	}

	o.ecs.Update()

	got := components.Transform.Get(entry).Translation
	if got[2] >= start[2] {
		t.Fatalf("expected the body to move along -z from the seeded velocity, got %v", got)
	}
}

func TestPredictedCorrectionBlendsOrSnaps(t *testing.T) {
	o := newObserver(t)

	pos := mgl64.Vec3{0, 10, 0}
	if err := o.sync.Apply(network.Snapshot{predictedState(4, pos, mgl64.Vec3{})}); err != nil {
		t.Fatal(err)
	}
	entry := o.entry(t, 4)
	body := physics.RigidBody.Get(entry)

	small := pos.Add(mgl64.Vec3{o.cfg.Observer.Correction.SnapDistance / 2, 0, 0})
	if err := o.sync.Apply(network.Snapshot{predictedState(4, small, mgl64.Vec3{})}); err != nil {
		t.Fatal(err)
	}
	if body.Position != pos {
		t.Fatalf("expected a small error to be blended, not snapped, got %v", body.Position)
	}
	if !components.Correction.Get(entry).Active() {
		t.Fatalf("expected a running correction")
	}

	far := pos.Add(mgl64.Vec3{o.cfg.Observer.Correction.SnapDistance * 3, 0, 0})
	if err := o.sync.Apply(network.Snapshot{predictedState(4, far, mgl64.Vec3{1, 0, 0})}); err != nil {
		t.Fatal(err)
	}
	if body.Position != far {
		t.Fatalf("expected a large error to snap to %v, got %v", far, body.Position)
	}
	if body.LinearVelocity != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("expected velocity to be reseeded, got %v", body.LinearVelocity)
	}
	if components.Correction.Get(entry).Active() {
		t.Fatalf("expected snap to cancel the running correction")
	}
}
