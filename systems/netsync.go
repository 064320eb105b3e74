package systems

import (
	"fmt"
	"log"

	"github.com/automoto/netphys/archetypes"
	"github.com/automoto/netphys/components"
	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/network"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// NetSync applies replicated snapshots to the observer's world. Each
// entity is routed by the case of its state variant: authoritative bodies
// get an interpolation cache and a kinematic collider, predicted bodies a
// dynamic body and a correction blend.
type NetSync struct {
	world   donburi.World
	space   *physics.Space
	cfg     *config.Config
	present map[esync.NetworkId]bool
}

func NewNetSync(world donburi.World, space *physics.Space, cfg *config.Config) *NetSync {
	return &NetSync{
		world:   world,
		space:   space,
		cfg:     cfg,
		present: make(map[esync.NetworkId]bool),
	}
}

// replicated collects the decoded components of one entity.
type replicated struct {
	body    *netcomponents.NetRigidBodyData
	session *netcomponents.NetSessionData
	owner   *netcomponents.ProjectileOwnerData
}

func collect(components []any) replicated {
	var r replicated
	for _, data := range components {
		switch v := data.(type) {
		case netcomponents.NetRigidBodyData:
			r.body = &v
		case netcomponents.NetSessionData:
			r.session = &v
		case netcomponents.ProjectileOwnerData:
			r.owner = &v
		}
	}
	return r
}

// Apply makes the world match snapshot. Entities missing from it are
// removed. A malformed state variant, or one whose case differs from what
// the entity was created with, aborts with an error.
func (s *NetSync) Apply(snapshot network.Snapshot) error {
	clear(s.present)

	for _, ent := range snapshot {
		s.present[ent.ID] = true

		r := collect(ent.Components)
		if r.body == nil {
			continue
		}
		sim, err := r.body.Simulation()
		if err != nil {
			return fmt.Errorf("entity %d: %w", ent.ID, err)
		}

		entity := esync.FindByNetworkId(s.world, ent.ID)
		if !s.world.Valid(entity) {
			s.spawn(ent.ID, r, sim)
			continue
		}

		entry := s.world.Entry(entity)
		if err := s.update(entry, r, sim); err != nil {
			return fmt.Errorf("entity %d: %w", ent.ID, err)
		}
	}

	var gone []*donburi.Entry
	esync.NetworkEntityQuery.Each(s.world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil || !s.present[*id] {
			gone = append(gone, entry)
		}
	})
	for _, entry := range gone {
		s.space.Detach(entry)
		entry.Remove()
	}

	return nil
}

func (s *NetSync) spawn(id esync.NetworkId, r replicated, sim netcomponents.Simulation) {
	ctypes := []donburi.IComponentType{
		esync.NetworkIdComponent,
		components.Transform,
	}
	kind, shape := archetypes.Body, s.cfg.Player
	switch {
	case r.session != nil:
		kind = archetypes.Player
	case r.owner != nil:
		kind, shape = archetypes.Projectile, s.cfg.Projectile.BodyConfig
	}

	translation, _ := sim.Pose()
	body := physics.NewBody(translation, shape.Radius, shape.Restitution, shape.Mass)

	switch v := sim.(type) {
	case netcomponents.ServerSimulation:
		ctypes = append(ctypes, components.NetRigidBodyCache)
		body.Kinematic = true
		body.SetPose(v.Translation, v.Rotation())
	case netcomponents.ClientPrediction:
		ctypes = append(ctypes, components.Correction)
		body.SetPose(v.Translation, v.Rotation())
		body.LinearVelocity = v.LinearVelocity
		body.AngularVelocity = v.AngularVelocity
	}

	entry := kind.Spawn(s.world, ctypes...)
	esync.NetworkIdComponent.SetValue(entry, id)
	netcomponents.NetRigidBody.SetValue(entry, *r.body)
	physics.RigidBody.SetValue(entry, body)
	components.Transform.SetValue(entry, components.TransformData{
		Translation: body.Position,
		Rotation:    body.Rotation,
	})
	if v, ok := sim.(netcomponents.ServerSimulation); ok {
		components.NetRigidBodyCache.SetValue(entry, components.NewNetRigidBodyCache(v))
	}
	s.applyIdentity(entry, r)
	s.space.Attach(entry)

	log.Printf("[netsync] entity %d spawned (%s)", id, r.body.CaseName())
}

func (s *NetSync) update(entry *donburi.Entry, r replicated, sim netcomponents.Simulation) error {
	current := netcomponents.NetRigidBody.Get(entry)
	if !current.SameCase(*r.body) {
		return fmt.Errorf("%w: %s became %s", netcomponents.ErrVariantMismatch, current.CaseName(), r.body.CaseName())
	}
	netcomponents.NetRigidBody.SetValue(entry, *r.body)

	switch v := sim.(type) {
	case netcomponents.ServerSimulation:
		if !entry.HasComponent(components.NetRigidBodyCache) {
			return netcomponents.ErrVariantMismatch
		}
		components.NetRigidBodyCache.Get(entry).Update(v)
	case netcomponents.ClientPrediction:
		if !entry.HasComponent(components.Correction) {
			return netcomponents.ErrVariantMismatch
		}
		s.correct(entry, v)
	}

	s.applyIdentity(entry, r)
	return nil
}

// correct reseeds the local velocities and starts converging on the
// transmitted pose.
func (s *NetSync) correct(entry *donburi.Entry, sample netcomponents.ClientPrediction) {
	b := physics.RigidBody.Get(entry)
	c := components.Correction.Get(entry)

	b.LinearVelocity = sample.LinearVelocity
	b.AngularVelocity = sample.AngularVelocity

	target := sample.Rotation()
	offset := sample.Translation.Sub(b.Position)
	blend := s.cfg.Observer.Correction

	if blend.BlendSeconds <= 0 || offset.Len() > blend.SnapDistance {
		c.Stop()
		b.SetPose(sample.Translation, target)
		return
	}

	delta := target.Mul(b.Rotation.Inverse()).Normalize()
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}
	c.Start(offset, delta, blend.BlendSeconds)
}

func (s *NetSync) applyIdentity(entry *donburi.Entry, r replicated) {
	if r.session != nil && entry.HasComponent(netcomponents.NetSession) {
		netcomponents.NetSession.SetValue(entry, *r.session)
	}
	if r.owner != nil && entry.HasComponent(netcomponents.ProjectileOwner) {
		netcomponents.ProjectileOwner.SetValue(entry, *r.owner)
	}
}

// Pose returns the rendered pose of entry and the raw replicated pose,
// for gizmos.
func Pose(entry *donburi.Entry) (rendered components.TransformData, replicated mgl64.Vec3, ok bool) {
	if !entry.HasComponent(components.Transform) || !entry.HasComponent(netcomponents.NetRigidBody) {
		return components.TransformData{}, mgl64.Vec3{}, false
	}
	sim, err := netcomponents.NetRigidBody.Get(entry).Simulation()
	if err != nil {
		return components.TransformData{}, mgl64.Vec3{}, false
	}
	translation, _ := sim.Pose()
	return *components.Transform.Get(entry), translation, true
}
