package core

import (
	"log"

	"github.com/automoto/netphys/archetypes"
	"github.com/automoto/netphys/config"
	"github.com/automoto/netphys/shared/gamemath"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var ownedProjectiles = donburi.NewQuery(filter.Contains(
	netcomponents.ProjectileOwner,
	physics.RigidBody,
))

// applyCommands runs every Fire before any Force, each group in arrival
// order, so a Force always sees the projectiles fired in the same tick.
func (s *Server) applyCommands(commands []Command) {
	for _, cmd := range commands {
		if cmd.Type == CommandFire {
			s.fire(cmd.Session)
		}
	}
	for _, cmd := range commands {
		if cmd.Type == CommandForce {
			s.force(cmd.Session)
		}
	}
}

func (s *Server) fire(session netcomponents.SessionID) {
	if !s.known(session) {
		log.Printf("[server] fire from unknown session %d dropped", session)
		return
	}

	pc := s.cfg.Projectile
	body := physics.NewBody(pc.SpawnPosition.Vec(), pc.Radius, pc.Restitution, pc.Mass)
	body.LinearVelocity = pc.SpawnVelocity.Vec()
	body.AngularVelocity = pc.SpawnAngularVelocity.Vec()
	body.ApplyImpulse(mgl64.Vec3{}, pc.InitialTorqueImpulse.Vec())

	var state netcomponents.NetRigidBodyData
	switch pc.Simulation {
	case config.SimulationPredicted:
		state = netcomponents.NewPredictedBody(body.Position, gamemath.QuatToEuler(body.Rotation),
			body.LinearVelocity, body.AngularVelocity)
	default:
		state = netcomponents.NewServerBody(body.Position, gamemath.QuatToEuler(body.Rotation))
	}

	entry := archetypes.Projectile.Spawn(s.world)
	physics.RigidBody.SetValue(entry, body)
	netcomponents.NetRigidBody.SetValue(entry, state)
	netcomponents.ProjectileOwner.SetValue(entry, netcomponents.ProjectileOwnerData{Session: session})

	if !s.track(entry, netcomponents.ProjectileOwner) {
		return
	}
	log.Printf("[server] session %d fired %s projectile", session, state.CaseName())
}

// force pushes every live projectile of session. Without any it does
// nothing.
func (s *Server) force(session netcomponents.SessionID) {
	if !s.known(session) {
		log.Printf("[server] force from unknown session %d dropped", session)
		return
	}

	impulse := s.cfg.Force.Impulse.Vec()
	torque := s.cfg.Force.TorqueImpulse.Vec()
	ownedProjectiles.Each(s.world, func(entry *donburi.Entry) {
		if netcomponents.ProjectileOwner.Get(entry).Session != session {
			return
		}
		physics.RigidBody.Get(entry).ApplyImpulse(impulse, torque)
	})
}

func (s *Server) spawnPlayer(session netcomponents.SessionID) {
	pc := s.cfg.Player
	position := s.arena.Spawn(s.spawned, pc.SpawnPosition.Vec())
	s.spawned++

	body := physics.NewBody(position, pc.Radius, pc.Restitution, pc.Mass)
	body.ApplyImpulse(mgl64.Vec3{}, pc.InitialTorqueImpulse.Vec())

	entry := archetypes.Player.Spawn(s.world)
	physics.RigidBody.SetValue(entry, body)
	netcomponents.NetRigidBody.SetValue(entry,
		netcomponents.NewServerBody(body.Position, gamemath.QuatToEuler(body.Rotation)))
	netcomponents.NetSession.SetValue(entry, netcomponents.NetSessionData{Session: session})

	if !s.track(entry, netcomponents.NetSession) {
		return
	}
	s.players[session] = entry.Entity()
	log.Printf("[server] player spawned for session %d at %v", session, position)
}

// track attaches entry to physics and replication, removing it again when
// replication refuses it.
func (s *Server) track(entry *donburi.Entry, identity donburi.IComponentType) bool {
	s.space.Attach(entry)
	if err := s.replicator.Track(entry, identity); err != nil {
		log.Printf("[server] failed to replicate entity: %v", err)
		s.despawn(entry)
		return false
	}
	return true
}

// clearIdentity unbinds every entity tagged with session.
func (s *Server) clearIdentity(session netcomponents.SessionID) {
	netcomponents.NetSession.Each(s.world, func(entry *donburi.Entry) {
		if tag := netcomponents.NetSession.Get(entry); tag.Session == session {
			tag.Session = netcomponents.NoSession
		}
	})
	netcomponents.ProjectileOwner.Each(s.world, func(entry *donburi.Entry) {
		if tag := netcomponents.ProjectileOwner.Get(entry); tag.Session == session {
			tag.Session = netcomponents.NoSession
		}
	})
}
