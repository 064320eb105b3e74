package archetypes

import (
	"slices"

	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/automoto/netphys/tags"
	"github.com/yohamta/donburi"
)

var (
	// Body is a replicated rigid body without an identity tag.
	Body = newArchetype(
		physics.RigidBody,
		netcomponents.NetRigidBody,
	)
	Player = newArchetype(
		tags.Player,
		physics.RigidBody,
		netcomponents.NetRigidBody,
		netcomponents.NetSession,
	)
	Projectile = newArchetype(
		tags.Projectile,
		physics.RigidBody,
		netcomponents.NetRigidBody,
		netcomponents.ProjectileOwner,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

// Spawn creates an entity with the archetype's components plus cs.
func (a *archetype) Spawn(world donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return world.Entry(world.Create(slices.Concat(a.components, cs)...))
}
