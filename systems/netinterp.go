package systems

import (
	"github.com/automoto/netphys/components"
	"github.com/automoto/netphys/shared/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewNetInterpSystem samples the interpolation cache of every
// authoritative body once per tick. The sampled pose becomes the rendered
// transform and drives the body's kinematic collider.
func NewNetInterpSystem(period func() float64, dt float64) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		p := period()
		components.NetRigidBodyCache.Each(e.World, func(entry *donburi.Entry) {
			translation, rotation := components.NetRigidBodyCache.Get(entry).Sample(p, dt)

			components.Transform.SetValue(entry, components.TransformData{
				Translation: translation,
				Rotation:    rotation,
			})
			if entry.HasComponent(physics.RigidBody) {
				physics.RigidBody.Get(entry).SetPose(translation, rotation)
			}
		})
	}
}
