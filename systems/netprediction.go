package systems

import (
	"github.com/automoto/netphys/components"
	"github.com/automoto/netphys/shared/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewNetPredictionSystem integrates the locally predicted bodies. Any
// running correction is applied first, then the physics space is stepped
// and the result copied to the rendered transform.
func NewNetPredictionSystem(space *physics.Space, dt float64) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		components.Correction.Each(e.World, func(entry *donburi.Entry) {
			c := components.Correction.Get(entry)
			if !c.Active() {
				return
			}
			offset, rotation := c.Step(dt)
			b := physics.RigidBody.Get(entry)
			b.SetPose(b.Position.Add(offset), rotation.Mul(b.Rotation))
		})

		space.Step(e.World, dt)

		components.Correction.Each(e.World, func(entry *donburi.Entry) {
			b := physics.RigidBody.Get(entry)
			components.Transform.SetValue(entry, components.TransformData{
				Translation: b.Position,
				Rotation:    b.Rotation,
			})
		})
	}
}
