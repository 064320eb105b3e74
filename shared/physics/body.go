// Package physics is the small rigid-sphere integrator used by both roles:
// the authority steps every body it owns, the observer steps the bodies it
// predicts locally.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Body is a solid sphere. Kinematic bodies are moved by their owner, never
// by the integrator, and behave as infinite mass in contacts.
type Body struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Radius      float64
	Restitution float64
	Mass        float64
	Kinematic   bool

	object *resolv.Object
}

var RigidBody = donburi.NewComponentType[Body]()

// NewBody returns a dynamic sphere at rest at position.
func NewBody(position mgl64.Vec3, radius, restitution, mass float64) Body {
	return Body{
		Position:    position,
		Rotation:    mgl64.QuatIdent(),
		Radius:      radius,
		Restitution: restitution,
		Mass:        mass,
	}
}

// InverseMass is zero for kinematic or massless bodies.
func (b *Body) InverseMass() float64 {
	if b.Kinematic || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// inverseInertia of a solid sphere, I = 2/5 m r².
func (b *Body) inverseInertia() float64 {
	if b.Radius <= 0 {
		return 0
	}
	return b.InverseMass() * 5 / (2 * b.Radius * b.Radius)
}

// ApplyImpulse changes the momentum and angular momentum of the body. It is
// a no-op on kinematic bodies.
func (b *Body) ApplyImpulse(impulse, torque mgl64.Vec3) {
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(b.InverseMass()))
	b.AngularVelocity = b.AngularVelocity.Add(torque.Mul(b.inverseInertia()))
}

// SetPose teleports the body. Used to drive kinematic bodies and to apply
// corrections on the observer.
func (b *Body) SetPose(position mgl64.Vec3, rotation mgl64.Quat) {
	b.Position = position
	b.Rotation = rotation.Normalize()
}

func (b *Body) integrate(gravity mgl64.Vec3, dt float64) {
	b.LinearVelocity = b.LinearVelocity.Add(gravity.Mul(dt))
	b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))

	// dq/dt = ½ (0, ω) q
	spin := mgl64.Quat{W: 0, V: b.AngularVelocity}.Mul(b.Rotation).Scale(0.5 * dt)
	b.Rotation = b.Rotation.Add(spin).Normalize()
}
