package core

import (
	"fmt"

	"github.com/automoto/netphys/shared/gamemath"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var replicatedBodies = donburi.NewQuery(filter.Contains(
	physics.RigidBody,
	netcomponents.NetRigidBody,
))

// writeBodies copies the integrator output into the replicated state of
// every body.
func (s *Server) writeBodies() {
	replicatedBodies.Each(s.world, func(entry *donburi.Entry) {
		if err := WriteBody(physics.RigidBody.Get(entry), netcomponents.NetRigidBody.Get(entry)); err != nil {
			panic(fmt.Sprintf("entity %v: %v", entry.Entity(), err))
		}
	})
}

// WriteBody overwrites the fields of the case state already holds with the
// pose, and for predicted bodies the velocities, of b. The case itself is
// never changed.
func WriteBody(b *physics.Body, state *netcomponents.NetRigidBodyData) error {
	sim, err := state.Simulation()
	if err != nil {
		return err
	}

	euler := gamemath.QuatToEuler(b.Rotation)
	switch sim.(type) {
	case netcomponents.ServerSimulation:
		state.Server.Translation = b.Position
		state.Server.Euler = euler
	case netcomponents.ClientPrediction:
		state.Predicted.Translation = b.Position
		state.Predicted.Euler = euler
		state.Predicted.LinearVelocity = b.LinearVelocity
		state.Predicted.AngularVelocity = b.AngularVelocity
	}
	return nil
}
