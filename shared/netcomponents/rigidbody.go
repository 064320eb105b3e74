package netcomponents

import (
	"errors"
	"fmt"

	"github.com/automoto/netphys/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

var (
	// ErrMalformedBody is returned for a NetRigidBodyData with both or
	// neither simulation case set.
	ErrMalformedBody = errors.New("net rigid body: exactly one simulation case must be set")

	// ErrVariantMismatch is returned when a body is handed to code that only
	// supports the other simulation case, or when an entity's case changes.
	ErrVariantMismatch = errors.New("net rigid body: simulation case mismatch")
)

// Simulation is the closed set of simulation cases. Only ServerSimulation
// and ClientPrediction implement it; consume it with an exhaustive type
// switch.
type Simulation interface {
	simulation()
	Pose() (translation, euler mgl64.Vec3)
}

// ServerSimulation is a body whose motion is decided by the authority.
// Observers never integrate it; they only render interpolated samples.
type ServerSimulation struct {
	Translation mgl64.Vec3
	Euler       mgl64.Vec3 // XYZ, radians
}

// ClientPrediction is a body every observer integrates locally, using the
// transmitted velocities as the seed and the pose as a correction target.
type ClientPrediction struct {
	Translation     mgl64.Vec3
	Euler           mgl64.Vec3 // XYZ, radians
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

func (ServerSimulation) simulation() {}
func (ClientPrediction) simulation() {}

func (s ServerSimulation) Pose() (mgl64.Vec3, mgl64.Vec3) { return s.Translation, s.Euler }
func (p ClientPrediction) Pose() (mgl64.Vec3, mgl64.Vec3) { return p.Translation, p.Euler }

// Rotation returns the sample's orientation as a unit quaternion.
func (s ServerSimulation) Rotation() mgl64.Quat { return gamemath.EulerToQuat(s.Euler) }

// Rotation returns the sample's orientation as a unit quaternion.
func (p ClientPrediction) Rotation() mgl64.Quat { return gamemath.EulerToQuat(p.Euler) }

// NetRigidBodyData is the replicated state of one physics body. Exactly one
// of Server and Predicted is non-nil, and which one never changes over the
// entity's lifetime.
type NetRigidBodyData struct {
	Server    *ServerSimulation
	Predicted *ClientPrediction
}

var NetRigidBody = donburi.NewComponentType[NetRigidBodyData]()

// NewServerBody wraps an authoritative sample.
func NewServerBody(translation, euler mgl64.Vec3) NetRigidBodyData {
	return NetRigidBodyData{Server: &ServerSimulation{Translation: translation, Euler: euler}}
}

// NewPredictedBody wraps a predicted sample.
func NewPredictedBody(translation, euler, linear, angular mgl64.Vec3) NetRigidBodyData {
	return NetRigidBodyData{Predicted: &ClientPrediction{
		Translation:     translation,
		Euler:           euler,
		LinearVelocity:  linear,
		AngularVelocity: angular,
	}}
}

// Simulation returns the active case.
func (d NetRigidBodyData) Simulation() (Simulation, error) {
	switch {
	case d.Server != nil && d.Predicted == nil:
		return *d.Server, nil
	case d.Predicted != nil && d.Server == nil:
		return *d.Predicted, nil
	}
	return nil, ErrMalformedBody
}

// SameCase reports whether d and other carry the same simulation case.
func (d NetRigidBodyData) SameCase(other NetRigidBodyData) bool {
	return (d.Server != nil) == (other.Server != nil) && (d.Predicted != nil) == (other.Predicted != nil)
}

// CaseName names the active case for logs.
func (d NetRigidBodyData) CaseName() string {
	sim, err := d.Simulation()
	if err != nil {
		return "malformed"
	}
	switch sim.(type) {
	case ServerSimulation:
		return "server"
	case ClientPrediction:
		return "predicted"
	}
	panic(fmt.Sprintf("unhandled simulation case %T", sim))
}
