package core

import (
	"errors"
	"testing"

	"github.com/automoto/netphys/shared/gamemath"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/go-gl/mathgl/mgl64"
)

func movingBody() physics.Body {
	b := physics.NewBody(mgl64.Vec3{1, 2, 3}, 1, 0.5, 1)
	b.Rotation = gamemath.EulerToQuat(mgl64.Vec3{0.1, 0.2, 0.3})
	b.LinearVelocity = mgl64.Vec3{4, 5, 6}
	b.AngularVelocity = mgl64.Vec3{0, 1, 0}
	return b
}

func TestWriteBodyKeepsServerCase(t *testing.T) {
	b := movingBody()
	state := netcomponents.NewServerBody(mgl64.Vec3{}, mgl64.Vec3{})
	server := state.Server

	if err := WriteBody(&b, &state); err != nil {
		t.Fatal(err)
	}
	if state.Server != server || state.Predicted != nil {
		t.Fatalf("expected the existing case to be written in place")
	}
	if state.Server.Translation != b.Position {
		t.Fatalf("expected translation %v, got %v", b.Position, state.Server.Translation)
	}
	if !gamemath.SameRotation(gamemath.EulerToQuat(state.Server.Euler), b.Rotation, 1e-12) {
		t.Fatalf("expected euler %v to describe the body rotation", state.Server.Euler)
	}
}

func TestWriteBodyKeepsPredictedCase(t *testing.T) {
	b := movingBody()
	state := netcomponents.NewPredictedBody(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})

	if err := WriteBody(&b, &state); err != nil {
		t.Fatal(err)
	}
	if state.Server != nil {
		t.Fatalf("expected no authoritative case")
	}
	if state.Predicted.LinearVelocity != b.LinearVelocity || state.Predicted.AngularVelocity != b.AngularVelocity {
		t.Fatalf("expected velocities to be written, got %+v", state.Predicted)
	}
}

func TestWriteBodyRejectsMalformed(t *testing.T) {
	b := movingBody()
	state := netcomponents.NetRigidBodyData{}
	if err := WriteBody(&b, &state); !errors.Is(err, netcomponents.ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestWriterPanicsOnMalformedBody(t *testing.T) {
	s, _ := newTestServer(t, nil)
	entry := s.world.Entry(s.world.Create(physics.RigidBody, netcomponents.NetRigidBody))
	physics.RigidBody.SetValue(entry, movingBody())

	defer func() {
		if recover() == nil {
			t.Fatalf("expected the writer to panic")
		}
	}()
	s.writeBodies()
}
