package netcomponents

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSimulationReturnsActiveCase(t *testing.T) {
	server := NewServerBody(mgl64.Vec3{0, 25, 0}, mgl64.Vec3{})
	predicted := NewPredictedBody(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, mgl64.Vec3{0, 0, -15}, mgl64.Vec3{0, 1, 0})

	sim, err := server.Simulation()
	if err != nil {
		t.Fatalf("server body: %v", err)
	}
	s, ok := sim.(ServerSimulation)
	if !ok {
		t.Fatalf("expected ServerSimulation, got %T", sim)
	}
	if s.Translation != (mgl64.Vec3{0, 25, 0}) {
		t.Fatalf("expected translation (0, 25, 0), got %v", s.Translation)
	}

	sim, err = predicted.Simulation()
	if err != nil {
		t.Fatalf("predicted body: %v", err)
	}
	p, ok := sim.(ClientPrediction)
	if !ok {
		t.Fatalf("expected ClientPrediction, got %T", sim)
	}
	if p.LinearVelocity != (mgl64.Vec3{0, 0, -15}) {
		t.Fatalf("expected linear velocity (0, 0, -15), got %v", p.LinearVelocity)
	}
}

func TestSimulationRejectsMalformedBodies(t *testing.T) {
	both := NetRigidBodyData{Server: &ServerSimulation{}, Predicted: &ClientPrediction{}}
	for name, body := range map[string]NetRigidBodyData{"neither": {}, "both": both} {
		if _, err := body.Simulation(); !errors.Is(err, ErrMalformedBody) {
			t.Errorf("%s: expected ErrMalformedBody, got %v", name, err)
		}
		if body.CaseName() != "malformed" {
			t.Errorf("%s: expected case name malformed, got %q", name, body.CaseName())
		}
	}
}

func TestSameCase(t *testing.T) {
	a := NewServerBody(mgl64.Vec3{}, mgl64.Vec3{})
	b := NewServerBody(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0.5, 0, 0})
	c := NewPredictedBody(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})

	if !a.SameCase(b) {
		t.Errorf("expected two server bodies to share a case")
	}
	if a.SameCase(c) || c.SameCase(a) {
		t.Errorf("expected server and predicted bodies to differ")
	}
	if a.CaseName() != "server" || c.CaseName() != "predicted" {
		t.Errorf("unexpected case names %q, %q", a.CaseName(), c.CaseName())
	}
}

func TestPoseAndRotation(t *testing.T) {
	s := ServerSimulation{Translation: mgl64.Vec3{1, 2, 3}, Euler: mgl64.Vec3{0, 0, 0}}
	tr, eu := s.Pose()
	if tr != s.Translation || eu != s.Euler {
		t.Fatalf("expected pose to echo the fields, got %v %v", tr, eu)
	}
	if q := s.Rotation(); !q.ApproxEqual(mgl64.QuatIdent()) {
		t.Fatalf("expected identity rotation, got %v", q)
	}
}
