// Package gamemath holds the math shared by the authority and the observer.
// Rotations travel as XYZ Euler angles and are simulated as unit quaternions.
package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gimbalLimit is how close |sin(pitch)| may get to 1 before the Y angle is
// treated as ±π/2 and the Z angle is folded into X.
const gimbalLimit = 1 - 1e-9

// EulerToQuat converts XYZ Euler angles (radians) into the rotation
// Rx(e.x)·Ry(e.y)·Rz(e.z).
func EulerToQuat(euler mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(euler[0], euler[1], euler[2], mgl64.XYZ).Normalize()
}

// QuatToEuler is the inverse of EulerToQuat. The Y angle is in [-π/2, π/2].
// At the gimbal singularity the returned triple describes the same rotation
// with Z = 0, so angles → rotation → angles is only guaranteed to
// reproduce the rotation, not the triple.
func QuatToEuler(q mgl64.Quat) mgl64.Vec3 {
	q = q.Normalize()
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	m00 := 1 - 2*(y*y+z*z)
	m01 := 2 * (x*y - w*z)
	m02 := 2 * (x*z + w*y)
	m11 := 1 - 2*(x*x+z*z)
	m12 := 2 * (y*z - w*x)
	m21 := 2 * (y*z + w*x)
	m22 := 1 - 2*(x*x+y*y)

	sinY := math.Max(-1, math.Min(1, m02))
	if math.Abs(sinY) >= gimbalLimit {
		return mgl64.Vec3{math.Atan2(m21, m11), math.Asin(sinY), 0}
	}
	return mgl64.Vec3{
		math.Atan2(-m12, m22),
		math.Asin(sinY),
		math.Atan2(-m01, m00),
	}
}

// SameRotation reports whether a and b describe the same orientation within
// eps, treating q and -q as equal.
func SameRotation(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(a.Normalize().Dot(b.Normalize())) >= 1-eps
}
