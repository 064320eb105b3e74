package gamemath

import "github.com/go-gl/mathgl/mgl64"

// Clamp01 clamps t to [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Lerp interpolates linearly from a to b. t = 0 and t = 1 return the
// endpoints exactly.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return a.Add(b.Sub(a).Mul(t))
}

// Slerp interpolates spherically from a to b along the shorter arc, so the
// angular velocity is constant and never exceeds π. t = 0 and t = 1 return
// the endpoints exactly.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t)
}
