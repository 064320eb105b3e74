// Package leveldata describes the static arena shared by the authority and
// the observer. It holds plain data and does not depend on ebitengine,
// donburi or resolv.
package leveldata

import "github.com/go-gl/mathgl/mgl64"

// Arena holds the floors bodies can rest on and the player spawn points.
type Arena struct {
	Floors      []FloorRect
	SpawnPoints []SpawnPoint
}

// FloorRect is an axis-aligned floor slab. X/Z is the minimum corner of its
// footprint in world units; Top is the height of its upper face.
type FloorRect struct {
	X, Z      float64
	W, D      float64
	Top       float64
	Thickness float64
}

// Contains reports whether the world-space point (x, z) lies over the slab.
func (f FloorRect) Contains(x, z float64) bool {
	return x >= f.X && x <= f.X+f.W && z >= f.Z && z <= f.Z+f.D
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	Position mgl64.Vec3
	Index    int
}

// SingleFloor builds an arena made of one slab of the given size whose
// centre sits at position, with no spawn points.
func SingleFloor(size, position mgl64.Vec3) *Arena {
	return &Arena{
		Floors: []FloorRect{{
			X:         position[0] - size[0]/2,
			Z:         position[2] - size[2]/2,
			W:         size[0],
			D:         size[2],
			Top:       position[1] + size[1]/2,
			Thickness: size[1],
		}},
	}
}

// Spawn returns the n-th spawn point, cycling through the list, or
// fallback when the arena has none.
func (a *Arena) Spawn(n int, fallback mgl64.Vec3) mgl64.Vec3 {
	if a == nil || len(a.SpawnPoints) == 0 {
		return fallback
	}
	if n < 0 {
		n = -n
	}
	return a.SpawnPoints[n%len(a.SpawnPoints)].Position
}
