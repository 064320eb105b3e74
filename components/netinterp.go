package components

import (
	"github.com/automoto/netphys/shared/gamemath"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// fresh marks a cache that has only seen its spawn sample.
const fresh = -1

// NetRigidBodyCacheData smooths the authoritative samples of one remote
// body. Previous and Latest bracket the rendered pose; Elapsed is the
// simulated time since Latest arrived, or -1 before the first update.
type NetRigidBodyCacheData struct {
	Latest   netcomponents.ServerSimulation
	Previous netcomponents.ServerSimulation
	Elapsed  float64
}

var NetRigidBodyCache = donburi.NewComponentType[NetRigidBodyCacheData]()

// NewNetRigidBodyCache returns a cache holding the spawn sample.
func NewNetRigidBodyCache(spawn netcomponents.ServerSimulation) NetRigidBodyCacheData {
	return NetRigidBodyCacheData{Latest: spawn, Previous: spawn, Elapsed: fresh}
}

// Fresh reports whether no update has been applied since spawn.
func (c *NetRigidBodyCacheData) Fresh() bool {
	return c.Elapsed < 0
}

// Update shifts a newly arrived sample into the cache.
func (c *NetRigidBodyCacheData) Update(sample netcomponents.ServerSimulation) {
	if c.Fresh() {
		c.Previous = sample
	} else {
		c.Previous = c.Latest
	}
	c.Latest = sample
	c.Elapsed = 0
}

// At returns the pose at the current elapsed time without advancing it.
func (c *NetRigidBodyCacheData) At(period float64) (mgl64.Vec3, mgl64.Quat) {
	t := 0.0
	if period > 0 {
		t = gamemath.Clamp01(c.Elapsed / period)
	} else if !c.Fresh() {
		t = 1
	}
	translation := gamemath.Lerp(c.Previous.Translation, c.Latest.Translation, t)
	rotation := gamemath.Slerp(c.Previous.Rotation(), c.Latest.Rotation(), t)
	return translation, rotation
}

// Sample returns the pose for this tick and advances the elapsed time by
// dt. A fresh cache keeps returning the spawn pose.
func (c *NetRigidBodyCacheData) Sample(period, dt float64) (mgl64.Vec3, mgl64.Quat) {
	translation, rotation := c.At(period)
	if !c.Fresh() {
		c.Elapsed += dt
	}
	return translation, rotation
}
