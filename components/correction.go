package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// CorrectionData blends the error between a predicted body and the latest
// authoritative sample out over a few ticks.
type CorrectionData struct {
	Offset   mgl64.Vec3
	Rotation mgl64.Quat

	tween     *gween.Tween
	remaining float32
}

var Correction = donburi.NewComponentType[CorrectionData]()

// Start replaces any running blend with a new one covering offset and
// rotation over duration seconds.
func (c *CorrectionData) Start(offset mgl64.Vec3, rotation mgl64.Quat, duration float64) {
	c.Offset = offset
	c.Rotation = rotation
	c.remaining = 1
	c.tween = gween.New(1, 0, float32(duration), ease.OutQuad)
}

// Stop drops whatever is left of the running blend.
func (c *CorrectionData) Stop() {
	c.tween = nil
	c.remaining = 0
	c.Offset = mgl64.Vec3{}
	c.Rotation = mgl64.QuatIdent()
}

// Active reports whether part of the error is still to be applied.
func (c *CorrectionData) Active() bool {
	return c.tween != nil
}

// Step returns the share of the error to apply this tick. The shares of
// all steps of one blend sum to the full offset and rotation.
func (c *CorrectionData) Step(dt float64) (mgl64.Vec3, mgl64.Quat) {
	if c.tween == nil {
		return mgl64.Vec3{}, mgl64.QuatIdent()
	}

	next, done := c.tween.Update(float32(dt))
	if done || next <= 0 {
		next = 0
	}

	k := 1.0
	if c.remaining > 0 {
		k = 1 - float64(next/c.remaining)
	}

	offset := c.Offset.Mul(k)
	rotation := mgl64.QuatSlerp(mgl64.QuatIdent(), c.Rotation, k)

	c.Offset = c.Offset.Sub(offset)
	c.Rotation = mgl64.QuatSlerp(mgl64.QuatIdent(), c.Rotation, 1-k)
	c.remaining = next
	if next == 0 {
		c.Stop()
	}
	return offset, rotation
}
