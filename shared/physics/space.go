package physics

import (
	"math"

	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Settings are the integrator parameters shared by both roles.
type Settings struct {
	Gravity  mgl64.Vec3
	Friction float64 // Fraction of contact slip removed per tick, 0..1
	CellSize int
	Extent   float64
}

// restingSpeed is the normal speed below which a floor contact stops
// bouncing. It is above one tick of gravity at common tick rates.
const restingSpeed = 0.5

// Space owns the broad phase. Bodies are projected onto the XZ plane;
// resolv only works with positive coordinates, so everything is shifted
// by half the extent.
type Space struct {
	settings Settings
	space    *resolv.Space
	half     float64
}

// NewSpace builds the broad phase and adds every floor slab of the arena.
func NewSpace(settings Settings, arena *leveldata.Arena) *Space {
	size := int(math.Ceil(settings.Extent))
	s := &Space{
		settings: settings,
		space:    resolv.NewSpace(size, size, settings.CellSize, settings.CellSize),
		half:     settings.Extent / 2,
	}

	for _, floor := range arena.Floors {
		obj := resolv.NewObject(floor.X+s.half, floor.Z+s.half, floor.W, floor.D, tags.ResolvFloor)
		obj.SetShape(resolv.NewRectangle(0, 0, floor.W, floor.D))
		obj.Data = floor
		s.space.Add(obj)
	}

	return s
}

// Attach registers the body of entry with the broad phase.
func (s *Space) Attach(entry *donburi.Entry) {
	b := RigidBody.Get(entry)
	if b.object != nil {
		return
	}
	side := 2 * b.Radius
	b.object = resolv.NewObject(0, 0, side, side, tags.ResolvBody)
	b.object.SetShape(resolv.NewRectangle(0, 0, side, side))
	b.object.Data = entry.Entity()
	s.space.Add(b.object)
	s.sync(b)
}

// Detach removes the body of entry from the broad phase. It must be called
// before the entity is removed from the world.
func (s *Space) Detach(entry *donburi.Entry) {
	if !entry.HasComponent(RigidBody) {
		return
	}
	b := RigidBody.Get(entry)
	if b.object == nil {
		return
	}
	s.space.Remove(b.object)
	b.object = nil
}

// Step advances every attached dynamic body by dt seconds and resolves
// floor and sphere contacts. Kinematic bodies only refresh their broad
// phase footprint.
func (s *Space) Step(world donburi.World, dt float64) {
	var bodies []*Body
	index := make(map[*resolv.Object]int)

	RigidBody.Each(world, func(entry *donburi.Entry) {
		b := RigidBody.Get(entry)
		if b.object == nil {
			return
		}
		if !b.Kinematic {
			b.integrate(s.settings.Gravity, dt)
		}
		s.sync(b)
		index[b.object] = len(bodies)
		bodies = append(bodies, b)
	})

	for _, b := range bodies {
		if !b.Kinematic {
			s.floorContact(b)
		}
	}

	for i, a := range bodies {
		check := a.object.Check(0, 0, tags.ResolvBody)
		if check == nil {
			continue
		}
		for _, obj := range check.ObjectsByTags(tags.ResolvBody) {
			j, ok := index[obj]
			if !ok {
				continue
			}
			b := bodies[j]
			// each dynamic pair once; kinematic partners are never the
			// outer body
			if a.Kinematic || (!b.Kinematic && j < i) {
				continue
			}
			sphereContact(a, b)
		}
	}

	for _, b := range bodies {
		s.sync(b)
	}
}

func (s *Space) sync(b *Body) {
	b.object.X = b.Position[0] - b.Radius + s.half
	b.object.Y = b.Position[2] - b.Radius + s.half
	b.object.Update()
}

// floorUnder finds the slab the body rests on or penetrates. The body
// centre must be over the slab footprint.
func (s *Space) floorUnder(b *Body) (leveldata.FloorRect, bool) {
	check := b.object.Check(0, 0, tags.ResolvFloor)
	if check == nil {
		return leveldata.FloorRect{}, false
	}
	for _, obj := range check.ObjectsByTags(tags.ResolvFloor) {
		floor, ok := obj.Data.(leveldata.FloorRect)
		if !ok || !floor.Contains(b.Position[0], b.Position[2]) {
			continue
		}
		bottom := b.Position[1] - b.Radius
		if bottom <= floor.Top && b.Position[1] >= floor.Top-floor.Thickness {
			return floor, true
		}
	}
	return leveldata.FloorRect{}, false
}

func (s *Space) floorContact(b *Body) {
	floor, ok := s.floorUnder(b)
	if !ok {
		return
	}

	b.Position[1] = floor.Top + b.Radius

	if vn := b.LinearVelocity[1]; vn < 0 {
		if -vn < restingSpeed {
			b.LinearVelocity[1] = 0
		} else {
			b.LinearVelocity[1] = -b.Restitution * vn
		}
	}

	// velocity of the contact point, r = -n·radius
	up := mgl64.Vec3{0, 1, 0}
	contact := b.LinearVelocity.Add(b.AngularVelocity.Cross(up.Mul(-b.Radius)))
	slip := mgl64.Vec3{contact[0], 0, contact[2]}
	if slip.Len() == 0 {
		return
	}

	mu := s.settings.Friction
	b.LinearVelocity = b.LinearVelocity.Sub(slip.Mul(mu * 2 / 7))
	b.AngularVelocity = b.AngularVelocity.Add(up.Cross(slip).Mul(mu * 5 / (7 * b.Radius)))
}

func sphereContact(a, b *Body) {
	invA, invB := a.InverseMass(), b.InverseMass()
	if invA+invB == 0 {
		return
	}

	d := b.Position.Sub(a.Position)
	dist := d.Len()
	penetration := a.Radius + b.Radius - dist
	if penetration <= 0 || dist == 0 {
		return
	}
	n := d.Mul(1 / dist)

	share := penetration / (invA + invB)
	a.Position = a.Position.Sub(n.Mul(share * invA))
	b.Position = b.Position.Add(n.Mul(share * invB))

	vn := b.LinearVelocity.Sub(a.LinearVelocity).Dot(n)
	if vn >= 0 {
		return
	}
	e := math.Min(a.Restitution, b.Restitution)
	j := -(1 + e) * vn / (invA + invB)
	a.LinearVelocity = a.LinearVelocity.Sub(n.Mul(j * invA))
	b.LinearVelocity = b.LinearVelocity.Add(n.Mul(j * invB))
}
