package scenes

import (
	"fmt"
	"image/color"

	"github.com/automoto/netphys/network"
	"github.com/automoto/netphys/shared/leveldata"
	"github.com/automoto/netphys/shared/netcomponents"
	"github.com/automoto/netphys/shared/physics"
	"github.com/automoto/netphys/systems"
	"github.com/automoto/netphys/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// Top-down view: world X to the right, world Z down, origin centred.
const (
	ScreenWidth   = 800
	ScreenHeight  = 800
	pixelsPerUnit = 10
)

var (
	colorBackground = color.RGBA{0x10, 0x10, 0x18, 0xff}
	colorFloor      = color.RGBA{0x30, 0x34, 0x40, 0xff}
	colorPlayer     = color.RGBA{0x4a, 0x90, 0xe2, 0xff}
	colorProjectile = color.RGBA{0xe2, 0x8a, 0x4a, 0xff}
	colorOwn        = color.RGBA{0x7e, 0xd3, 0x21, 0xff}
	colorOrphan     = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorGizmo      = color.RGBA{0xff, 0x30, 0x60, 0xff}
	colorHeading    = color.White
)

func toScreen(x, z float64) (float32, float32) {
	return float32(ScreenWidth/2 + x*pixelsPerUnit), float32(ScreenHeight/2 + z*pixelsPerUnit)
}

func drawArena(screen *ebiten.Image, arena *leveldata.Arena) {
	screen.Fill(colorBackground)
	for _, f := range arena.Floors {
		x, y := toScreen(f.X, f.Z)
		vector.DrawFilledRect(screen, x, y, float32(f.W*pixelsPerUnit), float32(f.D*pixelsPerUnit), colorFloor, false)
	}
}

func bodyColor(entry *donburi.Entry, own netcomponents.SessionID) color.Color {
	switch {
	case entry.HasComponent(tags.Player):
		session := netcomponents.NetSession.Get(entry).Session
		if session == netcomponents.NoSession {
			return colorOrphan
		}
		if session == own {
			return colorOwn
		}
		return colorPlayer
	case entry.HasComponent(tags.Projectile):
		session := netcomponents.ProjectileOwner.Get(entry).Session
		if session == netcomponents.NoSession {
			return colorOrphan
		}
		if session == own {
			return colorOwn
		}
		return colorProjectile
	}
	return colorOrphan
}

func drawBodies(screen *ebiten.Image, world donburi.World, own netcomponents.SessionID, gizmos bool) {
	esync.NetworkEntityQuery.Each(world, func(entry *donburi.Entry) {
		rendered, replicated, ok := systems.Pose(entry)
		if !ok || !entry.HasComponent(physics.RigidBody) {
			return
		}
		radius := physics.RigidBody.Get(entry).Radius

		cx, cy := toScreen(rendered.Translation.X(), rendered.Translation.Z())
		// higher bodies are drawn larger
		scale := float32(1 + rendered.Translation.Y()/50)
		if scale < 0.2 {
			scale = 0.2
		}
		r := float32(radius*pixelsPerUnit) * scale
		vector.DrawFilledCircle(screen, cx, cy, r, bodyColor(entry, own), true)

		heading := rendered.Rotation.Rotate(mgl64.Vec3{radius, 0, 0})
		hx, hy := toScreen(rendered.Translation.X()+heading.X(), rendered.Translation.Z()+heading.Z())
		vector.StrokeLine(screen, cx, cy, hx, hy, 1, colorHeading, true)

		if gizmos {
			gx, gy := toScreen(replicated.X(), replicated.Z())
			vector.StrokeCircle(screen, gx, gy, r, 1, colorGizmo, true)
			vector.StrokeLine(screen, cx, cy, gx, gy, 1, colorGizmo, true)
		}
	})
}

func drawHUD(screen *ebiten.Image, client *network.Client, world donburi.World) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"session %d  entities %d  dropped snapshots %d  tps %.0f\nF/Space fire  G force  Tab gizmos",
		client.Session(), esync.NetworkEntityQuery.Count(world), client.Dropped(), ebiten.ActualTPS()))
}
