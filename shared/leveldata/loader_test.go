package leveldata

import (
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl64"
)

func TestResolveBuiltinArena(t *testing.T) {
	arena, err := Resolve(BuiltinPrefix + "pillars.tmx")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(arena.Floors) != 2 {
		t.Fatalf("expected 2 floors, got %d", len(arena.Floors))
	}
	// map is 80x80, so the origin sits at (40, 40)
	main := arena.Floors[0]
	if main.X != -30 || main.Z != -15 || main.W != 60 || main.D != 30 || main.Top != 0 {
		t.Errorf("unexpected main floor %+v", main)
	}
	if raised := arena.Floors[1]; raised.Top != 4 || raised.Thickness != 2 {
		t.Errorf("unexpected raised floor %+v", raised)
	}

	if len(arena.SpawnPoints) != 3 {
		t.Fatalf("expected 3 spawn points, got %d", len(arena.SpawnPoints))
	}
	if got := arena.SpawnPoints[0].Position; got != (mgl64.Vec3{-20, 25, 0}) {
		t.Errorf("expected first spawn at -20,25,0, got %v", got)
	}
	if got := arena.SpawnPoints[2].Position; got != (mgl64.Vec3{0, 30, -28}) {
		t.Errorf("expected third spawn at 0,30,-28, got %v", got)
	}
}

func TestLoadArenaRequiresFloor(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.tmx": {Data: []byte(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="10" height="10" tilewidth="1" tileheight="1" infinite="0">
 <objectgroup id="1" name="PlayerSpawn">
  <object id="1" x="5" y="5"><point/></object>
 </objectgroup>
</map>`)},
	}

	if _, err := LoadArena(fsys, "empty.tmx"); err == nil {
		t.Fatalf("expected error for an arena without floors")
	}
}

func TestLoadArenaRejectsBadProperty(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.tmx": {Data: []byte(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="10" height="10" tilewidth="1" tileheight="1" infinite="0">
 <objectgroup id="1" name="Floor">
  <object id="1" x="0" y="0" width="10" height="10">
   <properties><property name="top" value="high"/></properties>
  </object>
 </objectgroup>
</map>`)},
	}

	if _, err := LoadArena(fsys, "bad.tmx"); err == nil {
		t.Fatalf("expected error for a non-numeric top")
	}
}

func TestSingleFloor(t *testing.T) {
	arena := SingleFloor(mgl64.Vec3{60, 1, 60}, mgl64.Vec3{0, -0.5, 0})
	f := arena.Floors[0]
	if f.X != -30 || f.Z != -30 || f.Top != 0 || f.Thickness != 1 {
		t.Fatalf("unexpected floor %+v", f)
	}
	if !f.Contains(29, -29) || f.Contains(31, 0) {
		t.Fatalf("unexpected footprint for %+v", f)
	}
}

func TestSpawnCycles(t *testing.T) {
	fallback := mgl64.Vec3{0, 25, 0}
	if got := SingleFloor(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}).Spawn(3, fallback); got != fallback {
		t.Fatalf("expected fallback without spawn points, got %v", got)
	}

	arena := &Arena{SpawnPoints: []SpawnPoint{
		{Position: mgl64.Vec3{1, 0, 0}},
		{Position: mgl64.Vec3{2, 0, 0}},
	}}
	if got := arena.Spawn(3, fallback); got != (mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("expected second spawn point, got %v", got)
	}
}

func TestBuiltinNames(t *testing.T) {
	names, err := BuiltinNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "builtin/pillars.tmx" {
		t.Fatalf("expected builtin/pillars.tmx, got %v", names)
	}
}

func TestLoadWithoutPathUsesSingleFloor(t *testing.T) {
	arena, err := Load("", mgl64.Vec3{60, 1, 60}, mgl64.Vec3{0, -0.5, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(arena.Floors) != 1 || arena.Floors[0].Top != 0 {
		t.Fatalf("expected one slab with its top at 0, got %+v", arena.Floors)
	}
}
