package leveldata

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lafriks/go-tiled"
)

//go:embed arenas/*.tmx
var builtin embed.FS

// BuiltinPrefix selects an arena shipped inside the binary, e.g.
// "builtin/pillars.tmx".
const BuiltinPrefix = "builtin/"

// Object group and property names read from TMX maps. The map is a
// top-down view: object x maps to world X, object y to world Z, both
// measured from the map centre.
const (
	groupFloor       = "Floor"
	groupPlayerSpawn = "PlayerSpawn"
	propTop          = "top"
	propThickness    = "thickness"
	propHeight       = "height"
	propSpawnIndex   = "spawnIndex"
)

// LoadArena parses a TMX file from fsys. It takes an fs.FS so callers can
// pass the embedded arenas or os.DirFS.
func LoadArena(fsys fs.FS, tmxPath string) (*Arena, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	originX := float64(levelMap.Width*levelMap.TileWidth) / 2
	originZ := float64(levelMap.Height*levelMap.TileHeight) / 2

	arena := &Arena{}
	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case groupFloor:
			for _, o := range og.Objects {
				top, err := floatProperty(o.Properties, propTop, 0)
				if err != nil {
					return nil, fmt.Errorf("%s: floor %d: %w", tmxPath, o.ID, err)
				}
				thickness, err := floatProperty(o.Properties, propThickness, 1)
				if err != nil {
					return nil, fmt.Errorf("%s: floor %d: %w", tmxPath, o.ID, err)
				}
				arena.Floors = append(arena.Floors, FloorRect{
					X:         o.X - originX,
					Z:         o.Y - originZ,
					W:         o.Width,
					D:         o.Height,
					Top:       top,
					Thickness: thickness,
				})
			}
		case groupPlayerSpawn:
			for _, o := range og.Objects {
				height, err := floatProperty(o.Properties, propHeight, 0)
				if err != nil {
					return nil, fmt.Errorf("%s: spawn %d: %w", tmxPath, o.ID, err)
				}
				arena.SpawnPoints = append(arena.SpawnPoints, SpawnPoint{
					Position: mgl64.Vec3{o.X - originX, height, o.Y - originZ},
					Index:    o.Properties.GetInt(propSpawnIndex),
				})
			}
		}
	}

	if len(arena.Floors) == 0 {
		return nil, fmt.Errorf("%s: no objects in %q group", tmxPath, groupFloor)
	}

	sort.SliceStable(arena.SpawnPoints, func(i, j int) bool {
		return arena.SpawnPoints[i].Index < arena.SpawnPoints[j].Index
	})

	return arena, nil
}

// Load returns the arena at path, or a single slab of floorSize centred on
// floorPosition when path is empty.
func Load(path string, floorSize, floorPosition mgl64.Vec3) (*Arena, error) {
	if path == "" {
		return SingleFloor(floorSize, floorPosition), nil
	}
	return Resolve(path)
}

// Resolve loads the arena named by path: a builtin arena when path starts
// with BuiltinPrefix, a file on disk otherwise.
func Resolve(path string) (*Arena, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		return LoadArena(builtin, "arenas/"+name)
	}
	return LoadArena(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// BuiltinNames lists the arenas shipped inside the binary, sorted.
func BuiltinNames() ([]string, error) {
	matches, err := fs.Glob(builtin, "arenas/*.tmx")
	if err != nil {
		return nil, fmt.Errorf("glob builtin arenas: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, BuiltinPrefix+filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

func floatProperty(props tiled.Properties, name string, fallback float64) (float64, error) {
	raw := props.GetString(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}
	return v, nil
}
