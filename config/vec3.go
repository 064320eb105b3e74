package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a configured 3D vector. YAML accepts either {x, y, z} or
// "x,y,z"; environment variables use the "x,y,z" form.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// UnmarshalText parses "x,y,z".
func (v *Vec3) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 3 {
		return fmt.Errorf("vec3 %q: want 3 comma-separated components", text)
	}
	var out [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("vec3 %q: %w", text, err)
		}
		out[i] = f
	}
	v.X, v.Y, v.Z = out[0], out[1], out[2]
	return nil
}

// Vec returns the vector in simulation form.
func (v Vec3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
