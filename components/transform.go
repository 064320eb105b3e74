package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// TransformData is the smoothed pose rendered by the observer.
type TransformData struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

var Transform = donburi.NewComponentType[TransformData]()
