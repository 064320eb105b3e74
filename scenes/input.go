package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ActionID represents a logical observer action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionFire
	ActionForce
	ActionToggleGizmos
)

// InputBinding represents the keys and buttons bound to an action
type InputBinding struct {
	Keys                   []ebiten.Key
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

var bindings = map[ActionID]InputBinding{
	ActionFire: {
		Keys:                   []ebiten.Key{ebiten.KeyF, ebiten.KeySpace},
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom},
	},
	ActionForce: {
		Keys:                   []ebiten.Key{ebiten.KeyG},
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightRight},
	},
	ActionToggleGizmos: {
		Keys:                   []ebiten.Key{ebiten.KeyTab},
		StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonCenterLeft},
	},
}

var gamepadIDs []ebiten.GamepadID

// justPressed reports whether any binding of action went down this tick.
func justPressed(action ActionID) bool {
	b := bindings[action]
	for _, k := range b.Keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}

	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])
	for _, id := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, btn := range b.StandardGamepadButtons {
			if inpututil.IsStandardGamepadButtonJustPressed(id, btn) {
				return true
			}
		}
	}
	return false
}
