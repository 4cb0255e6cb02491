package engine3D

import (
	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ToCamera3D converts a posed camera into raylib's look-at form.
func ToCamera3D(camera portal.Camera) rl.Camera3D {
	fovy := camera.Fovy
	if fovy <= 0 {
		fovy = 70
	}
	return rl.Camera3D{
		Position:   camera.Position,
		Target:     camera.Target(),
		Up:         camera.Up(),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}
