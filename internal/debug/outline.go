package debug

import (
	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (d *Overlay) getOutlineToggleRect() rl.Rectangle {
	return rl.NewRectangle(
		10,
		float32(d.tabHeight+5),
		float32(d.sidebarWidth-20),
		20,
	)
}

func (d *Overlay) drawOutlineToggle() {
	rect := d.getOutlineToggleRect()

	boxSize := float32(d.fontHeight) * 1.2
	boxX := rect.X
	boxY := rect.Y + (rect.Height-boxSize)/2

	rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxSize), int32(boxSize), rl.White)
	if d.ShowPlaneOutlines {
		rl.DrawRectangle(int32(boxX+2), int32(boxY+2), int32(boxSize-4), int32(boxSize-4), rl.White)
	}

	d.DrawText("Show Portal Outlines", int32(boxX+boxSize+10), int32(boxY), int32(d.fontHeight), rl.White)
}

// PlaneCorners returns the four rim corners of p in world space, wound
// counter-clockwise when seen from the front.
func PlaneCorners(p *portal.Plane) [4]rl.Vector3 {
	right := rl.Vector3Scale(portal.Right(p.Rotation), p.HalfExtents.X)
	up := rl.Vector3Scale(portal.Up(p.Rotation), p.HalfExtents.Y)
	return [4]rl.Vector3{
		rl.Vector3Subtract(rl.Vector3Subtract(p.Position, right), up),
		rl.Vector3Subtract(rl.Vector3Add(p.Position, right), up),
		rl.Vector3Add(rl.Vector3Add(p.Position, right), up),
		rl.Vector3Add(rl.Vector3Subtract(p.Position, right), up),
	}
}

// inFront reports whether point lies ahead of the camera's near side.
func inFront(camera portal.Camera, point rl.Vector3) bool {
	return rl.Vector3DotProduct(rl.Vector3Subtract(point, camera.Position), camera.Forward()) > 0.05
}

// drawPlaneOutlines projects the live planes of the active scene to the
// screen. Planes with a corner behind the camera are skipped.
func (d *Overlay) drawPlaneOutlines(camera portal.Camera, planes []*portal.Plane, scene string) {
	cam := rl.Camera3D{
		Position:   camera.Position,
		Target:     camera.Target(),
		Up:         camera.Up(),
		Fovy:       camera.Fovy,
		Projection: rl.CameraPerspective,
	}
	for _, p := range planes {
		if !p.Active() || p.Scene().ID() != scene {
			continue
		}
		corners := PlaneCorners(p)
		visible := true
		for _, c := range corners {
			if !inFront(camera, c) {
				visible = false
				break
			}
		}
		if !visible {
			continue
		}

		var screen [4]rl.Vector2
		for i, c := range corners {
			screen[i] = rl.GetWorldToScreen(c, cam)
		}
		for i := range screen {
			rl.DrawLineEx(screen[i], screen[(i+1)%4], 2, rl.NewColor(0, 255, 255, 255))
		}
		centre := rl.GetWorldToScreen(p.Position, cam)
		rl.DrawRectangle(int32(centre.X-2), int32(centre.Y-2), 4, 4, rl.Red)
		d.DrawText(p.Name+" -> "+p.Destination(), int32(screen[3].X), int32(screen[3].Y)-int32(d.fontHeight)-2, int32(d.fontHeight), rl.NewColor(0, 255, 255, 255))
	}
}
