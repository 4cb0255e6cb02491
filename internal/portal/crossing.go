package portal

import (
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Crossing describes one teleport through the pair.
type Crossing struct {
	Source      *Plane
	Destination *Plane
	From        string
	To          string
	// Pose is the actor's camera pose on the destination side.
	Pose Pose
	// Rotation maps directions on the source side to the destination side.
	Rotation rl.Quaternion
}

// Detector tests the camera's movement segment each tick.
type Detector struct {
	previous rl.Vector3
	primed   bool
	count    int
}

// Reset makes position the start of the next tick's segment.
func (d *Detector) Reset(position rl.Vector3) {
	d.previous = position
	d.primed = true
}

func (d *Detector) Previous() rl.Vector3 { return d.previous }

// Count is the number of crossings fired since start-up.
func (d *Detector) Count() int { return d.count }

// Detect runs one tick. On a crossing it swaps link, moves the new local camera
// and returns the event. It fires at most once per call.
func (d *Detector) Detect(link *Link) (Crossing, bool) {
	if link == nil {
		return Crossing{}, false
	}

	camera := link.Local.Camera()
	current := camera.Position
	if !d.primed {
		d.Reset(current)
		return Crossing{}, false
	}

	prev := d.previous
	if rl.Vector3Equals(prev, current) {
		return Crossing{}, false
	}

	travel := rl.Vector3Subtract(current, prev)
	length := rl.Vector3Length(travel)
	hit, ok := link.Local.Scene().Cast(prev, rl.Vector3Scale(travel, 1/length))
	if !ok || hit.Distance > length {
		d.previous = current
		return Crossing{}, false
	}

	source, owned := link.Owns(hit.Node)
	if !owned {
		d.previous = current
		return Crossing{}, false
	}
	if _, tagged := SurfaceDestination(hit.Node.Tag()); !tagged {
		d.previous = current
		return Crossing{}, false
	}
	dest := link.Other(source)

	corrected := Mirror(prev, source.Position, source.Normal())
	pose := ComposePose(Pose{Position: corrected, Rotation: camera.Rotation}, source.Pose(), dest.Pose())

	crossing := Crossing{
		Source:      source,
		Destination: dest,
		From:        link.Local.ID(),
		To:          link.Remote.ID(),
		Pose:        pose,
		Rotation:    rl.QuaternionNormalize(rl.QuaternionMultiply(dest.Rotation, rl.QuaternionInvert(source.Rotation))),
	}

	link.Swap()
	camera.Pose = pose
	link.Local.SetCamera(camera)
	link.RefreshRemoteCamera()

	d.previous = pose.Position
	d.count++

	utils.Debug("Portal: crossed %s -> %s at (%.2f, %.2f, %.2f)", crossing.From, crossing.To,
		pose.Position.X, pose.Position.Y, pose.Position.Z)
	return crossing, true
}
