package main

import (
	"math"

	"portalscene/internal/engine3D"
	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	eyeHeight       = 1.6
	walkSpeed       = 3.0
	actorRadius     = 0.25
	lookSensitivity = 0.0025
	maxPitch        = 1.4
)

// Player is the first-person controller. Its XZ position lives in the
// chipmunk body; height is fixed at eye level.
type Player struct {
	Yaw   float32
	Pitch float32
	Speed float32

	actor *engine3D.Actor
}

func NewPlayer(yaw float32) *Player {
	return &Player{
		Yaw:   yaw,
		Speed: walkSpeed,
		actor: engine3D.NewActor(actorRadius),
	}
}

// Place drops the player into scene at (x, z).
func (p *Player) Place(scene *engine3D.Scene, x, z float32) {
	p.actor.Enter(scene.Physics(), x, z)
	p.actor.SetVelocity(0, 0)
}

func (p *Player) Position() rl.Vector3 {
	x, z := p.actor.Position()
	return rl.NewVector3(x, eyeHeight, z)
}

// Look turns by a mouse delta in pixels.
func (p *Player) Look(dx, dy float32) {
	p.Yaw -= dx * lookSensitivity
	p.Pitch -= dy * lookSensitivity
	if p.Pitch > maxPitch {
		p.Pitch = maxPitch
	}
	if p.Pitch < -maxPitch {
		p.Pitch = -maxPitch
	}
	p.Yaw = wrapAngle(p.Yaw)
}

// Heading is the horizontal look direction.
func (p *Player) Heading() rl.Vector3 {
	s, c := math.Sincos(float64(p.Yaw))
	return rl.NewVector3(float32(s), 0, float32(c))
}

// Move sets the walking velocity from forward/strafe input in [-1, 1].
// Positive strafe walks to the right of the heading.
func (p *Player) Move(forward, strafe float32) {
	heading := p.Heading()
	right := rl.Vector3CrossProduct(heading, rl.NewVector3(0, 1, 0))
	dir := rl.Vector3Add(rl.Vector3Scale(heading, forward), rl.Vector3Scale(right, strafe))
	if rl.Vector3Length(dir) > 1 {
		dir = rl.Vector3Normalize(dir)
	}
	dir = rl.Vector3Scale(dir, p.Speed)
	p.actor.SetVelocity(dir.X, dir.Z)
}

// Rotation is yaw about +Y applied after pitch about +X. Positive pitch looks up.
func (p *Player) Rotation() rl.Quaternion {
	yaw := rl.QuaternionFromAxisAngle(rl.NewVector3(0, 1, 0), p.Yaw)
	pitch := rl.QuaternionFromAxisAngle(rl.NewVector3(1, 0, 0), -p.Pitch)
	return rl.QuaternionNormalize(rl.QuaternionMultiply(yaw, pitch))
}

func (p *Player) Pose() portal.Pose {
	return portal.Pose{Position: p.Position(), Rotation: p.Rotation()}
}

// Transfer carries the player through a crossing into scene.
func (p *Player) Transfer(scene *engine3D.Scene, c portal.Crossing) {
	p.actor.Transfer(scene.Physics(), c.Pose.Position, c.Rotation)
	p.Yaw = wrapAngle(p.Yaw + yawOf(c.Rotation))
}

// yawOf is the heading of q's forward axis about +Y, in radians.
func yawOf(q rl.Quaternion) float32 {
	f := portal.Forward(q)
	return float32(math.Atan2(float64(f.X), float64(f.Z)))
}

func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
