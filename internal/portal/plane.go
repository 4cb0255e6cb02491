package portal

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// SlabDepth is the thickness of a plane's cast and draw box.
const SlabDepth = 0.01

// Parked positions keep inactive planes far below every playable volume.
var (
	ParkedEntry = rl.NewVector3(0, -10000, 0)
	ParkedExit  = rl.NewVector3(5, -10000, 5)
)

// Plane is one oriented rectangular portal surface.
type Plane struct {
	Name        string
	Position    rl.Vector3
	Rotation    rl.Quaternion
	HalfExtents rl.Vector2

	tag    Tag
	scene  Scene
	parked rl.Vector3
}

func NewPlane(name string, halfExtents rl.Vector2, parked rl.Vector3) *Plane {
	return &Plane{
		Name:        name,
		Position:    parked,
		Rotation:    rl.QuaternionIdentity(),
		HalfExtents: halfExtents,
		parked:      parked,
	}
}

func (p *Plane) Pose() Pose { return Pose{Position: p.Position, Rotation: p.Rotation} }

func (p *Plane) Scale() rl.Vector3 {
	return rl.NewVector3(2*p.HalfExtents.X, 2*p.HalfExtents.Y, SlabDepth)
}

func (p *Plane) Tag() Tag { return p.tag }

func (p *Plane) Solid() bool { return false }

// Normal is the rotated +Z axis.
func (p *Plane) Normal() rl.Vector3 { return Forward(p.Rotation) }

func (p *Plane) Matrix() rl.Matrix { return p.Pose().Matrix() }

// Destination returns the scene id this plane leads into, or "".
func (p *Plane) Destination() string {
	dest, _ := SurfaceDestination(p.tag)
	return dest
}

// Scene returns the scene the plane is currently spawned in, or nil.
func (p *Plane) Scene() Scene { return p.scene }

// Active reports whether the plane is spawned and tagged.
func (p *Plane) Active() bool { return p.scene != nil && p.tag != nil }

// Place moves the plane to an anchor and tags it.
func (p *Plane) Place(anchor Pose, destination string) {
	p.Position = anchor.Position
	p.Rotation = rl.QuaternionNormalize(anchor.Rotation)
	p.tag = PortalSurface{Destination: destination}
}

// Spawn adds the plane to scene, removing it from any previous one.
func (p *Plane) Spawn(scene Scene) {
	if p.scene == scene {
		return
	}
	p.Despawn()
	scene.Add(p)
	p.scene = scene
}

// Despawn removes the plane from its scene. Planes never spawned are left alone.
func (p *Plane) Despawn() {
	if p.scene == nil {
		return
	}
	if p.scene.Contains(p) {
		p.scene.Remove(p)
	}
	p.scene = nil
}

// Park despawns the plane, clears its tag and moves it to its sentinel position.
func (p *Plane) Park() {
	p.Despawn()
	p.tag = nil
	p.Position = p.parked
	p.Rotation = rl.QuaternionIdentity()
}

// Parked reports whether the plane sits at its sentinel position.
func (p *Plane) Parked() bool {
	return p.scene == nil && rl.Vector3Equals(p.Position, p.parked)
}
