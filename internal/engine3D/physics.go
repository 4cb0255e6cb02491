package engine3D

import (
	"math"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"
)

// Collision runs in the XZ plane: cp.Vector{X: x, Y: z}.
// Props only block when they overlap the walking band.
const (
	walkBandLow  = 0.2
	walkBandHigh = 1.8
)

// Physics is one chipmunk space per scene.
type Physics struct {
	space   *cp.Space
	statics map[*Prop]*cp.Shape
}

func NewPhysics() *Physics {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	space.Iterations = 10
	return &Physics{
		space:   space,
		statics: make(map[*Prop]*cp.Shape),
	}
}

func (p *Physics) Space() *cp.Space { return p.space }

// Footprint is the XZ bounding box of a posed box, or false when the box
// does not reach the walking band.
func Footprint(pose portal.Pose, scale rl.Vector3) (cp.BB, bool) {
	half := rl.Vector3Scale(scale, 0.5)
	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)

	for _, sx := range []float32{-1, 1} {
		for _, sy := range []float32{-1, 1} {
			for _, sz := range []float32{-1, 1} {
				corner := rl.NewVector3(sx*half.X, sy*half.Y, sz*half.Z)
				w := rl.Vector3Add(pose.Position, rl.Vector3RotateByQuaternion(corner, pose.Rotation))
				minX, maxX = math.Min(minX, float64(w.X)), math.Max(maxX, float64(w.X))
				minY, maxY = math.Min(minY, float64(w.Y)), math.Max(maxY, float64(w.Y))
				minZ, maxZ = math.Min(minZ, float64(w.Z)), math.Max(maxZ, float64(w.Z))
			}
		}
	}

	if maxY < walkBandLow || minY > walkBandHigh {
		return cp.BB{}, false
	}
	return cp.BB{L: minX, B: minZ, R: maxX, T: maxZ}, true
}

// AddStatic registers a solid prop as a static box.
func (p *Physics) AddStatic(prop *Prop) {
	if _, exists := p.statics[prop]; exists {
		return
	}
	bb, ok := Footprint(prop.Pose(), prop.Scale())
	if !ok {
		return
	}
	shape := cp.NewBox2(p.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	p.space.AddShape(shape)
	p.statics[prop] = shape
}

func (p *Physics) RemoveStatic(prop *Prop) {
	shape, ok := p.statics[prop]
	if !ok {
		return
	}
	if p.space.ContainsShape(shape) {
		p.space.RemoveShape(shape)
	}
	delete(p.statics, prop)
}

func (p *Physics) StaticCount() int { return len(p.statics) }

func (p *Physics) Step(dt float32) {
	if dt <= 0 {
		return
	}
	p.space.Step(float64(dt))
}

// Actor is a circle body that can hop between spaces.
type Actor struct {
	body    *cp.Body
	shape   *cp.Shape
	physics *Physics
}

func NewActor(radius float64) *Actor {
	body := cp.NewBody(1, cp.INFINITY)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	return &Actor{body: body, shape: shape}
}

// Enter moves the actor into physics at (x, z).
func (a *Actor) Enter(physics *Physics, x, z float32) {
	if a.physics != nil && a.physics != physics {
		a.Leave()
	}
	a.body.SetPosition(cp.Vector{X: float64(x), Y: float64(z)})
	if a.physics == physics {
		return
	}
	physics.space.AddBody(a.body)
	physics.space.AddShape(a.shape)
	a.physics = physics
}

func (a *Actor) Leave() {
	if a.physics == nil {
		return
	}
	a.physics.space.RemoveShape(a.shape)
	a.physics.space.RemoveBody(a.body)
	a.physics = nil
}

func (a *Actor) Physics() *Physics { return a.physics }

// Position returns (x, z).
func (a *Actor) Position() (float32, float32) {
	p := a.body.Position()
	return float32(p.X), float32(p.Y)
}

func (a *Actor) SetVelocity(x, z float32) {
	a.body.SetVelocityVector(cp.Vector{X: float64(x), Y: float64(z)})
}

// Velocity returns (x, z).
func (a *Actor) Velocity() (float32, float32) {
	v := a.body.Velocity()
	return float32(v.X), float32(v.Y)
}

// Transfer carries the actor through a portal: new space, new position and
// velocity turned by rotation.
func (a *Actor) Transfer(physics *Physics, position rl.Vector3, rotation rl.Quaternion) {
	vx, vz := a.Velocity()
	v := rl.Vector3RotateByQuaternion(rl.NewVector3(vx, 0, vz), rotation)
	a.Enter(physics, position.X, position.Z)
	a.SetVelocity(v.X, v.Z)
}
