package portal

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is anything a Scene can hold and cast against.
type Node interface {
	Pose() Pose
	// Scale is the visual size of the node's unit box. It never enters pose math.
	Scale() rl.Vector3
	Tag() Tag
	Solid() bool
}

// Hit is the nearest intersection returned by Scene.Cast.
type Hit struct {
	Node     Node
	Position rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Scene is the engine-side scene graph a View wraps.
type Scene interface {
	ID() string
	Add(node Node)
	Remove(node Node)
	Contains(node Node) bool
	// Update steps simulation without drawing.
	Update(dt float32)
	// Cast returns the nearest solid or tagged node along the ray.
	Cast(origin, direction rl.Vector3) (Hit, bool)
}

// Target is an offscreen colour + depth surface.
type Target interface {
	Color() rl.Texture2D
	Depth() rl.Texture2D
}

// RenderMode selects how a view's scene is drawn.
type RenderMode int

const (
	ModeLocal RenderMode = iota
	ModeRemote
)

func (m RenderMode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	}
	return "unknown"
}

// Backend executes the passes the Compositor schedules.
type Backend interface {
	DrawScene(scene Scene, camera Camera, target Target, mode RenderMode, mask Target)
	DrawMask(planes []*Plane, camera Camera, target Target)
	Merge(local, remote, mask Target)
	Present(target Target)
}
