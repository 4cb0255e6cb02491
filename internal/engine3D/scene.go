package engine3D

import (
	"image/color"

	"portalscene/internal/portal"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Scene is one level's node list plus its collision space.
type Scene struct {
	id      string
	Sky     color.RGBA
	Ambient string

	nodes   []portal.Node
	physics *Physics
	elapsed float32
}

func NewScene(id string, sky color.RGBA) *Scene {
	return &Scene{
		id:      id,
		Sky:     sky,
		physics: NewPhysics(),
	}
}

func (s *Scene) ID() string { return s.id }

func (s *Scene) Physics() *Physics { return s.physics }

// Elapsed is the simulated time since the scene was created.
func (s *Scene) Elapsed() float32 { return s.elapsed }

func (s *Scene) Add(node portal.Node) {
	if s.Contains(node) {
		return
	}
	s.nodes = append(s.nodes, node)
	if prop, ok := node.(*Prop); ok && prop.Solid() {
		s.physics.AddStatic(prop)
	}
}

func (s *Scene) Remove(node portal.Node) {
	for i, n := range s.nodes {
		if n != node {
			continue
		}
		s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
		if prop, ok := node.(*Prop); ok {
			s.physics.RemoveStatic(prop)
		}
		return
	}
	utils.Debug("Scene %s: remove of unknown node ignored", s.id)
}

func (s *Scene) Contains(node portal.Node) bool {
	for _, n := range s.nodes {
		if n == node {
			return true
		}
	}
	return false
}

func (s *Scene) Nodes() []portal.Node { return s.nodes }

// Props returns the level geometry, skipping portal planes.
func (s *Scene) Props() []*Prop {
	props := make([]*Prop, 0, len(s.nodes))
	for _, n := range s.nodes {
		if prop, ok := n.(*Prop); ok {
			props = append(props, prop)
		}
	}
	return props
}

// ClearProps removes every prop and keeps spawned portal planes.
func (s *Scene) ClearProps() {
	for _, prop := range s.Props() {
		s.Remove(prop)
	}
}

func (s *Scene) Update(dt float32) {
	s.elapsed += dt
	s.physics.Step(dt)
}

func (s *Scene) Cast(origin, direction rl.Vector3) (portal.Hit, bool) {
	return castNodes(s.nodes, rl.Ray{Position: origin, Direction: rl.Vector3Normalize(direction)})
}
