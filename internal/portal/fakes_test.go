package portal

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type fakeScene struct {
	id      string
	nodes   []Node
	updates int
}

func newFakeScene(id string) *fakeScene { return &fakeScene{id: id} }

func (s *fakeScene) ID() string { return s.id }

func (s *fakeScene) Add(node Node) { s.nodes = append(s.nodes, node) }

func (s *fakeScene) Remove(node Node) {
	for i, n := range s.nodes {
		if n == node {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

func (s *fakeScene) Contains(node Node) bool {
	for _, n := range s.nodes {
		if n == node {
			return true
		}
	}
	return false
}

func (s *fakeScene) Update(float32) { s.updates++ }

// Cast runs a slab test against every node's oriented box.
func (s *fakeScene) Cast(origin, direction rl.Vector3) (Hit, bool) {
	best := Hit{Distance: float32(math.Inf(1))}
	found := false
	for _, node := range s.nodes {
		if !node.Solid() && node.Tag() == nil {
			continue
		}
		if d, ok := castBox(node, origin, direction); ok && d < best.Distance {
			best = Hit{Node: node, Distance: d, Position: rl.Vector3Add(origin, rl.Vector3Scale(direction, d))}
			found = true
		}
	}
	return best, found
}

func castBox(node Node, origin, direction rl.Vector3) (float32, bool) {
	pose := node.Pose()
	inv := rl.QuaternionInvert(pose.Rotation)
	o := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(origin, pose.Position), inv)
	d := rl.Vector3RotateByQuaternion(direction, inv)
	half := rl.Vector3Scale(node.Scale(), 0.5)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	axes := [][3]float64{
		{float64(o.X), float64(d.X), float64(half.X)},
		{float64(o.Y), float64(d.Y), float64(half.Y)},
		{float64(o.Z), float64(d.Z), float64(half.Z)},
	}
	for _, a := range axes {
		if math.Abs(a[1]) < 1e-9 {
			if a[0] < -a[2] || a[0] > a[2] {
				return 0, false
			}
			continue
		}
		t1 := (-a[2] - a[0]) / a[1]
		t2 := (a[2] - a[0]) / a[1]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}
	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return float32(tmax), true
	}
	return float32(tmin), true
}

type wall struct {
	pose  Pose
	scale rl.Vector3
}

func (w *wall) Pose() Pose        { return w.pose }
func (w *wall) Scale() rl.Vector3 { return w.scale }
func (w *wall) Tag() Tag          { return nil }
func (w *wall) Solid() bool       { return true }

type fakeTarget struct{ name string }

func (t *fakeTarget) Color() rl.Texture2D { return rl.Texture2D{} }
func (t *fakeTarget) Depth() rl.Texture2D { return rl.Texture2D{} }

type recordingBackend struct {
	passes []string
}

func (b *recordingBackend) DrawScene(scene Scene, _ Camera, target Target, mode RenderMode, mask Target) {
	pass := fmt.Sprintf("scene:%s:%s", scene.ID(), mode)
	if mask != nil {
		pass += ":masked"
	}
	b.passes = append(b.passes, pass)
}

func (b *recordingBackend) DrawMask(planes []*Plane, _ Camera, _ Target) {
	b.passes = append(b.passes, fmt.Sprintf("mask:%d", len(planes)))
}

func (b *recordingBackend) Merge(local, remote, mask Target) {
	b.passes = append(b.passes, fmt.Sprintf("merge:%s:%s", local.(*fakeTarget).name, remote.(*fakeTarget).name))
}

func (b *recordingBackend) Present(target Target) {
	b.passes = append(b.passes, "present:"+target.(*fakeTarget).name)
}

func (b *recordingBackend) reset() { b.passes = nil }

// fixture is two registered scenes "a" and "b" plus a third "c".
type fixture struct {
	backend *recordingBackend
	system  *System
	scenes  map[string]*fakeScene
}

func newFixture() *fixture {
	backend := &recordingBackend{}
	f := &fixture{
		backend: backend,
		system:  NewSystem(backend, &fakeTarget{name: "mask"}, rl.Vector2{}),
		scenes:  map[string]*fakeScene{},
	}
	for _, id := range []string{"a", "b", "c"} {
		scene := newFakeScene(id)
		f.scenes[id] = scene
		f.system.Register(NewView(scene, &fakeTarget{name: id}, 70))
	}
	return f
}

func (f *fixture) moveCamera(position rl.Vector3) {
	f.system.Active().SetPose(Pose{Position: position, Rotation: f.system.Active().Camera().Rotation})
}

var yawHalfTurn = float32(math.Pi)
