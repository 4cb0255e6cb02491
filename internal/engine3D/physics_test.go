package engine3D

import (
	"math"
	"testing"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFootprint(t *testing.T) {
	tests := []struct {
		name  string
		pose  portal.Pose
		scale rl.Vector3
		ok    bool
		l, b  float64
		r, tp float64
	}{
		{
			name:  "floor below walking band",
			pose:  portal.NewPose(rl.NewVector3(0, -0.05, 0), 0),
			scale: rl.NewVector3(10, 0.1, 10),
		},
		{
			name:  "ceiling above walking band",
			pose:  portal.NewPose(rl.NewVector3(0, 3, 0), 0),
			scale: rl.NewVector3(10, 0.1, 10),
		},
		{
			name:  "wall",
			pose:  portal.NewPose(rl.NewVector3(1, 1, 2), 0),
			scale: rl.NewVector3(4, 2, 0.5),
			ok:    true,
			l:     -1, b: 1.75, r: 3, tp: 2.25,
		},
		{
			name:  "quarter turn swaps extents",
			pose:  portal.NewPose(rl.NewVector3(0, 1, 0), math.Pi/2),
			scale: rl.NewVector3(4, 2, 0.5),
			ok:    true,
			l:     -0.25, b: -2, r: 0.25, tp: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb, ok := Footprint(tt.pose, tt.scale)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.l, bb.L, 1e-4)
			assert.InDelta(t, tt.b, bb.B, 1e-4)
			assert.InDelta(t, tt.r, bb.R, 1e-4)
			assert.InDelta(t, tt.tp, bb.T, 1e-4)
		})
	}
}

func TestSceneTracksStatics(t *testing.T) {
	scene := NewScene("room", rl.Black)
	wall := NewProp("wall", portal.NewPose(rl.NewVector3(0, 1, 2), 0), rl.NewVector3(4, 2, 0.5), true)
	floor := NewProp("floor", portal.NewPose(rl.NewVector3(0, -0.05, 0), 0), rl.NewVector3(10, 0.1, 10), true)
	rug := NewProp("rug", portal.NewPose(rl.NewVector3(0, 0.5, 0), 0), rl.NewVector3(1, 1, 1), false)

	scene.Add(wall)
	scene.Add(wall)
	scene.Add(floor)
	scene.Add(rug)

	assert.Len(t, scene.Nodes(), 3)
	assert.Equal(t, 1, scene.Physics().StaticCount())

	scene.Remove(wall)
	assert.False(t, scene.Contains(wall))
	assert.Equal(t, 0, scene.Physics().StaticCount())

	scene.Remove(wall)
	assert.Len(t, scene.Nodes(), 2)
}

func TestClearPropsKeepsPlanes(t *testing.T) {
	scene := NewScene("room", rl.Black)
	scene.Add(NewProp("box", portal.NewPose(rl.NewVector3(0, 1, 0), 0), rl.NewVector3(1, 1, 1), true))

	plane := portal.NewPlane("entry", portal.DefaultHalfExtents, portal.ParkedEntry)
	plane.Place(portal.NewPose(rl.NewVector3(0, 1.25, 3), 0), "other")
	plane.Spawn(scene)

	scene.ClearProps()

	require.Len(t, scene.Nodes(), 1)
	assert.Same(t, plane, scene.Nodes()[0])
	assert.Equal(t, 0, scene.Physics().StaticCount())
}

func TestActorStopsAtWall(t *testing.T) {
	scene := NewScene("room", rl.Black)
	scene.Add(NewProp("wall", portal.NewPose(rl.NewVector3(0, 1, 2), 0), rl.NewVector3(4, 2, 0.5), true))

	actor := NewActor(0.3)
	actor.Enter(scene.Physics(), 0, 0)

	for i := 0; i < 120; i++ {
		actor.SetVelocity(0, 2)
		scene.Update(1.0 / 60)
	}

	x, z := actor.Position()
	assert.InDelta(t, 0, x, 0.05)
	assert.Less(t, z, float32(1.75))
	assert.Greater(t, z, float32(1.0))
}

func TestActorMovesFreely(t *testing.T) {
	scene := NewScene("room", rl.Black)
	actor := NewActor(0.3)
	actor.Enter(scene.Physics(), 0, 0)

	actor.SetVelocity(1, 0)
	for i := 0; i < 60; i++ {
		scene.Update(1.0 / 60)
	}

	x, _ := actor.Position()
	assert.InDelta(t, 1, x, 0.02)
}

func TestActorTransfer(t *testing.T) {
	a := NewScene("a", rl.Black)
	b := NewScene("b", rl.Black)

	actor := NewActor(0.3)
	actor.Enter(a.Physics(), 0, 0)
	actor.SetVelocity(0, 2)

	half := rl.QuaternionFromAxisAngle(rl.NewVector3(0, 1, 0), math.Pi)
	actor.Transfer(b.Physics(), rl.NewVector3(5, 0, 4.9), half)

	assert.Same(t, b.Physics(), actor.Physics())
	x, z := actor.Position()
	assert.InDelta(t, 5, x, 1e-5)
	assert.InDelta(t, 4.9, z, 1e-5)

	vx, vz := actor.Velocity()
	assert.InDelta(t, 0, vx, 1e-4)
	assert.InDelta(t, -2, vz, 1e-4)

	assert.False(t, a.Physics().Space().ContainsBody(actor.body))
	assert.True(t, b.Physics().Space().ContainsBody(actor.body))

	actor.Leave()
	assert.Nil(t, actor.Physics())
}
