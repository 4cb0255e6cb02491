package engine3D

import (
	"math"
	"testing"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z")
}

func TestCastHitsNearestSolid(t *testing.T) {
	scene := NewScene("room", rl.Black)
	near := NewProp("near", portal.NewPose(rl.NewVector3(0, 1, 5), 0), rl.NewVector3(2, 2, 1), true)
	far := NewProp("far", portal.NewPose(rl.NewVector3(0, 1, 9), 0), rl.NewVector3(2, 2, 1), true)
	scene.Add(far)
	scene.Add(near)

	hit, ok := scene.Cast(rl.NewVector3(0, 1, 0), rl.NewVector3(0, 0, 2))
	require.True(t, ok)
	assert.Same(t, near, hit.Node)
	assert.InDelta(t, 4.5, hit.Distance, 1e-4)
	assertVec(t, rl.NewVector3(0, 1, 4.5), hit.Position)
	assertVec(t, rl.NewVector3(0, 0, -1), hit.Normal)
}

func TestCastRotatedProp(t *testing.T) {
	scene := NewScene("room", rl.Black)
	scene.Add(NewProp("turned", portal.NewPose(rl.NewVector3(0, 1, 5), math.Pi/2), rl.NewVector3(1, 2, 2), true))

	hit, ok := scene.Cast(rl.NewVector3(0, 1, 0), rl.NewVector3(0, 0, 1))
	require.True(t, ok)
	assert.InDelta(t, 4.5, hit.Distance, 1e-4)
	assertVec(t, rl.NewVector3(0, 0, -1), hit.Normal)
}

func TestCastSkipsDecoration(t *testing.T) {
	scene := NewScene("room", rl.Black)
	scene.Add(NewProp("rug", portal.NewPose(rl.NewVector3(0, 1, 5), 0), rl.NewVector3(2, 2, 1), false))

	_, ok := scene.Cast(rl.NewVector3(0, 1, 0), rl.NewVector3(0, 0, 1))
	assert.False(t, ok)
}

func TestCastIgnoresBoxesBehind(t *testing.T) {
	scene := NewScene("room", rl.Black)
	scene.Add(NewProp("behind", portal.NewPose(rl.NewVector3(0, 1, -5), 0), rl.NewVector3(2, 2, 1), true))

	_, ok := scene.Cast(rl.NewVector3(0, 1, 0), rl.NewVector3(0, 0, 1))
	assert.False(t, ok)
}

func TestCastHitsPortalPlane(t *testing.T) {
	scene := NewScene("room", rl.Black)
	wall := NewProp("wall", portal.NewPose(rl.NewVector3(0, 1, 6), 0), rl.NewVector3(4, 2, 0.5), true)
	scene.Add(wall)

	plane := portal.NewPlane("entry", portal.DefaultHalfExtents, portal.ParkedEntry)
	plane.Place(portal.NewPose(rl.NewVector3(0, 1.25, 3), 0), "beyond")
	plane.Spawn(scene)

	hit, ok := scene.Cast(rl.NewVector3(0, 1, 0), rl.NewVector3(0, 0, 1))
	require.True(t, ok)
	assert.Same(t, plane, hit.Node)
	dest, tagged := portal.SurfaceDestination(hit.Node.Tag())
	assert.True(t, tagged)
	assert.Equal(t, "beyond", dest)
	assert.InDelta(t, 3-portal.SlabDepth/2, hit.Distance, 1e-4)
}

func TestPropBounds(t *testing.T) {
	prop := NewProp("turned", portal.NewPose(rl.NewVector3(1, 1, 1), math.Pi/2), rl.NewVector3(4, 2, 1), true)
	bounds := prop.Bounds()
	assertVec(t, rl.NewVector3(0.5, 0, -1), bounds.Min)
	assertVec(t, rl.NewVector3(1.5, 2, 3), bounds.Max)
}
