package portal

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseWithNothingOpen(t *testing.T) {
	f := newFixture()
	closed := 0
	f.system.OnClose = func() { closed++ }

	f.system.Close()

	assert.False(t, f.system.IsOpen())
	assert.Nil(t, f.system.Link())
	assert.Equal(t, "a", f.system.Active().ID())
	assert.Zero(t, closed)
	entry, exit := f.system.Planes()
	assert.True(t, entry.Parked())
	assert.True(t, exit.Parked())
}

func TestOpenTwiceKeepsOnePair(t *testing.T) {
	f := newFixture()
	closed := 0
	f.system.OnClose = func() { closed++ }

	require.True(t, f.system.Open("b", NewPose(rl.NewVector3(0, 0, 0), 0), NewPose(rl.NewVector3(5, 0, 5), 0)))
	require.True(t, f.system.Open("c", NewPose(rl.NewVector3(1, 0, 1), 0), NewPose(rl.NewVector3(-3, 0, 2), 0)))

	assert.Equal(t, 1, closed)
	link := f.system.Link()
	require.NotNil(t, link)
	assert.Equal(t, "a", link.Local.ID())
	assert.Equal(t, "c", link.Remote.ID())

	entry, exit := f.system.Planes()
	assert.Equal(t, "c", entry.Destination())
	assert.Equal(t, "a", exit.Destination())
	assert.True(t, f.scenes["a"].Contains(entry))
	assert.True(t, f.scenes["c"].Contains(exit))
	assert.False(t, f.scenes["b"].Contains(exit))
	assert.Len(t, f.scenes["a"].nodes, 1)
}

func TestOpenRejectsSelfAndUnknown(t *testing.T) {
	cases := []struct {
		name string
		dest string
	}{
		{"self", "a"},
		{"unknown", "nowhere"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture()
			require.True(t, f.system.Open("b", NewPose(rl.Vector3{}, 0), NewPose(rl.NewVector3(5, 0, 5), 0)))

			assert.False(t, f.system.Open(c.dest, NewPose(rl.Vector3{}, 0), NewPose(rl.Vector3{}, 0)))
			assert.False(t, f.system.IsOpen())
			entry, exit := f.system.Planes()
			assert.True(t, entry.Parked())
			assert.True(t, exit.Parked())
			assert.Empty(t, f.scenes["a"].nodes)
			assert.Empty(t, f.scenes["b"].nodes)
		})
	}
}

func TestOpenTagsAndSpawns(t *testing.T) {
	f := newFixture()
	opened := 0
	f.system.OnOpen = func(*Link) { opened++ }

	require.True(t, f.system.Open("b", NewPose(rl.NewVector3(1, 0, 2), 0), NewPose(rl.NewVector3(5, 0, 5), yawHalfTurn)))

	entry, exit := f.system.Planes()
	assert.Equal(t, 1, opened)
	assert.Equal(t, "b", entry.Destination())
	assert.Equal(t, "a", exit.Destination())
	assert.Same(t, f.scenes["a"], entry.Scene())
	assert.Same(t, f.scenes["b"], exit.Scene())
	assertVec(t, rl.NewVector3(1, 0, 2), entry.Position)
	assertVec(t, rl.NewVector3(0, 0, -1), exit.Normal())

	view, _ := f.system.View("b")
	assert.Equal(t, ModeRemote, view.Mode())
	assert.Equal(t, ModeLocal, f.system.Active().Mode())
}

func TestCloseParksAndFallsBack(t *testing.T) {
	f := newFixture()
	require.True(t, f.system.Open("b", NewPose(rl.Vector3{}, 0), NewPose(rl.NewVector3(5, 0, 5), 0)))

	f.system.Close()

	entry, exit := f.system.Planes()
	assert.True(t, entry.Parked())
	assert.True(t, exit.Parked())
	assert.Nil(t, entry.Tag())
	assert.Empty(t, f.scenes["a"].nodes)
	assert.Empty(t, f.scenes["b"].nodes)
	assert.False(t, f.system.Compositor().Bound())

	_, crossed := f.system.Update(1.0 / 60)
	assert.False(t, crossed)
}

func TestUpdateAdvancesViews(t *testing.T) {
	f := newFixture()
	f.system.Update(0.016)
	assert.Equal(t, 1, f.scenes["a"].updates)
	assert.Zero(t, f.scenes["b"].updates)

	require.True(t, f.system.Open("b", NewPose(rl.Vector3{}, 0), NewPose(rl.NewVector3(5, 0, 5), 0)))
	f.system.Update(0.016)
	assert.Equal(t, 2, f.scenes["a"].updates)
	assert.Equal(t, 1, f.scenes["b"].updates)
	assert.Zero(t, f.scenes["c"].updates)
}

func TestSetActive(t *testing.T) {
	f := newFixture()
	require.True(t, f.system.Open("b", NewPose(rl.Vector3{}, 0), NewPose(rl.NewVector3(5, 0, 5), 0)))

	assert.True(t, f.system.SetActive("c"))
	assert.False(t, f.system.IsOpen())
	assert.Equal(t, "c", f.system.Active().ID())
	assert.False(t, f.system.SetActive("missing"))
}

func TestDespawnNeverSpawnedPlane(t *testing.T) {
	plane := NewPlane("loose", DefaultHalfExtents, ParkedEntry)
	assert.NotPanics(t, plane.Despawn)
	assert.NotPanics(t, plane.Park)
	assert.True(t, plane.Parked())
}

func TestSurfaceDestination(t *testing.T) {
	dest, ok := SurfaceDestination(PortalSurface{Destination: "boat"})
	assert.True(t, ok)
	assert.Equal(t, "boat", dest)

	_, ok = SurfaceDestination(nil)
	assert.False(t, ok)

	var missing *PortalSurface
	_, ok = SurfaceDestination(missing)
	assert.False(t, ok)
}
