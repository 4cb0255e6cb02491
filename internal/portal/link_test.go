package portal

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshRemoteCameraParallax(t *testing.T) {
	cases := []struct {
		name        string
		exitYaw     float32
		local       rl.Vector3
		wantRemote  rl.Vector3
		wantForward rl.Vector3
	}{
		{"same_facing", 0, rl.NewVector3(1, 1.5, -2), rl.NewVector3(6, 1.5, 3), rl.NewVector3(0, 0, 1)},
		{"opposite_facing", yawHalfTurn, rl.NewVector3(1, 1.5, -2), rl.NewVector3(4, 1.5, 7), rl.NewVector3(0, 0, -1)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture()
			f.moveCamera(c.local)
			require.True(t, f.system.Open("b", NewPose(rl.Vector3{}, 0), NewPose(rl.NewVector3(5, 0, 5), c.exitYaw)))

			remote := f.system.Link().Remote.Camera()
			assertVec(t, c.wantRemote, remote.Position)
			assertVec(t, c.wantForward, remote.Forward())
			assert.Equal(t, f.system.Active().Camera().Fovy, remote.Fovy)
		})
	}
}

func TestRemoteCameraTracksLocalMovement(t *testing.T) {
	f := newFixture()
	require.True(t, f.system.Open("b", NewPose(rl.NewVector3(1, 0, 0), 0), NewPose(rl.NewVector3(5, 0, 5), 0)))

	f.moveCamera(rl.NewVector3(3, 2, -4))
	f.system.Update(0.016)

	link := f.system.Link()
	local := link.Local.Camera().Position
	remote := link.Remote.Camera().Position
	assertVec(t,
		rl.Vector3Subtract(local, link.Entry.Position),
		rl.Vector3Subtract(remote, link.Exit.Position),
	)
	assertVec(t, link.Exit.Position, link.OriginOffset())
}

func TestSwapExchangesRoles(t *testing.T) {
	f := newFixture()
	require.True(t, f.system.Open("b", NewPose(rl.Vector3{}, 0), NewPose(rl.NewVector3(5, 0, 5), yawHalfTurn)))
	link := f.system.Link()
	entry, exit := link.Entry, link.Exit

	swaps := 0
	prev := link.OnSwap
	link.OnSwap = func(l *Link) {
		swaps++
		prev(l)
	}
	link.Swap()

	assert.Equal(t, 1, swaps)
	assert.Same(t, exit, link.Entry)
	assert.Same(t, entry, link.Exit)
	assert.Equal(t, "b", link.Local.ID())
	assert.Equal(t, ModeLocal, link.Local.Mode())
	assert.Equal(t, ModeRemote, link.Remote.Mode())
	assertVec(t, entry.Position, link.OriginOffset())
	assert.Equal(t, "b", f.system.Active().ID())
	assert.Same(t, exit, link.Other(entry))
	assert.Nil(t, link.Other(NewPlane("stray", DefaultHalfExtents, ParkedEntry)))
}
