package engine3D

import (
	"math"
	"strings"
	"testing"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestClipPlaneFacesAwayFromEye(t *testing.T) {
	plane := portal.NewPlane("exit", portal.DefaultHalfExtents, portal.ParkedExit)
	plane.Place(portal.NewPose(rl.NewVector3(5, 1.25, 5), 0), "a")

	tests := []struct {
		name string
		eye  rl.Vector3
		keep rl.Vector3
		drop rl.Vector3
	}{
		{"eye in front", rl.NewVector3(5, 1.5, 8), rl.NewVector3(5, 1, 2), rl.NewVector3(5, 1, 6)},
		{"eye behind", rl.NewVector3(5, 1.5, 1), rl.NewVector3(5, 1, 9), rl.NewVector3(5, 1, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, d := ClipPlane(plane, tt.eye)
			assert.GreaterOrEqual(t, rl.Vector3DotProduct(n, tt.keep)-d, float32(0))
			assert.Less(t, rl.Vector3DotProduct(n, tt.drop)-d, float32(0))
			assert.Less(t, rl.Vector3DotProduct(n, tt.eye)-d, float32(0))
		})
	}
}

func TestNodeTransformScalesThenPoses(t *testing.T) {
	prop := NewProp("box", portal.NewPose(rl.NewVector3(1, 2, 3), math.Pi/2), rl.NewVector3(2, 4, 6), true)
	m := NodeTransform(prop)

	corner := rl.Vector3Transform(rl.NewVector3(0.5, 0.5, 0.5), m)
	want := rl.Vector3Add(prop.Pose().Position,
		rl.Vector3RotateByQuaternion(rl.NewVector3(1, 2, 3), prop.Pose().Rotation))
	assertVec(t, want, corner)
}

func TestToCamera3D(t *testing.T) {
	cam := portal.Camera{Pose: portal.NewPose(rl.NewVector3(0, 1.5, 0), 0)}
	c := ToCamera3D(cam)
	assertVec(t, rl.NewVector3(0, 1.5, 1), c.Target)
	assertVec(t, rl.NewVector3(0, 1, 0), c.Up)
	assert.Equal(t, float32(70), c.Fovy)
}

func TestPreprocessShaderResolvesIncludes(t *testing.T) {
	src := "#include \"lighting.glsl\"\n#include \"lighting.glsl\"\nvoid main() {}\n"
	out := PreprocessShader(src, map[string]string{"DEPTH_BIAS": "0.1"}, "test")

	assert.True(t, strings.HasPrefix(out, "#version 330\n"))
	assert.Contains(t, out, "#define DEPTH_BIAS 0.1")
	assert.Contains(t, out, "#define saturate(x)")
	assert.Equal(t, 1, strings.Count(out, "vec3 shade("))
	assert.NotContains(t, out, "#include")
}

func TestEmbeddedShadersPresent(t *testing.T) {
	for _, name := range []string{"scene.vs", "local.fs", "remote.fs", "mask.fs", "merge.vs", "merge.fs", "lighting.glsl"} {
		_, err := shaderFS.ReadFile("shaders/" + name)
		assert.NoError(t, err, name)
	}
}

type stubTarget struct{ color, depth uint32 }

func (s stubTarget) Color() rl.Texture2D { return rl.Texture2D{ID: s.color} }
func (s stubTarget) Depth() rl.Texture2D { return rl.Texture2D{ID: s.depth} }

func TestRemotePassReadsMaskDepth(t *testing.T) {
	coverage, depth, ok := maskInputs(stubTarget{color: 7, depth: 9})
	assert.True(t, ok)
	assert.Equal(t, uint32(7), coverage.ID)
	assert.Equal(t, uint32(9), depth.ID)

	_, _, ok = maskInputs(nil)
	assert.False(t, ok)

	src, err := shaderFS.ReadFile("shaders/remote.fs")
	assert.NoError(t, err)
	assert.Contains(t, string(src), "uniform sampler2D texture2;")
	assert.Contains(t, string(src), "gl_FragCoord.z + DEPTH_BIAS < texture(texture2, uv).r")
}
