package engine3D

import (
	"image/color"

	"portalscene/internal/portal"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Backend draws portal passes with raylib into RenderTargets.
type Backend struct {
	Shaders  *Shaders
	LightDir rl.Vector3
	Ambient  float32

	// Wireframe outlines every prop after the shaded pass.
	Wireframe bool

	cube     rl.Mesh
	material rl.Material
	blank    rl.Texture2D

	warned map[string]bool
}

// NewBackend needs an open window.
func NewBackend() *Backend {
	b := &Backend{
		Shaders:  LoadShaders(),
		LightDir: rl.NewVector3(-0.4, -1, -0.3),
		Ambient:  0.35,
		cube:     rl.GenMeshCube(1, 1, 1),
		material: rl.LoadMaterialDefault(),
		warned:   make(map[string]bool),
	}
	b.blank = b.material.GetMap(rl.MapDiffuse).Texture
	return b
}

func (b *Backend) Unload() {
	b.Shaders.Unload()
	rl.UnloadMesh(&b.cube)
}

func (b *Backend) renderTarget(target portal.Target) (*RenderTarget, bool) {
	rt, ok := target.(*RenderTarget)
	if !ok || rt.Texture().ID == 0 {
		if !b.warned["target"] {
			utils.Warn("Backend: target %T is not a loaded RenderTarget, skipping pass", target)
			b.warned["target"] = true
		}
		return nil, false
	}
	return rt, true
}

// NodeTransform scales the unit cube to the node's size, then poses it.
func NodeTransform(node portal.Node) rl.Matrix {
	s := node.Scale()
	return rl.MatrixMultiply(rl.MatrixScale(s.X, s.Y, s.Z), node.Pose().Matrix())
}

// ClipPlane returns (n, d) such that points p with dot(n, p) - d >= 0 lie on
// the far side of plane from eye.
func ClipPlane(plane *portal.Plane, eye rl.Vector3) (rl.Vector3, float32) {
	n := plane.Normal()
	d := rl.Vector3DotProduct(n, plane.Position)
	if rl.Vector3DotProduct(n, eye)-d > 0 {
		return rl.Vector3Negate(n), -d
	}
	return n, d
}

// exitPlane finds the spawned portal plane in a scene.
func exitPlane(scene portal.Scene) *portal.Plane {
	sc, ok := scene.(*Scene)
	if !ok {
		return nil
	}
	for _, node := range sc.Nodes() {
		if plane, ok := node.(*portal.Plane); ok && plane.Active() {
			return plane
		}
	}
	return nil
}

func (b *Backend) drawNode(node portal.Node, shader rl.Shader, tint color.RGBA, texture rl.Texture2D) {
	material := b.material
	if shader.ID != 0 {
		material.Shader = shader
	}
	diffuse := material.GetMap(rl.MapDiffuse)
	diffuse.Color = tint
	diffuse.Texture = texture
	rl.DrawMesh(b.cube, material, NodeTransform(node))
}

func (b *Backend) DrawScene(scene portal.Scene, camera portal.Camera, target portal.Target, mode portal.RenderMode, mask portal.Target) {
	rt, ok := b.renderTarget(target)
	if !ok {
		return
	}

	sky := rl.Black
	var nodes []portal.Node
	if sc, ok := scene.(*Scene); ok {
		sky = sc.Sky
		nodes = sc.Nodes()
	}

	shader := b.Shaders.Local
	if mode == portal.ModeRemote {
		shader = b.Shaders.Remote
		n, d := rl.NewVector3(0, 0, 0), float32(-1)
		if plane := exitPlane(scene); plane != nil {
			n, d = ClipPlane(plane, camera.Position)
		}
		w, h := rt.Size()
		b.Shaders.SetVec4(shader, "clipPlane", n.X, n.Y, n.Z, d)
		b.Shaders.SetVec2(shader, "resolution", float32(w), float32(h))
	}
	b.Shaders.SetVec3(shader, "lightDir", b.LightDir)
	b.Shaders.SetFloat(shader, "ambient", b.Ambient)

	// The remote shader reads the mask through the specular and normal slots.
	specular := b.material.GetMap(rl.MapSpecular)
	normal := b.material.GetMap(rl.MapNormal)
	previous, previousNormal := specular.Texture, normal.Texture
	if mode == portal.ModeRemote {
		if coverage, depth, ok := maskInputs(mask); ok {
			specular.Texture = coverage
			normal.Texture = depth
		}
	}

	rl.BeginTextureMode(rt.Texture())
	rl.ClearBackground(sky)
	rl.BeginMode3D(ToCamera3D(camera))

	for _, node := range nodes {
		if node.Tag() != nil {
			continue
		}
		tint, texture := rl.LightGray, b.blank
		if prop, ok := node.(*Prop); ok {
			tint = prop.Tint
			if prop.Texture != nil && prop.Texture.ID != 0 {
				texture = *prop.Texture
			}
		}
		b.drawNode(node, shader, tint, texture)
	}

	if b.Wireframe {
		for _, node := range nodes {
			if prop, ok := node.(*Prop); ok {
				bounds := prop.Bounds()
				rl.DrawBoundingBox(bounds, rl.Green)
			}
		}
	}

	rl.EndMode3D()
	rl.EndTextureMode()

	specular.Texture = previous
	normal.Texture = previousNormal
}

// maskInputs returns the mask coverage and depth textures the remote pass
// tests against.
func maskInputs(mask portal.Target) (coverage, depth rl.Texture2D, ok bool) {
	if mask == nil {
		return rl.Texture2D{}, rl.Texture2D{}, false
	}
	return mask.Color(), mask.Depth(), true
}

func (b *Backend) DrawMask(planes []*portal.Plane, camera portal.Camera, target portal.Target) {
	rt, ok := b.renderTarget(target)
	if !ok {
		return
	}

	rl.BeginTextureMode(rt.Texture())
	rl.ClearBackground(rl.Blank)
	rl.BeginMode3D(ToCamera3D(camera))
	rl.DisableBackfaceCulling()
	for _, plane := range planes {
		b.drawNode(plane, b.Shaders.Mask, rl.White, b.blank)
	}
	rl.EnableBackfaceCulling()
	rl.EndMode3D()
	rl.EndTextureMode()
}

// fullscreen maps a render target onto the whole screen; render textures are
// stored bottom-up so the source height is negated.
func fullscreen(texture rl.Texture2D) (rl.Rectangle, rl.Rectangle) {
	src := rl.NewRectangle(0, 0, float32(texture.Width), -float32(texture.Height))
	dst := rl.NewRectangle(0, 0, float32(rl.GetRenderWidth()), float32(rl.GetRenderHeight()))
	return src, dst
}

func (b *Backend) Merge(local, remote, mask portal.Target) {
	shader := b.Shaders.Merge
	if shader.ID == 0 {
		if !b.warned["merge"] {
			utils.Warn("Backend: merge shader unavailable, presenting local view only")
			b.warned["merge"] = true
		}
		b.Present(local)
		return
	}

	base := local.Color()
	src, dst := fullscreen(base)

	rl.BeginShaderMode(shader)
	b.Shaders.SetTexture(shader, "remoteColor", remote.Color())
	b.Shaders.SetTexture(shader, "maskColor", mask.Color())
	b.Shaders.SetTexture(shader, "localDepth", local.Depth())
	b.Shaders.SetTexture(shader, "maskDepth", mask.Depth())
	rl.DrawTexturePro(base, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
}

func (b *Backend) Present(target portal.Target) {
	tex := target.Color()
	if tex.ID == 0 {
		return
	}
	src, dst := fullscreen(tex)
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}
