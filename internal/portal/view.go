package portal

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Camera is a perspective camera posed in world space.
type Camera struct {
	Pose
	Fovy float32
}

// Target returns the point one unit ahead of the camera.
func (c Camera) Target() rl.Vector3 {
	return rl.Vector3Add(c.Position, c.Forward())
}

// View wraps one scene with its camera and render target.
type View struct {
	scene  Scene
	camera Camera
	target Target
	mode   RenderMode
	mask   Target
}

func NewView(scene Scene, target Target, fovy float32) *View {
	return &View{
		scene:  scene,
		target: target,
		camera: Camera{Pose: Pose{Rotation: rl.QuaternionIdentity()}, Fovy: fovy},
		mode:   ModeLocal,
	}
}

func (v *View) ID() string { return v.scene.ID() }

func (v *View) Scene() Scene { return v.scene }

func (v *View) Camera() Camera { return v.camera }

func (v *View) SetCamera(camera Camera) { v.camera = camera }

func (v *View) SetPose(pose Pose) { v.camera.Pose = pose }

func (v *View) Mode() RenderMode { return v.mode }

func (v *View) Target() Target { return v.target }

// SetTarget swaps the render target, e.g. after a window resize.
func (v *View) SetTarget(target Target) { v.target = target }

// Advance steps the scene without drawing.
func (v *View) Advance(dt float32) {
	v.scene.Update(dt)
}

// Draw renders the scene into the view's target using the bound mode.
func (v *View) Draw(backend Backend) {
	backend.DrawScene(v.scene, v.camera, v.target, v.mode, v.mask)
}

func (v *View) BindAsLocal() {
	v.mode = ModeLocal
	v.mask = nil
}

// BindAsRemote makes the view clip against the mask silhouette and depth.
func (v *View) BindAsRemote(mask Target) {
	v.mode = ModeRemote
	v.mask = mask
}

func (v *View) ColorTexture() rl.Texture2D { return v.target.Color() }

func (v *View) DepthTexture() rl.Texture2D { return v.target.Depth() }
