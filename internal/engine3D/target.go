package engine3D

import (
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RenderTarget is a render texture whose depth attachment is a sampleable texture.
type RenderTarget struct {
	Name string
	rt   rl.RenderTexture2D
}

// LoadTarget creates the framebuffer and swaps its depth renderbuffer for a
// depth texture so later passes can read it.
func LoadTarget(name string, width, height int32) *RenderTarget {
	rt := rl.LoadRenderTexture(width, height)
	if rt.ID == 0 {
		utils.Error("Target %s: failed to create %dx%d framebuffer", name, width, height)
		return &RenderTarget{Name: name, rt: rt}
	}

	depthID := rl.LoadTextureDepth(width, height, false)
	if depthID != 0 {
		rl.FramebufferAttach(rt.ID, depthID, rl.AttachmentDepth, rl.AttachmentTexture2d, 0)
		rt.Depth = rl.Texture2D{ID: depthID, Width: width, Height: height, Mipmaps: 1}
	}
	if !rl.FramebufferComplete(rt.ID) {
		utils.Warn("Target %s: framebuffer incomplete after depth attach", name)
	}

	rl.SetTextureWrap(rt.Texture, rl.WrapClamp)
	utils.Debug("Target %s: %dx%d (fbo %d, color %d, depth %d)", name, width, height, rt.ID, rt.Texture.ID, rt.Depth.ID)
	return &RenderTarget{Name: name, rt: rt}
}

func (t *RenderTarget) Color() rl.Texture2D { return t.rt.Texture }

func (t *RenderTarget) Depth() rl.Texture2D { return t.rt.Depth }

func (t *RenderTarget) Texture() rl.RenderTexture2D { return t.rt }

func (t *RenderTarget) Size() (int32, int32) { return t.rt.Texture.Width, t.rt.Texture.Height }

// Resize reallocates the target when the size changed. Returns true if it did.
func (t *RenderTarget) Resize(width, height int32) bool {
	w, h := t.Size()
	if w == width && h == height {
		return false
	}
	t.Unload()
	*t = *LoadTarget(t.Name, width, height)
	return true
}

func (t *RenderTarget) Unload() {
	if t.rt.ID != 0 {
		rl.UnloadRenderTexture(t.rt)
		t.rt = rl.RenderTexture2D{}
	}
}
