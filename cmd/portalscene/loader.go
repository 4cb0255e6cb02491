package main

import (
	"sort"

	"portalscene/internal/convert"
	"portalscene/internal/engine3D"
	"portalscene/internal/portal"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// textureCache uploads prop textures once. Misses are cached too so a broken
// name is only reported once.
type textureCache struct {
	loaded map[string]*rl.Texture2D
}

func newTextureCache() *textureCache {
	return &textureCache{loaded: make(map[string]*rl.Texture2D)}
}

func (c *textureCache) Load(name string) *rl.Texture2D {
	if tex, ok := c.loaded[name]; ok {
		return tex
	}
	c.loaded[name] = nil

	path := utils.FindTextureFile(name)
	if path == "" {
		utils.Warn("Could not resolve texture %s", name)
		return nil
	}
	tex, err := convert.LoadTextureNative(path)
	if err != nil {
		utils.Error("Failed to load texture %s from %s: %v", name, path, err)
		return nil
	}
	rl.SetTextureWrap(*tex, rl.WrapRepeat)
	utils.Debug("Loaded texture %s (%dx%d) from %s", name, tex.Width, tex.Height, path)
	c.loaded[name] = tex
	return tex
}

func (c *textureCache) Unload() {
	for _, tex := range c.loaded {
		if tex != nil {
			rl.UnloadTexture(*tex)
		}
	}
	c.loaded = make(map[string]*rl.Texture2D)
}

// targetSet owns one render target per level plus the shared mask.
type targetSet struct {
	width, height int32
	mask          *engine3D.RenderTarget
	levels        map[string]*engine3D.RenderTarget
}

func newTargetSet(width, height int32) *targetSet {
	return &targetSet{
		width:  width,
		height: height,
		mask:   engine3D.LoadTarget("mask", width, height),
		levels: make(map[string]*engine3D.RenderTarget),
	}
}

// Get returns the level's target, creating it on first use.
func (t *targetSet) Get(name string) portal.Target {
	if rt, ok := t.levels[name]; ok {
		return rt
	}
	rt := engine3D.LoadTarget(name, t.width, t.height)
	t.levels[name] = rt
	return rt
}

func (t *targetSet) Mask() *engine3D.RenderTarget { return t.mask }

// Resize reallocates every target in place so views and the compositor keep
// their pointers.
func (t *targetSet) Resize(width, height int32) {
	if width <= 0 || height <= 0 || (width == t.width && height == t.height) {
		return
	}
	t.width, t.height = width, height
	t.mask.Resize(width, height)
	for _, rt := range t.levels {
		rt.Resize(width, height)
	}
	utils.Info("Render targets resized to %dx%d", width, height)
}

func (t *targetSet) Unload() {
	t.mask.Unload()
	for _, rt := range t.levels {
		rt.Unload()
	}
}

func (t *targetSet) Names() []string {
	names := make([]string, 0, len(t.levels))
	for name := range t.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
