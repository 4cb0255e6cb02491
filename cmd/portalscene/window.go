package main

import (
	"fmt"
	"time"

	"portalscene/internal/debug"
	"portalscene/internal/engine3D"
	"portalscene/internal/level"
	"portalscene/internal/portal"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxFrameTime keeps a stalled frame from tunnelling the player through walls.
const maxFrameTime = 0.1

type WindowOptions struct {
	Start      string
	Fovy       float32
	Watch      bool
	X11Pointer bool
}

// Window owns every GPU and audio resource and drives the session once per frame.
type Window struct {
	session  *Session
	backend  *engine3D.Backend
	targets  *targetSet
	textures *textureCache
	audio    *engine3D.AudioManager
	overlay  *debug.Overlay
	watcher  *level.Watcher
	pointer  *utils.PointerTracker

	lastFrameTime time.Time
	mouseCaptured bool
}

// NewWindow needs an open raylib window.
func NewWindow(graph *level.Graph, opts WindowOptions) (*Window, error) {
	width, height := int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight())

	window := &Window{
		backend:       engine3D.NewBackend(),
		targets:       newTargetSet(width, height),
		textures:      newTextureCache(),
		audio:         engine3D.NewAudioManager(),
		lastFrameTime: time.Now(),
	}

	session, err := NewSession(SessionConfig{
		Graph:    graph,
		Start:    opts.Start,
		Fovy:     opts.Fovy,
		Backend:  window.backend,
		Mask:     window.targets.Mask(),
		Targets:  window.targets.Get,
		Textures: window.textures.Load,
		Audio:    window.audio,
	})
	if err != nil {
		window.Close()
		return nil, err
	}
	window.session = session
	utils.Debug("Render targets: %v (%dx%d)", window.targets.Names(), width, height)

	if opts.Watch {
		if level.OverrideDir == "" {
			utils.Warn("-watch needs -levels or -pkg; hot reload disabled")
		} else if watcher, err := level.WatchOverride(); err != nil {
			utils.Warn("Hot reload disabled: %v", err)
		} else {
			window.watcher = watcher
			utils.Info("Watching %s for level and script changes", level.OverrideDir)
		}
	}

	if opts.X11Pointer {
		if err := utils.InitX11(); err != nil {
			utils.Warn("X11 pointer unavailable, using raylib mouse: %v", err)
		} else {
			window.pointer = &utils.PointerTracker{}
		}
	}

	window.overlay = debug.NewOverlay()
	window.captureMouse(!utils.ShowDebugUI)
	return window, nil
}

func (window *Window) captureMouse(capture bool) {
	if capture == window.mouseCaptured {
		return
	}
	window.mouseCaptured = capture
	if window.pointer != nil {
		return
	}
	if capture {
		rl.DisableCursor()
	} else {
		rl.EnableCursor()
	}
}

func (window *Window) Run() {
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		window.Update()

		rl.BeginDrawing()
		window.Draw()
		rl.EndDrawing()
	}
}

func (window *Window) readInput() Input {
	var in Input
	if rl.IsKeyDown(rl.KeyW) {
		in.Forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		in.Forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Strafe++
	}
	if rl.IsKeyDown(rl.KeyA) {
		in.Strafe--
	}
	in.Interact = rl.IsKeyPressed(rl.KeyE)
	in.Frame = rl.IsKeyPressed(rl.KeyF)
	in.Drop = rl.IsKeyPressed(rl.KeyQ)
	if rl.IsKeyPressed(rl.KeyR) {
		in.Cycle = 1
	}

	if !window.mouseCaptured {
		return in
	}
	if window.pointer != nil {
		dx, dy, err := window.pointer.Delta()
		if err != nil {
			utils.Warn("X11 pointer query failed, falling back to raylib mouse: %v", err)
			window.pointer = nil
			window.mouseCaptured = false
			window.captureMouse(true)
			return in
		}
		in.LookX, in.LookY = dx, dy
		return in
	}
	delta := rl.GetMouseDelta()
	in.LookX, in.LookY = delta.X, delta.Y
	return in
}

func (window *Window) drainWatcher() {
	if window.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-window.watcher.Events:
			if !ok {
				window.watcher = nil
				return
			}
			window.session.Reload(change)
		case err, ok := <-window.watcher.Errors:
			if ok {
				utils.Warn("Watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (window *Window) Update() {
	currentTime := time.Now()
	deltaTime := currentTime.Sub(window.lastFrameTime).Seconds()
	window.lastFrameTime = currentTime
	if deltaTime > maxFrameTime {
		deltaTime = maxFrameTime
	}

	if rl.IsWindowResized() {
		window.targets.Resize(int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight()))
	}

	if rl.IsKeyPressed(rl.KeyF8) {
		utils.ShowDebugUI = !utils.ShowDebugUI
		window.captureMouse(!utils.ShowDebugUI)
	}
	if rl.IsKeyPressed(rl.KeyF9) {
		window.backend.Wireframe = !window.backend.Wireframe
	}

	window.drainWatcher()
	window.session.Update(float32(deltaTime), window.readInput())
	window.audio.Update()

	if utils.ShowDebugUI {
		window.overlay.Update()
	}
}

func (window *Window) drawHUD() {
	cx, cy := int32(rl.GetScreenWidth()/2), int32(rl.GetScreenHeight()/2)
	rl.DrawLine(cx-6, cy, cx+6, cy, rl.White)
	rl.DrawLine(cx, cy-6, cx, cy+6, rl.White)

	if trig := window.session.Nearby; trig != nil {
		text := "[E] " + trig.Name
		size := int32(20)
		w := rl.MeasureText(text, size)
		rl.DrawText(text, cx-w/2, int32(rl.GetScreenHeight())-60, size, rl.White)
	}
	if inv := window.session.Inventory(); inv.Len() > 0 {
		text := fmt.Sprintf("Holding: %s (%d/%d)", window.session.Held(), inv.Index()+1, inv.Len())
		rl.DrawText(text, 20, int32(rl.GetScreenHeight())-34, 18, rl.LightGray)
	}
}

func (window *Window) Draw() {
	rl.ClearBackground(rl.Black)

	window.session.System().Render()
	window.drawHUD()

	if utils.ShowDebugUI {
		entry, exit := window.session.System().Planes()
		camera := window.session.Camera()
		snap := debug.Capture(window.session.System(), window.session.LastCrossing, camera.Position)
		window.overlay.Draw(snap, camera, []*portal.Plane{entry, exit})
	}
}

func (window *Window) Close() {
	if window.watcher != nil {
		window.watcher.Close()
	}
	if window.overlay != nil {
		window.overlay.Unload()
	}
	if window.pointer != nil {
		utils.CloseX11()
	}
	window.audio.Close()
	window.textures.Unload()
	window.targets.Unload()
	window.backend.Unload()
}
