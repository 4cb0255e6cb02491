package debug

import (
	"math"
	"os"
	"runtime"
	"time"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type DebugTab int

const (
	TabPortal DebugTab = iota
	TabTargets
	TabPerformance
)

var tabNames = []string{"Portal", "Targets", "Performance"}

// Overlay is the F8 sidebar. It needs an open window.
type Overlay struct {
	ActiveTab         DebugTab
	ShowPlaneOutlines bool
	ShowDepth         bool
	ScrollOffset      float64

	fontHeight   int
	lineHeight   int
	tabHeight    int
	sidebarWidth int

	prevLeftMouseButton bool
	mouseX              int
	mouseY              int
	clicked             bool

	uiBuffer          rl.RenderTexture2D
	uiScale           float64
	font              rl.Font
	cachedWidth       int
	cachedHeight      int
	monitorHeight     int
	bufferInitialized bool

	lastUpdateTime time.Time
	frameCount     int
	fps            float64
	memStats       runtime.MemStats
}

func NewOverlay() *Overlay {
	d := &Overlay{
		ActiveTab:      TabPortal,
		monitorHeight:  rl.GetMonitorHeight(rl.GetCurrentMonitor()),
		lastUpdateTime: time.Now(),
	}
	d.updateLayout()

	fontPaths := []string{
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	}
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			d.font = rl.LoadFontEx(path, 64, nil, 0)
			rl.SetTextureFilter(d.font.Texture, rl.FilterBilinear)
			break
		}
	}

	runtime.ReadMemStats(&d.memStats)
	return d
}

// LayoutScale maps a monitor height to the sidebar scale factor.
func LayoutScale(monitorHeight int) float64 {
	return math.Max(1.0, float64(monitorHeight)/1080.0)
}

func (d *Overlay) updateLayout() {
	scale := LayoutScale(d.monitorHeight)
	d.fontHeight = int(16 * scale)
	d.lineHeight = int(24 * scale)
	d.tabHeight = int(40 * scale)
	d.sidebarWidth = int(420 * scale)
	d.uiScale = scale
}

// TabAt returns the tab under x in a header of the given width.
func TabAt(x float64, width int) DebugTab {
	tab := DebugTab(int(x / (float64(width) / float64(len(tabNames)))))
	if tab < 0 {
		return TabPortal
	}
	if int(tab) >= len(tabNames) {
		return TabPerformance
	}
	return tab
}

func (d *Overlay) Update() {
	d.frameCount++
	now := time.Now()
	if now.Sub(d.lastUpdateTime) >= time.Second {
		d.fps = float64(d.frameCount) / now.Sub(d.lastUpdateTime).Seconds()
		d.frameCount = 0
		d.lastUpdateTime = now
		runtime.ReadMemStats(&d.memStats)
	}

	mPos := rl.GetMousePosition()
	d.mouseX = int(mPos.X)
	d.mouseY = int(mPos.Y)
	x := float64(d.mouseX)
	y := float64(d.mouseY)

	leftPressed := rl.IsMouseButtonDown(rl.MouseLeftButton)
	d.clicked = leftPressed && !d.prevLeftMouseButton
	d.prevLeftMouseButton = leftPressed

	if d.clicked && y < float64(d.tabHeight) && x < float64(d.sidebarWidth) {
		d.ActiveTab = TabAt(x, d.sidebarWidth)
		d.ScrollOffset = 0
	}

	toggle := d.getOutlineToggleRect()
	if d.clicked && rl.CheckCollisionPointRec(mPos, toggle) {
		d.ShowPlaneOutlines = !d.ShowPlaneOutlines
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		d.ActiveTab = (d.ActiveTab + 1) % DebugTab(len(tabNames))
		d.ScrollOffset = 0
	}

	if x < float64(d.sidebarWidth) {
		d.ScrollOffset -= float64(rl.GetMouseWheelMove()) * 20
		if d.ScrollOffset < 0 {
			d.ScrollOffset = 0
		}
	}
}

// Draw renders the sidebar over the composited frame. camera and planes feed
// the outline pass.
func (d *Overlay) Draw(snap Snapshot, camera portal.Camera, planes []*portal.Plane) {
	if d.ShowPlaneOutlines {
		d.drawPlaneOutlines(camera, planes, snap.Level)
	}

	sh := rl.GetScreenHeight()
	if d.cachedWidth != d.sidebarWidth || d.cachedHeight != sh {
		if d.bufferInitialized {
			rl.UnloadRenderTexture(d.uiBuffer)
		}
		d.uiBuffer = rl.LoadRenderTexture(int32(d.sidebarWidth), int32(sh))
		d.bufferInitialized = true
		d.cachedWidth = d.sidebarWidth
		d.cachedHeight = sh
	}

	rl.BeginTextureMode(d.uiBuffer)
	rl.ClearBackground(rl.Blank)
	rl.DrawRectangle(0, 0, int32(d.sidebarWidth), int32(sh), rl.NewColor(0, 0, 0, 200))

	d.drawTabs()
	d.drawOutlineToggle()

	contentY := d.tabHeight + int(float64(d.tabHeight)*0.75) - int(d.ScrollOffset)
	switch d.ActiveTab {
	case TabPortal:
		ui := NewUIContext(10, contentY, d.lineHeight, d.fontHeight, d.font, d.mouseX, d.mouseY, d.clicked)
		ui.Lines(PortalLines(snap))
	case TabTargets:
		ui := NewUIContext(10, contentY, d.lineHeight, d.fontHeight, d.font, d.mouseX, d.mouseY, d.clicked)
		if ui.Checkbox("Show depth", d.ShowDepth) {
			d.ShowDepth = !d.ShowDepth
		}
		for _, t := range snap.Targets {
			tex := t.Texture
			if d.ShowDepth {
				tex = t.Depth
			}
			ui.Thumbnail(t.Label, tex, d.sidebarWidth-20)
		}
	case TabPerformance:
		d.drawPerformance(contentY)
	}

	rl.EndTextureMode()

	sourceRec := rl.NewRectangle(0, 0, float32(d.sidebarWidth), -float32(sh))
	destRec := rl.NewRectangle(0, 0, float32(d.sidebarWidth), float32(sh))
	rl.DrawTexturePro(d.uiBuffer.Texture, sourceRec, destRec, rl.NewVector2(0, 0), 0, rl.White)
}

func (d *Overlay) drawTabs() {
	tabWidth := d.sidebarWidth / len(tabNames)

	for i, name := range tabNames {
		color := rl.NewColor(100, 100, 100, 255)
		if d.ActiveTab == DebugTab(i) {
			color = rl.NewColor(150, 150, 150, 255)
		}

		x := int32(i * tabWidth)
		rl.DrawRectangle(x, 0, int32(tabWidth), int32(d.tabHeight), color)
		d.DrawText(name, x+10, int32(float64(d.tabHeight)*0.3), int32(d.fontHeight), rl.White)
	}
}

func (d *Overlay) DrawText(text string, x, y int32, fontSize int32, color rl.Color) {
	if d.font.BaseSize > 0 {
		rl.DrawTextEx(d.font, text, rl.NewVector2(float32(x), float32(y)), float32(fontSize), 1, color)
	} else {
		rl.DrawText(text, x, y, fontSize, color)
	}
}

func (d *Overlay) Unload() {
	if d.bufferInitialized {
		rl.UnloadRenderTexture(d.uiBuffer)
		d.bufferInitialized = false
	}
	if d.font.BaseSize > 0 {
		rl.UnloadFont(d.font)
	}
}
