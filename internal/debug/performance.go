package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (d *Overlay) drawPerformance(startY int) {
	ui := NewUIContext(10, startY, d.lineHeight, d.fontHeight, d.font, d.mouseX, d.mouseY, d.clicked)

	ui.Header("Timing:")
	ui.IndentLabel(fmt.Sprintf("FPS: %.1f", d.fps), 10)
	ui.IndentLabel(fmt.Sprintf("Frame Time: %.2f ms", rl.GetFrameTime()*1000), 10)

	ui.Separator()

	ui.Header("Memory Usage:")
	ui.IndentLabel(fmt.Sprintf("Allocated: %.2f MB", float64(d.memStats.Alloc)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("Heap Alloc: %.2f MB", float64(d.memStats.HeapAlloc)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("Process Total: %.2f MB", float64(d.memStats.Sys)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("GC Cycles: %d", d.memStats.NumGC), 10)

	ui.Separator()

	ui.Header("System:")
	ui.IndentLabel(fmt.Sprintf("Cores: %d", runtime.NumCPU()), 10)
	ui.IndentLabel(fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()), 10)
	ui.IndentLabel(fmt.Sprintf("OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH), 10)

	ui.Separator()

	ui.Header("Graphics:")
	monitor := rl.GetCurrentMonitor()
	ui.IndentLabel(fmt.Sprintf("Monitor: %s (%d Hz)", rl.GetMonitorName(monitor), rl.GetMonitorRefreshRate(monitor)), 10)
	ui.IndentLabel(fmt.Sprintf("Window: %dx%d", rl.GetScreenWidth(), rl.GetScreenHeight()), 10)
	ui.IndentLabel(fmt.Sprintf("Render: %dx%d", rl.GetRenderWidth(), rl.GetRenderHeight()), 10)
	ui.IndentLabel(fmt.Sprintf("UI Scale: %.2fx", d.uiScale), 10)
}
