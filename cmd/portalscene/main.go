package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"portalscene/internal/convert"
	"portalscene/internal/level"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	levelsDir := flag.String("levels", "", "Directory with levels/*.yaml and scripts/*.tengo overriding the built-in memories")
	start := flag.String("start", "office", "Level to start in")
	pkgPath := flag.String("pkg", "", "Level bundle (.pkg) to unpack into the levels directory")
	assetsPath := flag.String("assets", "", "Path to the shared assets folder")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	fov := flag.Float64("fov", 70, "Vertical field of view in degrees")
	debugFlag := flag.Bool("debug", false, "Enable debug logging and open the debug overlay")
	verbose := flag.Bool("verbose", false, "Log info messages")
	logLevel := flag.String("log-level", "", "Minimum log level: debug, info, warn or error")
	silent := flag.Bool("silent", false, "Disable audio")
	watch := flag.Bool("watch", false, "Hot reload levels and scripts from the levels directory")
	x11Pointer := flag.Bool("x11-pointer", false, "Read mouse look from the X11 root pointer")
	raylibInfo := flag.Bool("raylib-info", false, "Show raylib info logs")
	noColor := flag.Bool("no-color", false, "Disable coloured log output")
	flag.Parse()

	utils.SilentMode = *silent
	utils.ShowRaylibInfo = *raylibInfo
	utils.ShowDebugUI = *debugFlag
	utils.NoColor = *noColor
	switch {
	case *logLevel != "":
		utils.CurrentLevel = utils.ParseLogLevel(*logLevel)
	case *debugFlag:
		utils.CurrentLevel = utils.LevelDebug
	case *verbose:
		utils.CurrentLevel = utils.LevelInfo
	}

	utils.Info("--- portalscene start ---")
	utils.DiscoverAssets(*assetsPath)

	if *pkgPath != "" {
		dir := *levelsDir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "portalscene", "levels")
		}
		if err := unpackBundle(*pkgPath, dir); err != nil {
			utils.Error("Failed to unpack %s: %v", *pkgPath, err)
			os.Exit(1)
		}
		*levelsDir = dir
	}
	level.OverrideDir = *levelsDir

	graph, err := level.LoadAll()
	if err != nil {
		utils.Error("Failed to load levels: %v", err)
		os.Exit(1)
	}
	if err := graph.Validate(); err != nil {
		utils.Error("Level graph is inconsistent:\n%v", err)
		os.Exit(1)
	}
	utils.Info("Loaded %d memories: %v", graph.Len(), graph.Names())

	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(int32(*width), int32(*height), "portalscene")
	defer rl.CloseWindow()
	rl.SetExitKey(rl.KeyEscape)

	window, err := NewWindow(graph, WindowOptions{
		Start:      *start,
		Fovy:       float32(*fov),
		Watch:      *watch,
		X11Pointer: *x11Pointer,
	})
	if err != nil {
		utils.Error("Failed to start: %v", err)
		return
	}
	defer window.Close()

	utils.Info("Starting game loop...")
	window.Run()
}

// unpackBundle extracts a bundle into dir and converts its textures into the
// PNG cache next to it.
func unpackBundle(pkgPath, dir string) error {
	utils.Info("Unpacking %s into %s...", pkgPath, dir)
	if err := convert.ExtractPkg(pkgPath, dir); err != nil {
		return err
	}
	n, err := convert.BulkConvertTextures(context.Background(), dir, filepath.Join(dir, "converted"), 0)
	if err != nil {
		return err
	}
	if n > 0 && utils.AssetsRoot == "" {
		utils.AssetsRoot = dir
	}
	return nil
}
